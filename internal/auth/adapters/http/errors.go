package http

import (
	"github.com/gofiber/fiber/v3"

	"sessionauth/internal/auth/adapters/http/dto"
	"sessionauth/internal/auth/adapters/http/middleware"
	"sessionauth/internal/auth/domain/services"
)

// Сообщения об ошибках, возвращаемые клиенту.
const (
	MessageInternalError        = middleware.MessageInternalError
	MessageNotFound             = "not_found_error"
	MessagePasswordNotMatch     = "password_not_match_error"
	MessageSamePassword         = "same_password_error"
	MessageUnauthenticated      = middleware.MessageUnauthenticated
	MessageValidation           = "validation_error"
	MessageInvalidJSON          = "invalid_json_format"
	MessageFailedCreateSession  = "failed_to_create_session_error"
	MessageFailedLogout         = "failed_to_logout_error"
	MessageRouteNotFound        = "route_not_found"
	MessageUserAlreadyExists    = services.ReasonUserAlreadyExists
	messageConflictWithoutCause = "conflict_error"
)

// errorStatus переводит доменную ошибку в HTTP-статус и сообщение.
func errorStatus(err error) (int, string) {
	switch services.Kind(err) {
	case services.KindConflict:
		if reason, ok := services.ConflictReason(err); ok {
			return fiber.StatusConflict, reason
		}
		return fiber.StatusConflict, messageConflictWithoutCause
	case services.KindNotFound:
		return fiber.StatusNotFound, MessageNotFound
	case services.KindCredentialMismatch:
		return fiber.StatusUnauthorized, MessagePasswordNotMatch
	case services.KindPasswordUnchanged:
		return fiber.StatusBadRequest, MessageSamePassword
	case services.KindUnauthenticated:
		return fiber.StatusUnauthorized, MessageUnauthenticated
	default:
		return fiber.StatusInternalServerError, MessageInternalError
	}
}

func writeDomainError(c fiber.Ctx, err error) error {
	status, message := errorStatus(err)
	return c.Status(status).JSON(dto.ErrorResponse{Message: message})
}

func writeError(c fiber.Ctx, status int, message string, details ...map[string]string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Message: message, Details: details})
}
