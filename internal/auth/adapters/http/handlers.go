package http

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"sessionauth/internal/auth/adapters/http/dto"
	"sessionauth/internal/auth/adapters/http/middleware"
	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/ports/api"
	"sessionauth/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerRegister       = "auth handler: register"
	LogHandlerLogin          = "auth handler: login"
	LogHandlerLogout         = "auth handler: logout"
	LogHandlerProfile        = "auth handler: profile"
	LogHandlerChangePassword = "auth handler: change password"

	LogInvalidJSON        = "request body is not valid JSON"
	LogValidationFailed   = "request validation failed"
	LogRequestRejected    = "request rejected by auth service"
	LogSessionNotCreated  = "failed to create session"
	LogSessionNotRefresh  = "failed to refresh session after password change"
	LogSessionNotFinished = "failed to finish session"
)

// Handler содержит HTTP обработчики для авторизации.
type Handler struct {
	auth      api.AuthUseCase
	sessions  api.SessionUseCase
	cookie    middleware.CookieSettings
	validator *RequestValidator
}

// NewHandler создает новый экземпляр обработчика авторизации.
func NewHandler(auth api.AuthUseCase, sessions api.SessionUseCase, cookie middleware.CookieSettings) *Handler {
	return &Handler{
		auth:      auth,
		sessions:  sessions,
		cookie:    cookie,
		validator: NewRequestValidator(),
	}
}

// Health сообщает, что сервис обрабатывает запросы.
func (h *Handler) Health(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(dto.HealthResponse{Status: "ok"})
}

// Register обрабатывает запрос на регистрацию нового пользователя.
func (h *Handler) Register(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	log := logger.Log(requestCtx)
	log.Debug(requestCtx, LogHandlerRegister)

	var req dto.RegisterRequest
	if handled, err := h.bind(c, &req); handled {
		return err
	}

	user, err := h.auth.Register(requestCtx, req.Email, req.Password)
	if err != nil {
		log.Debug(requestCtx, LogRequestRejected, zap.Error(err))
		return writeDomainError(c, err)
	}

	return h.startSession(c, user, fiber.StatusCreated)
}

// Login обрабатывает запрос на вход пользователя.
func (h *Handler) Login(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	log := logger.Log(requestCtx)
	log.Debug(requestCtx, LogHandlerLogin)

	var req dto.LoginRequest
	if handled, err := h.bind(c, &req); handled {
		return err
	}

	user, err := h.auth.Login(requestCtx, req.Email, req.Password)
	if err != nil {
		log.Debug(requestCtx, LogRequestRejected, zap.Error(err))
		return writeDomainError(c, err)
	}

	return h.startSession(c, user, fiber.StatusOK)
}

// Logout завершает сессию текущего запроса.
func (h *Handler) Logout(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	log := logger.Log(requestCtx)
	log.Debug(requestCtx, LogHandlerLogout)

	if err := h.sessions.Logout(requestCtx, middleware.SessionHandle(c)); err != nil {
		log.Error(requestCtx, LogSessionNotFinished, zap.Error(err))
		return writeError(c, fiber.StatusInternalServerError, MessageFailedLogout)
	}

	middleware.ClearSessionCookie(c, h.cookie)
	return c.Status(fiber.StatusOK).JSON(nil)
}

// Profile возвращает профиль пользователя из сессии.
func (h *Handler) Profile(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerProfile)

	profile, ok := middleware.Profile(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, MessageUnauthenticated)
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewUserResponse(profile))
}

// ChangePassword меняет пароль пользователя текущей сессии.
func (h *Handler) ChangePassword(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	log := logger.Log(requestCtx)
	log.Debug(requestCtx, LogHandlerChangePassword)

	profile, ok := middleware.Profile(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, MessageUnauthenticated)
	}

	var req dto.ChangePasswordRequest
	if handled, err := h.bind(c, &req); handled {
		return err
	}

	user, err := h.auth.ChangePassword(requestCtx, profile.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		log.Debug(requestCtx, LogRequestRejected, zap.Error(err))
		return writeDomainError(c, err)
	}

	if err := h.sessions.Refresh(requestCtx, middleware.SessionHandle(c), user); err != nil {
		log.Warn(requestCtx, LogSessionNotRefresh, zap.Error(err))
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewUserResponse(user.Profile()))
}

// bind разбирает и проверяет тело запроса. handled=true означает, что ответ уже записан.
func (h *Handler) bind(c fiber.Ctx, req any) (bool, error) {
	requestCtx := middleware.RequestContext(c)
	log := logger.Log(requestCtx)

	if err := c.Bind().JSON(req); err != nil {
		log.Debug(requestCtx, LogInvalidJSON, zap.Error(err))
		return true, writeError(c, fiber.StatusBadRequest, MessageInvalidJSON)
	}

	if details := h.validator.Validate(req); len(details) > 0 {
		log.Debug(requestCtx, LogValidationFailed, zap.Any("details", details))
		return true, writeError(c, fiber.StatusBadRequest, MessageValidation, details...)
	}

	return false, nil
}

func (h *Handler) startSession(c fiber.Ctx, user *entities.User, status int) error {
	requestCtx := middleware.RequestContext(c)

	handle, err := h.sessions.Establish(requestCtx, middleware.SessionHandle(c), user)
	if err != nil {
		logger.Log(requestCtx).Error(requestCtx, LogSessionNotCreated, zap.Error(err))
		return writeError(c, fiber.StatusInternalServerError, MessageFailedCreateSession)
	}

	c.Locals(middleware.LocalHandle, handle)
	middleware.SetSessionCookie(c, h.cookie, handle)

	return c.Status(status).JSON(dto.NewUserResponse(user.Profile()))
}
