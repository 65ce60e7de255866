// Package app содержит сценарии использования сервиса аутентификации.
package app

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sessionauth/internal/auth/domain/services"
)

var tracer = otel.Tracer("sessionauth/auth/app")

// Исходы операций для метрик.
const (
	OutcomeSuccess = "success"
)

// OutcomeRecorder учитывает исходы операций аутентификации.
type OutcomeRecorder interface {
	RecordOutcome(operation, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordOutcome(string, string) {}

// Option настраивает сценарии использования.
type Option func(*options)

type options struct {
	recorder           OutcomeRecorder
	unifyLoginFailures bool
}

// WithRecorder подключает учет исходов операций.
func WithRecorder(recorder OutcomeRecorder) Option {
	return func(o *options) {
		if recorder != nil {
			o.recorder = recorder
		}
	}
}

// WithUnifiedLoginFailures заставляет Login сообщать о неизвестном email
// так же, как о неверном пароле.
func WithUnifiedLoginFailures(enabled bool) Option {
	return func(o *options) {
		o.unifyLoginFailures = enabled
	}
}

func buildOptions(opts []Option) options {
	o := options{recorder: nopRecorder{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// outcome переводит результат операции в метку метрики.
func outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	return services.Kind(err).String()
}

// finish закрывает span и учитывает исход операции.
func finish(span trace.Span, recorder OutcomeRecorder, operation string, err error) {
	defer span.End()

	recorder.RecordOutcome(operation, outcome(err))
	if err == nil {
		return
	}
	span.RecordError(err)
	if services.Kind(err) == services.KindInternal {
		span.SetStatus(codes.Error, err.Error())
	}
}
