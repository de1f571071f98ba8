package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/saradnja-api/internal/application/dto"
	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/pkg/logger"
)

// Códigos de error del sobre {ok:false, error, message}.
const (
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeUserDisabled       = "USER_DISABLED"
	CodeForbidden          = "FORBIDDEN"
	CodeValidation         = "VALIDATION_ERROR"
	CodeBadID              = "BAD_ID"
	CodeNotFound           = "NOT_FOUND"
	CodeRequestAlreadySent = "REQUEST_ALREADY_SENT"
	CodeAlreadyActive      = "ALREADY_ACTIVE"
	CodeNoChanges          = "NO_CHANGES"
	CodeConflict           = "CONFLICT"
	CodeInvalidState       = "INVALID_STATE"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInternal           = "INTERNAL_ERROR"
)

const internalMessage = "error interno del servidor"

type errorMapping struct {
	target error
	status int
	code   string
}

// errorTable única tabla de traducción error de dominio -> HTTP. Gana la primera coincidencia.
var errorTable = []errorMapping{
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, CodeUnauthorized},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, CodeInvalidCredentials},
	{domain.ErrUserDisabled, fiber.StatusForbidden, CodeUserDisabled},
	{domain.ErrForbidden, fiber.StatusForbidden, CodeForbidden},
	{domain.ErrNotCollaborating, fiber.StatusForbidden, CodeForbidden},
	{domain.ErrBadID, fiber.StatusBadRequest, CodeBadID},
	{domain.ErrValidation, fiber.StatusBadRequest, CodeValidation},
	{domain.ErrNotFound, fiber.StatusNotFound, CodeNotFound},
	{domain.ErrUserNotFound, fiber.StatusNotFound, CodeNotFound},
	{domain.ErrRequestAlreadySent, fiber.StatusConflict, CodeRequestAlreadySent},
	{domain.ErrAlreadyActive, fiber.StatusConflict, CodeAlreadyActive},
	{domain.ErrNoChanges, fiber.StatusConflict, CodeNoChanges},
	{domain.ErrInvalidState, fiber.StatusConflict, CodeInvalidState},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, CodeEmailExists},
	{domain.ErrDuplicate, fiber.StatusConflict, CodeConflict},
	{domain.ErrConflict, fiber.StatusConflict, CodeConflict},
	{domain.ErrStaleState, fiber.StatusConflict, CodeConflict},
}

// MapError traduce err a (status, código, mensaje). Lo que no es de dominio es INTERNAL_ERROR
// con mensaje genérico: el texto del store nunca llega al cliente.
func MapError(err error) (int, string, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return m.status, m.code, err.Error()
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch {
		case fe.Code == fiber.StatusNotFound:
			return fe.Code, CodeNotFound, fe.Message
		case fe.Code == fiber.StatusUnauthorized:
			return fe.Code, CodeUnauthorized, fe.Message
		case fe.Code == fiber.StatusForbidden:
			return fe.Code, CodeForbidden, fe.Message
		case fe.Code >= 400 && fe.Code < 500:
			return fe.Code, CodeValidation, fe.Message
		}
	}
	return fiber.StatusInternalServerError, CodeInternal, internalMessage
}

// ErrorHandler handler global de Fiber: los handlers devuelven el error tal cual y aquí se
// escribe el sobre. Los 500 se registran con el error original.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, code, message := MapError(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("request_id", GetRequestID(c)).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("error interno")
		}
		return c.Status(status).JSON(dto.Fail(code, message))
	}
}
