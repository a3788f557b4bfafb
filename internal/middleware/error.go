package middleware

import (
	"errors"
	"net/http"

	"vidquiz/internal/domain"
	"vidquiz/internal/dto"
	"vidquiz/internal/logger"
	"vidquiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is the centralized fiber error handler. Every error that
// escapes a handler is mapped to the standard envelope here.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appLogger := logger.Get()

		// Auth sentinel errors from the service layer
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(http.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false,
				Code:    string(domain.CodeUnauthorized),
				Error:   service.ErrInvalidCredentials.Error(),
			})
		}
		if errors.Is(err, service.ErrEmailAlreadyUsed) {
			return c.Status(http.StatusConflict).JSON(dto.ErrorResponse{
				Success: false,
				Code:    string(domain.CodeInvalidInput),
				Error:   service.ErrEmailAlreadyUsed.Error(),
			})
		}
		if errors.Is(err, service.ErrInvalidJWTToken) {
			return c.Status(http.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false,
				Code:    string(domain.CodeUnauthorized),
				Error:   "invalid or expired token",
			})
		}

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)

			appLogger.Error("Domain error occurred",
				zap.String("code", string(domainErr.Code)),
				zap.String("message", domainErr.Message),
				zap.Int("status", statusCode),
				zap.Error(domainErr.Cause),
			)

			return c.Status(statusCode).JSON(dto.ErrorResponse{
				Success: false,
				Code:    string(domainErr.Code),
				Error:   domainErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			appLogger.Warn("HTTP error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{
				Success: false,
				Code:    "HTTP_ERROR",
				Error:   fiberErr.Message,
			})
		}

		appLogger.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false,
			Code:    string(domain.CodeInternal),
			Error:   "Internal server error",
		})
	}
}

// mapDomainErrorToHTTPStatus maps domain error codes to HTTP status codes.
func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.CodeInvalidURL, domain.CodeUnsupportedQuestionType, domain.CodeInvalidInput:
		return http.StatusBadRequest
	case domain.CodeNoTranscript, domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeNoJSONFound, domain.CodeMalformedOutput, domain.CodeInvalidQuestionShape:
		return http.StatusUnprocessableEntity
	case domain.CodeTranscriptFetchFailed, domain.CodeGenerationService:
		return http.StatusBadGateway
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
