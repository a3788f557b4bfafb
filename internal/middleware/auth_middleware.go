package middleware

import (
	"fmt"
	"strings"

	"vidquiz/internal/dto"
	"vidquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
)

// Protected is a middleware function that protects routes by requiring a valid JWT.
// It validates the token using the provided AuthService and sets the userID in the context.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false,
				Code:    "MISSING_AUTH_HEADER",
				Error:   "Authorization header is missing",
			})
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false,
				Code:    "INVALID_AUTH_SCHEME",
				Error:   "Authorization scheme is not Bearer",
			})
		}

		tokenString := strings.TrimPrefix(authHeader, BearerSchema)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false,
				Code:    "EMPTY_TOKEN",
				Error:   "Token is empty",
			})
		}

		claims, err := authService.ValidateJWT(c.Context(), tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false,
				Code:    "INVALID_TOKEN",
				Error:   err.Error(),
			})
		}

		if claims.TokenType != "access" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Success: false,
				Code:    "INVALID_TOKEN_TYPE",
				Error:   fmt.Sprintf("Invalid token type: expected access, got %s", claims.TokenType),
			})
		}

		c.Locals(UserIDKey, claims.UserID)

		return c.Next()
	}
}
