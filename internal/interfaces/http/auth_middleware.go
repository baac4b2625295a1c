package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/pkg/jwt"
)

// Locals keys que carga AuthMiddleware en Fiber.
const (
	LocalUserID   = "user_id"
	LocalRole     = "role"
	LocalTokenID  = "token_id"
	LocalTokenExp = "token_exp"
)

// RevocationChecker consulta la lista negra de tokens cerrados con logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware valida el Bearer Token JWT y extrae UserID, Role y jti a c.Locals.
// revoked puede ser nil (sin logout).
func AuthMiddleware(jwtSecret string, revoked RevocationChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if revoked != nil && claims.ID != "" {
			isRevoked, err := revoked.IsRevoked(c.UserContext(), claims.ID)
			if err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "AUTH_UNAVAILABLE", Message: "no se pudo verificar la sesión"})
			}
			if isRevoked {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "TOKEN_REVOKED", Message: "la sesión fue cerrada"})
			}
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalTokenID, claims.ID)
		c.Locals(LocalTokenExp, claims.Expiry())
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Token sin rol → 401; rol distinto → 403.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if !(&jwt.Claims{Role: role}).HasRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para este recurso"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (0 si no hay sesión).
func GetUserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalUserID).(int64)
	return id
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	role, _ := c.Locals(LocalRole).(string)
	return role
}

// GetTokenID devuelve el jti del token actual.
func GetTokenID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalTokenID).(string)
	return id
}

// GetTokenExp devuelve la expiración del token actual.
func GetTokenExp(c *fiber.Ctx) time.Time {
	exp, _ := c.Locals(LocalTokenExp).(time.Time)
	return exp
}
