package serverutils

import (
	"fmt"
	"strings"
	"time"

	"library-service-be/internal/entity"
	"library-service-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type TokenClaims struct {
	UserId    uuid.UUID
	Role      string
	TokenType string
	ExpiresAt time.Time
}

func IssueToken(secret string, userId uuid.UUID, role entity.UserRole, tokenType string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    userId.String(),
		"role":       string(role),
		"token_type": tokenType,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates signature and expiry and returns the typed claims.
func ParseToken(secret, raw string) (*TokenClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", apperror.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid claims", apperror.ErrUnauthorized)
	}

	rawId, _ := claims["user_id"].(string)
	userId, err := uuid.Parse(rawId)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid claims", apperror.ErrUnauthorized)
	}
	role, _ := claims["role"].(string)
	tokenType, _ := claims["token_type"].(string)

	result := &TokenClaims{UserId: userId, Role: role, TokenType: tokenType}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.Time
	}
	return result, nil
}

// NewJwtMiddleware accepts access tokens only and stores user_id and role in Locals.
func NewJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		claims, err := ParseToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil || claims.TokenType != TokenTypeAccess {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		ctx.Locals("user_id", claims.UserId.String())
		ctx.Locals("role", claims.Role)
		return ctx.Next()
	}
}

// CurrentActor reads the caller placed in Locals by the JWT middleware.
func CurrentActor(ctx *fiber.Ctx) (entity.Actor, error) {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return entity.Actor{}, apperror.ErrUnauthorized
	}
	role, _ := ctx.Locals("role").(string)
	return entity.Actor{UserId: userId, IsStaff: role == string(entity.UserRoleStaff)}, nil
}

// RequireStaff lets safe methods through and restricts writes to staff.
func RequireStaff(ctx *fiber.Ctx) error {
	switch ctx.Method() {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return ctx.Next()
	}
	role, _ := ctx.Locals("role").(string)
	if role != string(entity.UserRoleStaff) {
		return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, "staff only"))
	}
	return ctx.Next()
}
