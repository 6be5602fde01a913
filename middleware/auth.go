package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"vibraframe/utils"
)

// UserIDKey is the fiber locals key holding the authenticated organizer id.
const UserIDKey = "userid"

// OrganizerAuth admits requests carrying a Supabase-issued HS256 access token
// signed with secret. An empty secret disables the check.
func OrganizerAuth(secret string) fiber.Handler {
	if secret == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "Missing bearer token")
		}

		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token expired"
			}
			return utils.RespondWithError(c, fiber.StatusUnauthorized, msg)
		}
		if claims.Subject == "" {
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "Token has no subject")
		}

		c.Locals(UserIDKey, claims.Subject)
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
