package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/stc-api/internal/middleware"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func identityApp(guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/me", guard, func(c *fiber.Ctx) error {
		identity := middleware.CurrentIdentity(c)
		return c.JSON(fiber.Map{
			"id":    identity.UserID,
			"role":  identity.Role,
			"name":  identity.Name,
			"email": identity.Email,
		})
	})
	return app
}

func callMe(t *testing.T, app *fiber.App, authorization string) (*http.Response, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	body := map[string]string{}
	if resp.StatusCode == fiber.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp, body
}

func TestJWTProtectedPopulatesIdentity(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "64f1c0ffee",
		"role":  "Mentor",
		"name":  "Grace",
		"email": "grace@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	resp, body := callMe(t, identityApp(middleware.JWTProtected(testSecret)), "Bearer "+token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "64f1c0ffee", body["id"])
	require.Equal(t, "mentor", body["role"])
	require.Equal(t, "Grace", body["name"])
	require.Equal(t, "grace@example.com", body["email"])
}

func TestJWTProtectedRejectsBadTokens(t *testing.T) {
	app := identityApp(middleware.JWTProtected(testSecret))

	resp, _ := callMe(t, app, "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = callMe(t, app, "Token abc")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	forged := signToken(t, "other-secret", jwt.MapClaims{"sub": "x"})
	resp, _ = callMe(t, app, "Bearer "+forged)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	expired := signToken(t, testSecret, jwt.MapClaims{"sub": "x", "exp": time.Now().Add(-time.Minute).Unix()})
	resp, _ = callMe(t, app, "Bearer "+expired)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTOptionalAllowsAnonymous(t *testing.T) {
	app := identityApp(middleware.JWTOptional(testSecret))

	resp, body := callMe(t, app, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Empty(t, body["id"])

	token := signToken(t, testSecret, jwt.MapClaims{"user_id": float64(42), "roles": []interface{}{"Student"}})
	resp, body = callMe(t, app, "Bearer "+token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "42", body["id"])
	require.Equal(t, "student", body["role"])

	resp, _ = callMe(t, app, "Bearer not-a-token")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
