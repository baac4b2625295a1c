package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/tienda-pos/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/tienda-pos/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = int64(7)
	testIssuer    = "tienda-pos-test"
	testTTL       = time.Hour
	testExpMin    = int(testTTL / time.Minute)
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, nil),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	issued, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Subject{UserID: testUserID, Role: role}, testIssuer, testTTL)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + issued.Token
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_DirectorAccedeRutaDirector(t *testing.T) {
	app := buildTestApp("director")
	resp := doRequest(t, app, tokenForRole(t, "director"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "director", body["role"])
}

func TestRequireRole_CajeroAccedeRutaDeAmbosRoles(t *testing.T) {
	app := buildTestApp("director", "cashier")
	resp := doRequest(t, app, tokenForRole(t, "cashier"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_CajeroBloqueadoEnRutaDirector(t *testing.T) {
	app := buildTestApp("director")
	resp := doRequest(t, app, tokenForRole(t, "cashier"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp("director")
	issued, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Subject{UserID: testUserID}, testIssuer, testTTL)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+issued.Token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp("director")
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp("director")
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_FormatoSinBearer_Retorna401(t *testing.T) {
	app := buildTestApp("director")
	resp := doRequest(t, app, "Token abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: claims y revocación
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, nil), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":  apphttp.GetUserID(c),
			"role":     apphttp.GetRole(c),
			"token_id": apphttp.GetTokenID(c),
			"has_exp":  !apphttp.GetTokenExp(c).IsZero(),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, "director"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		UserID  int64  `json:"user_id"`
		Role    string `json:"role"`
		TokenID string `json:"token_id"`
		HasExp  bool   `json:"has_exp"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body.UserID)
	assert.Equal(t, "director", body.Role)
	assert.NotEmpty(t, body.TokenID)
	assert.True(t, body.HasExp)
}

type stubRevocations struct {
	revoked bool
	err     error
}

func (s stubRevocations) IsRevoked(context.Context, string) (bool, error) {
	return s.revoked, s.err
}

func TestAuthMiddleware_TokenRevocado(t *testing.T) {
	cases := []struct {
		name   string
		stub   stubRevocations
		status int
		code   string
	}{
		{"revocado", stubRevocations{revoked: true}, http.StatusUnauthorized, "TOKEN_REVOKED"},
		{"lista no disponible", stubRevocations{err: errors.New("redis caído")}, http.StatusServiceUnavailable, "AUTH_UNAVAILABLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/x", apphttp.AuthMiddleware(testJWTSecret, tc.stub), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header.Set("Authorization", tokenForRole(t, "cashier"))
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tc.code)
		})
	}
}

func TestJWT_TokenExpirado_Rechazado(t *testing.T) {
	issued, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Subject{UserID: testUserID, Role: "director"}, testIssuer, -time.Minute)
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp("director"), "Bearer "+issued.Token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
