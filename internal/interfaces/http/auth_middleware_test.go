package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dehaep/Project-SupzG/internal/domain"
	"github.com/dehaep/Project-SupzG/internal/domain/access"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	apphttp "github.com/dehaep/Project-SupzG/internal/interfaces/http"
	pkgjwt "github.com/dehaep/Project-SupzG/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testUsername  = "ana"
	testIssuer    = "supzg-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireAction para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(action access.Action) *fiber.App {
	return buildTestAppWithUsers(action, nil)
}

// buildTestAppWithUsers igual que buildTestApp pero verificando el usuario guardado.
func buildTestAppWithUsers(action access.Action, users apphttp.UserLookup) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireAction(action, users),
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
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
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
// Tests RequireAction
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireAction_ManagerApruebaTransacciones(t *testing.T) {
	app := buildTestApp(access.ApproveTransaction)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleManager))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"manager debe poder aprobar transacciones")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"], "la respuesta debe incluir ok:true")
	assert.Equal(t, entity.RoleManager, body["role"])
}

func TestRequireAction_StaffCreaTransacciones(t *testing.T) {
	app := buildTestApp(access.CreateTransaction)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleStaff))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"staff debe poder registrar transacciones pendientes")
}

func TestRequireAction_StaffNoApruebaTransacciones(t *testing.T) {
	app := buildTestApp(access.ApproveTransaction)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleStaff))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"staff no debe poder aprobar")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN",
		"la respuesta de error debe incluir el código FORBIDDEN")
}

func TestRequireAction_RolDesconocidoBloqueado(t *testing.T) {
	app := buildTestApp(access.ReadAll)
	resp := doRequest(t, app, tokenForRole(t, "vendedor"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireAction_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(access.ReadAll)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"token sin rol debe retornar 401")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

// usuariosFijos devuelve siempre el mismo usuario (nil = no existe).
type usuariosFijos struct {
	user *entity.User
	err  error
}

func (u usuariosFijos) GetByID(context.Context, string) (*entity.User, error) { return u.user, u.err }

func TestRequireAction_ManagerDegradadoPierdePermisos(t *testing.T) {
	users := usuariosFijos{user: &entity.User{ID: testUserID, Role: entity.RoleStaff, Status: entity.UserStatusActive}}
	app := buildTestAppWithUsers(access.ApproveTransaction, users)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleManager))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el rol guardado prevalece sobre el del token")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireAction_ManagerDegradadoOperaComoStaff(t *testing.T) {
	users := usuariosFijos{user: &entity.User{ID: testUserID, Role: entity.RoleStaff, Status: entity.UserStatusActive}}
	app := buildTestAppWithUsers(access.CreateTransaction, users)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleManager))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, entity.RoleStaff, body["role"], "el actor no conserva el rol manager")
}

func TestRequireAction_ManagerDesactivado(t *testing.T) {
	users := usuariosFijos{user: &entity.User{ID: testUserID, Role: entity.RoleManager, Status: entity.UserStatusInactive}}
	app := buildTestAppWithUsers(access.DeleteItem, users)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleManager))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "ACCOUNT_INACTIVE")
}

func TestRequireAction_UsuarioEliminado_Retorna401(t *testing.T) {
	app := buildTestAppWithUsers(access.DeleteItem, usuariosFijos{})
	resp := doRequest(t, app, tokenForRole(t, entity.RoleManager))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAction_StaffPromovidoApruebaSinNuevoToken(t *testing.T) {
	users := usuariosFijos{user: &entity.User{ID: testUserID, Role: entity.RoleManager, Status: entity.UserStatusActive}}
	app := buildTestAppWithUsers(access.ApproveTransaction, users)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleStaff))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireAction_StaffEnAccionComunNoConsulta(t *testing.T) {
	users := usuariosFijos{err: errors.New("no debería consultarse")}
	app := buildTestAppWithUsers(access.CreateItem, users)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleStaff))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireAction_BaseCaidaRetorna503(t *testing.T) {
	users := usuariosFijos{err: fmt.Errorf("users.get: %w", domain.ErrStoreUnavailable)}
	app := buildTestAppWithUsers(access.ApproveTransaction, users)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleManager))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(access.ReadAll)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(access.ReadAll)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatoSinBearer_Retorna401(t *testing.T) {
	app := buildTestApp(access.ReadAll)
	tok := tokenForRole(t, entity.RoleStaff)
	resp := doRequest(t, app, "Token "+tok[len("Bearer "):])
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	app := buildTestApp(access.ReadAll)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, entity.RoleManager, testIssuer, -1)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":  apphttp.GetUserID(c),
			"username": apphttp.GetUsername(c),
			"role":     apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleManager))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testUsername, body["username"])
	assert.Equal(t, entity.RoleManager, body["role"])
}

func TestAuthMiddleware_AceptaCookieToken(t *testing.T) {
	app := buildTestApp(access.ReadAll)
	tok := tokenForRole(t, entity.RoleStaff)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: apphttp.TokenCookie, Value: tok[len("Bearer "):]})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "el token en cookie debe ser aceptado")
}
