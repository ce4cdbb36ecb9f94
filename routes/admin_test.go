package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"jobmarket-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildAdminTestApp wires the real admin middleware in front of a stub handler
// so the RBAC checks are exercised without a database.
func buildAdminTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/ping", func(ctx iris.Context) {
			ctx.JSON(iris.Map{"userID": ctx.Values().Get("userID")})
		})
		admin.Patch("/role", utils.SuperAdminOnlyMiddleware, func(ctx iris.Context) {
			ctx.JSON(iris.Map{"ok": true})
		})
	}

	app.Build()
	return app
}

// signTestToken returns a signed JWT with the given role
func signTestToken(role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: 1, Role: role})
	return string(token)
}

func adminRequest(app *iris.Application, method, path, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+signTestToken(role))
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestAdminRBAC(t *testing.T) {
	app := buildAdminTestApp()

	// No token -> rejected by the verifier
	if resp := adminRequest(app, http.MethodGet, "/api/admin/ping", ""); resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// User role -> 403
	if resp := adminRequest(app, http.MethodGet, "/api/admin/ping", "user"); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", resp.Code)
	}

	// Employer role -> 403
	if resp := adminRequest(app, http.MethodGet, "/api/admin/ping", "employer"); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employer role, got %d", resp.Code)
	}

	// Admin role -> 200
	if resp := adminRequest(app, http.MethodGet, "/api/admin/ping", "admin"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d", resp.Code)
	}

	// Super admin role -> 200
	if resp := adminRequest(app, http.MethodGet, "/api/admin/ping", "super_admin"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for super_admin role, got %d", resp.Code)
	}
}

func TestSuperAdminOnlyRoutes(t *testing.T) {
	app := buildAdminTestApp()

	// Admin may see the party but not the super_admin route
	if resp := adminRequest(app, http.MethodPatch, "/api/admin/role", "admin"); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin on super_admin route, got %d", resp.Code)
	}

	if resp := adminRequest(app, http.MethodPatch, "/api/admin/role", "super_admin"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for super_admin, got %d", resp.Code)
	}
}
