package routes

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"jobmarket-server/storage"
	"jobmarket-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// unreachableDB returns a gorm handle whose connection target does not exist,
// so every query fails at use time. Opening is lazy and pinging is disabled,
// which keeps setup instant.
func unreachableDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, err := sql.Open("pgx", "host=127.0.0.1 port=1 user=none dbname=none sslmode=disable connect_timeout=1")
	if err != nil {
		t.Fatalf("opening dead connection: %v", err)
	}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("wrapping dead connection: %v", err)
	}
	return db
}

func buildStatusTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	app.Get("/api/user/verification/status", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, GetVerificationStatus)
	app.Build()
	return app
}

// A database outage while reading verification status must surface as a 500,
// never as a 200 claiming the user has no requests.
func TestGetVerificationStatusDatabaseFailure(t *testing.T) {
	previous := storage.DB
	storage.DB = unreachableDB(t)
	defer func() { storage.DB = previous }()

	app := buildStatusTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/user/verification/status", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken("user"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on database failure, got %d with body %s", resp.Code, resp.Body.String())
	}
}
