package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domainUser "loanorigin/internal/domain/user"
	"loanorigin/internal/usecase/auth"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// issuer shared by the tests; tokens are verified through the real parser.
var testIssuer = auth.NewTokenIssuer([]byte("mw-test-secret"), time.Hour)

func bearerFor(t *testing.T, u domainUser.User) string {
	t.Helper()
	token, err := testIssuer.Issue(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + token
}

type verifierFunc func(token string) (*auth.Claims, error)

func (f verifierFunc) Verify(token string) (*auth.Claims, error) { return f(token) }

func parserVerifier() TokenVerifier {
	return verifierFunc(func(token string) (*auth.Claims, error) { return testIssuer.Parse(token) })
}

// helper: new Echo with auth + idempotency and a simple route
func setupEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(Auth(parserVerifier()), Idempotency(rdb, ttl))
	e.POST("/loans", handler)
	e.GET("/loans", handler) // for non-mutating bypass test
	return e
}

func mkJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, rdb
}

func okCreatedHandler(c echo.Context) error {
	return c.JSON(http.StatusCreated, map[string]any{"ok": true})
}

func authHeaders(t *testing.T, key string) map[string]string {
	return map[string]string{
		echo.HeaderAuthorization: bearerFor(t, domainUser.User{UserID: strings.Repeat("b", 32), Role: domainUser.RoleCustomer}),
		"Idempotency-Key":        key,
	}
}

func Test_BypassOnGET_NoKeyRequired(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "get ok"})
	})

	hdr := map[string]string{
		echo.HeaderAuthorization: bearerFor(t, domainUser.User{UserID: strings.Repeat("b", 32)}),
	}
	rec := doReq(t, e, http.MethodGet, "/loans", nil, hdr)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func Test_KeyValidationFailures(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, okCreatedHandler)

	// missing Idempotency-Key
	hdr := map[string]string{
		echo.HeaderAuthorization: bearerFor(t, domainUser.User{UserID: strings.Repeat("b", 32)}),
	}
	rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 1}), hdr)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing key => want 400, got %d", rec.Code)
	}

	// malformed Idempotency-Key
	rec = doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 1}), authHeaders(t, "NOT-VALID"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid key => want 400, got %d", rec.Code)
	}
}

func Test_MissingToken(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, okCreatedHandler)

	rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 1}), map[string]string{
		"Idempotency-Key": strings.Repeat("a", 32),
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token => want 401, got %d", rec.Code)
	}
}

func Test_FirstCallRunsHandler_SecondReplays(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()

	calls := 0
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusCreated, map[string]any{"ok": true, "call": calls})
	})

	hdr := authHeaders(t, strings.Repeat("a", 32))
	body := map[string]int{"x": 1}

	rec1 := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, body), hdr)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first call => want 201, got %d", rec1.Code)
	}

	rec2 := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, body), hdr)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d", rec2.Code)
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replayed body differs:\n%s\n%s", rec1.Body.String(), rec2.Body.String())
	}
}

func Test_KeyReuseWithDifferentBody_Conflicts(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, okCreatedHandler)

	hdr := authHeaders(t, strings.Repeat("a", 32))
	if rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 1}), hdr); rec.Code != http.StatusCreated {
		t.Fatalf("first call => want 201, got %d", rec.Code)
	}
	rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 2}), hdr)
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body => want 409, got %d", rec.Code)
	}
}

func Test_KeysAreScopedPerUser(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()

	calls := 0
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusCreated, map[string]any{"ok": true})
	})

	key := strings.Repeat("a", 32)
	body := map[string]int{"x": 1}

	hdrA := map[string]string{
		echo.HeaderAuthorization: bearerFor(t, domainUser.User{UserID: strings.Repeat("b", 32)}),
		"Idempotency-Key":        key,
	}
	hdrB := map[string]string{
		echo.HeaderAuthorization: bearerFor(t, domainUser.User{UserID: strings.Repeat("c", 32)}),
		"Idempotency-Key":        key,
	}

	if rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, body), hdrA); rec.Code != http.StatusCreated {
		t.Fatalf("user A => want 201, got %d", rec.Code)
	}
	// Same key, different user: the handler must run again.
	if rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, body), hdrB); rec.Code != http.StatusCreated {
		t.Fatalf("user B => want 201, got %d", rec.Code)
	}
	if calls != 2 {
		t.Fatalf("handler ran %d times, want 2", calls)
	}
}

func Test_StoreUnavailable(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	mr.Close() // kill the store before the request

	e := setupEcho(rdb, 30*time.Second, okCreatedHandler)
	rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 1}), authHeaders(t, strings.Repeat("a", 32)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store down => want 503, got %d", rec.Code)
	}
}
