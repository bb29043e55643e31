package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oksasatya/savings-tracker/pkg/helpers"
)

func newAuthEngine(jwt *helpers.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", Auth(nil, jwt), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	r := newAuthEngine(jwt)
	token, _, err := jwt.GenerateAccessToken(helpers.Identity{UserID: "u1", Email: "u1@example.com"}, "sid")
	if err != nil {
		t.Fatal(err)
	}
	refresh, _, _ := jwt.GenerateRefreshToken(helpers.Identity{UserID: "u1"}, "sid")

	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
	}{
		{"missing token", func(*http.Request) {}, http.StatusUnauthorized},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer junk") }, http.StatusForbidden},
		{"refresh token as access", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+refresh) }, http.StatusForbidden},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic "+token) }, http.StatusUnauthorized},
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: token}) }, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			w := serve(r, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if tt.status == http.StatusOK && w.Body.String() != "u1" {
				t.Errorf("user id = %q", w.Body.String())
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := newAuthEngine(helpers.NewJWTManager("a", "r", time.Minute, time.Hour))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	if _, err := uuid.Parse(w.Header().Get(HeaderRequestID)); err != nil {
		t.Errorf("generated id %q is not a uuid", w.Header().Get(HeaderRequestID))
	}

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderRequestID, id)
	if got := serve(r, req).Header().Get(HeaderRequestID); got != id {
		t.Errorf("request id = %q, want caller's %q", got, id)
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	if got := serve(r, req).Header().Get(HeaderRequestID); got == "<script>" {
		t.Error("malformed request id echoed back")
	}
}

func TestRealIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, ipFromCtx(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := serve(r, req).Body.String(); got != "203.0.113.7" {
		t.Errorf("forwarded ip = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "198.51.100.2")
	req.Header.Set("X-Real-IP", "203.0.113.9")
	if got := serve(r, req).Body.String(); got != "198.51.100.2" {
		t.Errorf("cloudflare ip = %q", got)
	}
}
