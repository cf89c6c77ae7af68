// README: Tests for bearer auth, recovery, and rate limiting middleware.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// stubVerifier is a test double for TokenVerifier.
type stubVerifier struct {
	uid string
	err error
	raw string
}

func (s *stubVerifier) VerifyToken(_ context.Context, raw string) (string, error) {
	s.raw = raw
	return s.uid, s.err
}

func newTestRouter(verifier TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(verifier))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": CallerUID(c)})
	})
	return r
}

func serve(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_Rejects(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		verifier *stubVerifier
	}{
		{"missing header", "", &stubVerifier{uid: "user1"}},
		{"wrong scheme", "Token sometoken", &stubVerifier{uid: "user1"}},
		{"empty token", "Bearer   ", &stubVerifier{uid: "user1"}},
		{"verifier error", "Bearer invalidtoken", &stubVerifier{err: errors.New("bad token")}},
		{"empty subject", "Bearer validtoken", &stubVerifier{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := serve(newTestRouter(tc.verifier), tc.header); w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestAuth_ValidToken_UIDPopulated(t *testing.T) {
	v := &stubVerifier{uid: "user_123"}
	w := serve(newTestRouter(v), "Bearer validtoken")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if v.raw != "validtoken" {
		t.Errorf("verifier got %q", v.raw)
	}
	if !strings.Contains(w.Body.String(), "user_123") {
		t.Errorf("expected uid user_123 in body, got %s", w.Body.String())
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/test", func(*gin.Context) { panic("boom") })

	if w := serve(r, ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(2)
	clock := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	r := gin.New()
	r.Use(Auth(&stubVerifier{uid: "user_1"}), rl.Limit())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := serve(r, "Bearer t"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
	if w := serve(r, "Bearer t"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}

	clock = clock.Add(30 * time.Second)
	if w := serve(r, "Bearer t"); w.Code != http.StatusOK {
		t.Fatalf("expected a token after refill, got %d", w.Code)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(0)
	for i := 0; i < 100; i++ {
		if !rl.allow("ip") {
			t.Fatalf("request %d limited with limiting disabled", i)
		}
	}
}
