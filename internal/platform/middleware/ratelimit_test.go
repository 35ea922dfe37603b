package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestTokenBucket_AllowsBurst(t *testing.T) {
	bucket := newTokenBucket(1, 5)

	for i := 0; i < 5; i++ {
		if !bucket.allow() {
			t.Fatalf("expected request %d within burst to be allowed", i)
		}
	}

	if bucket.allow() {
		t.Error("expected request beyond burst to be denied")
	}
}

func TestTokenBucket_RetryAfter(t *testing.T) {
	bucket := newTokenBucket(1, 1)
	bucket.allow()

	if ra := bucket.retryAfter(); ra < 1 {
		t.Errorf("expected retry-after of at least 1 second, got %d", ra)
	}
}

func TestRateLimit_Exceeded(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})
	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	var lastErr error
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		lastErr = handler(c)
	}

	if lastErr == nil {
		t.Fatal("expected rate limit error on third request")
	}
	httpErr, ok := lastErr.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", lastErr)
	}
	if httpErr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", httpErr.Code)
	}
}

func TestRateLimit_PerUserKeys(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})
	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	do := func(email string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user_email", email)
		return handler(c)
	}

	if err := do("a@hospital.org"); err != nil {
		t.Fatalf("unexpected error for first user: %v", err)
	}
	if err := do("a@hospital.org"); err == nil {
		t.Fatal("expected first user to be limited")
	}
	// A different user gets a fresh bucket.
	if err := do("b@hospital.org"); err != nil {
		t.Fatalf("unexpected error for second user: %v", err)
	}
}

func TestRateLimit_SetsHeaders(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 200})
	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "100" {
		t.Errorf("expected X-RateLimit-Limit 100, got %s", rec.Header().Get("X-RateLimit-Limit"))
	}
}
