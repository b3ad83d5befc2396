package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/minilinkedin/social-network/internal/core/domain"
)

type stubVerifier struct {
	tokens map[string]string
	err    error
	seen   []string
}

func (s *stubVerifier) Verify(token string) (string, error) {
	s.seen = append(s.seen, token)
	if token == "" {
		return "", domain.ErrMissingToken
	}
	if s.err != nil {
		return "", s.err
	}
	id, ok := s.tokens[token]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	return id, nil
}

func newContext(setHeaders func(h http.Header)) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if setHeaders != nil {
		setHeaders(req.Header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	verifier := &stubVerifier{tokens: map[string]string{"tok-alice": "alice-id"}}
	c, rec := newContext(func(h http.Header) { h.Set(TokenHeader, "tok-alice") })

	called := false
	handler := Auth(verifier)(func(c echo.Context) error {
		called = true
		if UserID(c) != "alice-id" {
			t.Fatalf("user id not set, got %q", UserID(c))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_BearerFallback(t *testing.T) {
	verifier := &stubVerifier{tokens: map[string]string{"tok-bob": "bob-id"}}
	c, _ := newContext(func(h http.Header) { h.Set("Authorization", "Bearer tok-bob") })

	handler := Auth(verifier)(func(c echo.Context) error {
		if UserID(c) != "bob-id" {
			t.Fatalf("user id not set, got %q", UserID(c))
		}
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthMiddleware_TokenHeaderWinsOverBearer(t *testing.T) {
	verifier := &stubVerifier{tokens: map[string]string{"tok-alice": "alice-id", "tok-bob": "bob-id"}}
	c, _ := newContext(func(h http.Header) {
		h.Set(TokenHeader, "tok-alice")
		h.Set("Authorization", "Bearer tok-bob")
	})

	handler := Auth(verifier)(func(c echo.Context) error {
		if UserID(c) != "alice-id" {
			t.Fatalf("expected X-Auth-Token to be used, got %q", UserID(c))
		}
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	verifier := &stubVerifier{}
	c, _ := newContext(nil)

	handler := Auth(verifier)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	verifier := &stubVerifier{tokens: map[string]string{"abc": "someone"}}
	c, _ := newContext(func(h http.Header) { h.Set("Authorization", "Token abc") })

	handler := Auth(verifier)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if len(verifier.seen) != 1 || verifier.seen[0] != "" {
		t.Fatalf("non-bearer scheme should not be passed to verifier, saw %v", verifier.seen)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	verifier := &stubVerifier{err: domain.ErrExpiredToken}
	c, _ := newContext(func(h http.Header) { h.Set(TokenHeader, "old") })

	handler := Auth(verifier)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestAuthMiddleware_UnexpectedVerifierErrorIsInvalidToken(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("boom")}
	c, _ := newContext(func(h http.Header) { h.Set(TokenHeader, "x") })

	handler := Auth(verifier)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
