package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

const testSigningKey = "test-signing-key"

func signTestToken(t *testing.T, userID string, key string) string {
	t.Helper()

	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = userID
	claims["exp"] = time.Now().Add(time.Hour).Unix()

	signed, err := token.SignedString([]byte(key))
	if err != nil {
		t.Fatalf("error signing test token: %v", err)
	}
	return signed
}

func authTestHandler(t *testing.T, gotUserID *string) http.Handler {
	next := func(w http.ResponseWriter, r *http.Request) {
		*gotUserID = r.Context().Value("user_id").(string)
		w.WriteHeader(http.StatusOK)
	}
	return WithLogging(WithAuth(testSigningKey)(next))
}

func TestWithAuth(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		var gotUserID string
		req := httptest.NewRequest(http.MethodGet, "/document", nil)
		rr := httptest.NewRecorder()

		authTestHandler(t, &gotUserID).ServeHTTP(rr, req)

		if rr.Result().StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 got %d", rr.Result().StatusCode)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		var gotUserID string
		req := httptest.NewRequest(http.MethodGet, "/document", nil)
		req.Header.Set("Authorization", "not-a-bearer-token")
		rr := httptest.NewRecorder()

		authTestHandler(t, &gotUserID).ServeHTTP(rr, req)

		if rr.Result().StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 got %d", rr.Result().StatusCode)
		}
	})

	t.Run("wrong signing key", func(t *testing.T) {
		var gotUserID string
		req := httptest.NewRequest(http.MethodGet, "/document", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "some-user", "other-key"))
		rr := httptest.NewRecorder()

		authTestHandler(t, &gotUserID).ServeHTTP(rr, req)

		if rr.Result().StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 got %d", rr.Result().StatusCode)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		var gotUserID string
		req := httptest.NewRequest(http.MethodGet, "/document", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "user-123", testSigningKey))
		rr := httptest.NewRecorder()

		authTestHandler(t, &gotUserID).ServeHTTP(rr, req)

		if rr.Result().StatusCode != http.StatusOK {
			t.Errorf("expected 200 got %d", rr.Result().StatusCode)
		}
		if gotUserID != "user-123" {
			t.Errorf("expected user_id to be injected, got %q", gotUserID)
		}
	})
}
