package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
)

func TestClient_Resolve(t *testing.T) {
	userID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		switch r.Header.Get("Authorization") {
		case "Bearer good":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"` + userID.String() + `","email":"ann@example.com","role":"authenticated"}`))
		case "Bearer broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "anon-key", time.Second, logger.NewNop())

	id, err := c.Resolve(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, userID, id.UserID)
	assert.Equal(t, "ann@example.com", id.Email)

	_, err = c.Resolve(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = c.Resolve(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, "", 100*time.Millisecond, logger.NewNop())
	_, err := c.GetUser(context.Background(), "any")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerifier_Resolve(t *testing.T) {
	const secret = "test-secret"
	userID := uuid.New()
	v := NewVerifier(secret)

	valid := signToken(t, secret, jwt.SigningMethodHS256, claims{
		Email: "bob@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	id, err := v.Resolve(context.Background(), valid)
	require.NoError(t, err)
	assert.Equal(t, userID, id.UserID)
	assert.Equal(t, "bob@example.com", id.Email)

	tests := []struct {
		name  string
		token string
	}{
		{
			name: "expired",
			token: signToken(t, secret, jwt.SigningMethodHS256, jwt.RegisteredClaims{
				Subject:   userID.String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			}),
		},
		{
			name: "wrong secret",
			token: signToken(t, "other", jwt.SigningMethodHS256, jwt.RegisteredClaims{
				Subject:   userID.String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}),
		},
		{
			name: "wrong algorithm",
			token: signToken(t, secret, jwt.SigningMethodHS512, jwt.RegisteredClaims{
				Subject:   userID.String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}),
		},
		{
			name: "no expiry",
			token: signToken(t, secret, jwt.SigningMethodHS256, jwt.RegisteredClaims{
				Subject: userID.String(),
			}),
		},
		{
			name: "subject is not a uuid",
			token: signToken(t, secret, jwt.SigningMethodHS256, jwt.RegisteredClaims{
				Subject:   "42",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}),
		},
		{
			name:  "garbage",
			token: "not.a.jwt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := v.Resolve(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.True(t, id.IsAnonymous())
		})
	}
}
