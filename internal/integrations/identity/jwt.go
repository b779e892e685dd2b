package identity

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// claims access-токена провайдера: sub - id пользователя
type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier проверяет access-токены локально по общему HS256 секрету
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier создает проверку токенов по секрету провайдера
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Resolve проверяет подпись и срок действия токена и возвращает identity из sub
func (v *Verifier) Resolve(_ context.Context, token string) (domain.Identity, error) {
	var c claims
	parsed, err := v.parser.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Anonymous(), fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return domain.Anonymous(), fmt.Errorf("%w: sub %q is not a uuid", ErrInvalidToken, c.Subject)
	}

	return domain.Identity{UserID: id, Email: c.Email}, nil
}
