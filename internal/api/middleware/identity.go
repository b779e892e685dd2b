package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/integrations/identity"
)

type ctxKey int

const (
	identityKey ctxKey = iota
	requestIDKey
)

const (
	msgInvalidToken        = "недействительный токен доступа"
	msgUnauthorized        = "требуется авторизация"
	msgIdentityUnavailable = "сервис авторизации недоступен"
)

// Identity кладёт в контекст вызывающего по заголовку Authorization: Bearer <token>.
// Без заголовка запрос идёт дальше как анонимный, с невалидным токеном отклоняется.
func Identity(resolver IdentityResolver, log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), domain.Anonymous())))
				return
			}

			id, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, identity.ErrInvalidToken) {
					log.Warn("%s %s - invalid token: %v", r.Method, r.URL.Path, err)
					handlers.RespondUnauthorized(w, msgInvalidToken)
					return
				}
				log.Error("%s %s - identity provider failed: %v", r.Method, r.URL.Path, err)
				handlers.RespondServiceUnavailable(w, msgIdentityUnavailable)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireUser пропускает только зарегистрированных пользователей
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetIdentity(r.Context()).IsAnonymous() {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity кладёт identity в контекст
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentity возвращает вызывающего из контекста, анонимного если его нет
func GetIdentity(ctx context.Context) domain.Identity {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	if !ok {
		return domain.Anonymous()
	}
	return id
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
