package identity

import "errors"

var (
	// ErrInvalidToken возвращается, когда токен не прошёл проверку (просрочен, подделан, отозван)
	ErrInvalidToken = errors.New("identity client: invalid token")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("identity client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от провайдера
	ErrInvalidResponse = errors.New("identity client: invalid response")

	// ErrUnavailable возвращается, когда провайдер идентификации недоступен
	ErrUnavailable = errors.New("identity client: provider unavailable")
)
