package schedule

import "errors"

var (
	// ErrShopNotFound возвращается, когда салон не найден
	ErrShopNotFound = errors.New("schedule.service: shop not found")

	// ErrInvalidRange возвращается при пустом, перевёрнутом или слишком широком окне
	ErrInvalidRange = errors.New("schedule.service: invalid range")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule.service: internal error")
)
