package commit_booking

import "errors"

var (
	// ErrInvalidRequest возвращается при некорректных входных данных.
	// Ошибки ниже, помеченные как InvalidRequest, оборачиваются вместе с ней.
	ErrInvalidRequest = errors.New("commit_booking: invalid request")

	// ErrChairInactive кресло выключено владельцем (InvalidRequest)
	ErrChairInactive = errors.New("commit_booking: chair is inactive")

	// ErrOutsideBusinessHours интервал не укладывается в часы работы салона (InvalidRequest)
	ErrOutsideBusinessHours = errors.New("commit_booking: outside business hours")

	// ErrSlotInPast слот уже начался или прошёл (InvalidRequest)
	ErrSlotInPast = errors.New("commit_booking: slot is in the past")

	// ErrIdempotencyKeyReused ключ идемпотентности уже использован для другой записи (InvalidRequest)
	ErrIdempotencyKeyReused = errors.New("commit_booking: idempotency key reused for a different booking")

	// ErrUnauthorized возвращается, когда салон требует зарегистрированного клиента
	ErrUnauthorized = errors.New("commit_booking: unauthorized")

	// ErrShopNotFound возвращается, когда салон не найден
	ErrShopNotFound = errors.New("commit_booking: shop not found")

	// ErrChairNotFound возвращается, когда кресло не найдено в салоне
	ErrChairNotFound = errors.New("commit_booking: chair not found")

	// ErrSlotConflict интервал пересекается с живой записью на это кресло
	ErrSlotConflict = errors.New("commit_booking: slot conflict")

	// ErrStorageUnavailable журнал записей недоступен, ничего не записано, можно повторить
	ErrStorageUnavailable = errors.New("commit_booking: storage unavailable")

	// ErrOutcomeUnknown истёк таймаут фиксации, запись могла как пройти, так и нет
	ErrOutcomeUnknown = errors.New("commit_booking: outcome unknown")
)
