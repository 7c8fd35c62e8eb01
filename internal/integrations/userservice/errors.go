package userservice

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден в UserService
	ErrUserNotFound = errors.New("user not found")

	// ErrUserBlocked возвращается, когда пользователю запрещено бронировать
	ErrUserBlocked = errors.New("user is blocked")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что UserService недоступен и бронирование продолжается без проверки пользователя
	ErrServiceDegraded = errors.New("userservice unavailable: graceful degradation applied")
)
