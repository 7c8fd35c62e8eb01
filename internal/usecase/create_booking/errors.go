package create_booking

import "errors"

var (
	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = errors.New("create_booking: court not found")

	// ErrUserNotFound возвращается, когда пользователь не найден в UserService
	ErrUserNotFound = errors.New("create_booking: user not found")

	// ErrUserBlocked возвращается, когда пользователю запрещено бронировать
	ErrUserBlocked = errors.New("create_booking: user is blocked")

	// ErrInvalidDate возвращается при попытке забронировать интервал в прошлом
	ErrInvalidDate = errors.New("create_booking: booking start is in the past")

	// ErrOutsideOperatingHours возвращается, когда интервал выходит за часы работы корта
	// (в том числе когда корт закрыт в эту дату)
	ErrOutsideOperatingHours = errors.New("create_booking: interval is outside operating hours")

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с активным бронированием
	ErrSlotNotAvailable = errors.New("create_booking: slot already booked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
