package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому пользователю
	ErrAccessDenied = errors.New("reschedule_booking: access denied")

	// ErrNotReschedulable возвращается для завершённых и отменённых бронирований
	ErrNotReschedulable = errors.New("reschedule_booking: booking can no longer be rescheduled")

	// ErrInvalidDate возвращается при переносе в прошлое
	ErrInvalidDate = errors.New("reschedule_booking: new start is in the past")

	// ErrOutsideOperatingHours возвращается, когда новый интервал выходит за часы работы корта
	ErrOutsideOperatingHours = errors.New("reschedule_booking: interval is outside operating hours")

	// ErrSlotNotAvailable возвращается, когда новый интервал пересекается с другим бронированием
	ErrSlotNotAvailable = errors.New("reschedule_booking: slot already booked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
