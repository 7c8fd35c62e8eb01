package models

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

const (
	// DefaultScheduleDays горизонт расписания по умолчанию
	DefaultScheduleDays = 7
	// MaxScheduleDays максимальный горизонт расписания
	MaxScheduleDays = 31
)

// GetScheduleRequest запрос расписания корта
type GetScheduleRequest struct {
	CourtID int64
	From    *time.Time // первая дата горизонта; по умолчанию сегодня (UTC)
	Days    int        // 0 - DefaultScheduleDays
}

// DaySchedule фактические часы работы на конкретную дату
type DaySchedule struct {
	Date           string                 `json:"date"`
	Weekday        string                 `json:"weekday"`
	Closed         bool                   `json:"closed"`
	Blackout       bool                   `json:"blackout,omitempty"`
	Override       bool                   `json:"override,omitempty"`
	OperatingHours *domain.OperatingHours `json:"operatingHours,omitempty"`
}

// ScheduleResponse конфигурация корта для интерфейса бронирования
type ScheduleResponse struct {
	CourtID                int64                            `json:"courtId"`
	VenueID                int64                            `json:"venueId"`
	Name                   string                           `json:"name"`
	Availability           domain.WeeklySchedule            `json:"availability"`
	AvailabilityOverrides  map[string]domain.OperatingHours `json:"availabilityOverrides"`
	BlackoutDates          []string                         `json:"blackoutDates"`
	BookingDurationMinutes int                              `json:"bookingDurationMinutes"`
	HourlyRate             string                           `json:"hourlyRate"`
	Upcoming               []DaySchedule                    `json:"upcoming"`
}

// FromDomainCourt конвертирует domain модель корта в DTO без горизонта
func FromDomainCourt(c *domain.Court) *ScheduleResponse {
	overrides := make(map[string]domain.OperatingHours, len(c.AvailabilityOverrides))
	for date, hours := range c.AvailabilityOverrides {
		overrides[date] = hours
	}

	blackout := append([]string{}, c.BlackoutDates...)
	sort.Strings(blackout)

	return &ScheduleResponse{
		CourtID:                c.ID,
		VenueID:                c.VenueID,
		Name:                   c.Name,
		Availability:           c.Availability,
		AvailabilityOverrides:  overrides,
		BlackoutDates:          blackout,
		BookingDurationMinutes: c.SlotDurationMinutes(),
		HourlyRate:             c.HourlyRate.StringFixed(domain.PriceDecimalPlaces),
		Upcoming:               []DaySchedule{},
	}
}

// ResolveDay фактические часы корта на дату
func ResolveDay(c *domain.Court, date time.Time) DaySchedule {
	_, override := c.AvailabilityOverrides[domain.DateKey(date)]
	hours := c.ResolveHours(date)

	return DaySchedule{
		Date:           domain.DateKey(date),
		Weekday:        date.Weekday().String(),
		Closed:         hours == nil,
		Blackout:       c.IsBlackout(date),
		Override:       override,
		OperatingHours: hours,
	}
}
