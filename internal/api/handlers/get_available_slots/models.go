package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-CourtBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date           string                 `json:"date"`
	CourtID        int64                  `json:"courtId"`
	AvailableSlots []SlotResponse         `json:"availableSlots"`
	AllSlots       []SlotResponse         `json:"allSlots"`
	OperatingHours *domain.OperatingHours `json:"operatingHours"`
	PricePerHour   string                 `json:"pricePerHour"`
}

// SlotResponse модель временного слота
type SlotResponse struct {
	Time      string `json:"time"` // "HH:MM"
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
	Price     string `json:"price"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	return &AvailableSlotsResponse{
		Date:           domain.DateKey(resp.Date),
		CourtID:        resp.CourtID,
		AvailableSlots: fromSlots(resp.AvailableSlots),
		AllSlots:       fromSlots(resp.AllSlots),
		OperatingHours: resp.OperatingHours,
		PricePerHour:   resp.PricePerHour.StringFixed(domain.PriceDecimalPlaces),
	}
}

func fromSlots(slots []domain.Slot) []SlotResponse {
	out := make([]SlotResponse, len(slots))
	for i, slot := range slots {
		out[i] = SlotResponse{
			Time:      slot.Time,
			StartTime: slot.Start.UTC().Format(time.RFC3339),
			EndTime:   slot.End.UTC().Format(time.RFC3339),
			Available: slot.Available,
			Price:     slot.Price.StringFixed(domain.PriceDecimalPlaces),
		}
	}
	return out
}

// ToUseCaseRequest создает запрос use case из path и query параметров
func ToUseCaseRequest(courtID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		CourtID: courtID,
		Date:    date,
	}, nil
}
