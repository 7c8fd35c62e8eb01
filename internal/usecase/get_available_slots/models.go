package get_available_slots

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// Request модель запроса на получение слотов корта
type Request struct {
	CourtID int64     // ID корта
	Date    time.Time // Дата (время суток игнорируется)
}

// Response модель ответа со слотами
type Response struct {
	Date           time.Time
	CourtID        int64
	AllSlots       []domain.Slot          // вся сетка с флагом доступности
	AvailableSlots []domain.Slot          // только свободные слоты
	OperatingHours *domain.OperatingHours // nil, если корт закрыт
	PricePerHour   decimal.Decimal
}
