package get_available_slots

import (
	"time"

	"github.com/pawfield/PF-BookingService/internal/domain"
	resolveAvailability "github.com/pawfield/PF-BookingService/internal/usecase/resolve_availability"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ServiceID int64           `json:"serviceId"`
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	Slots     []AvailableSlot `json:"slots"`
}

// AvailableSlot модель доступного слота
type AvailableSlot struct {
	StartAt                        time.Time `json:"startAt"`
	EndAt                          time.Time `json:"endAt"`
	RemainingCapacity              *int      `json:"remainingCapacity"` // null = без ограничения
	PricePerPet                    float64   `json:"pricePerPet"`
	CapacityMode                   string    `json:"capacityMode"`
	ZeroCapacityReason             string    `json:"zeroCapacityReason,omitempty"`
	OtherStaffPotentiallyAvailable bool      `json:"otherStaffPotentiallyAvailable"`
	FieldIDs                       []int64   `json:"fieldIds,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *resolveAvailability.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartAt:                        slot.StartAt,
			EndAt:                          slot.EndAt,
			RemainingCapacity:              slot.RemainingCapacity,
			PricePerPet:                    slot.PricePerPet,
			CapacityMode:                   slot.CapacityMode,
			ZeroCapacityReason:             slot.ZeroCapacityReason,
			OtherStaffPotentiallyAvailable: slot.OtherStaffPotentiallyAvailable,
			FieldIDs:                       slot.FieldIDs,
		}
	}

	return &AvailableSlotsResponse{
		ServiceID: resp.ServiceID,
		StartDate: resp.StartDate,
		EndDate:   resp.EndDate,
		Slots:     slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(serviceID int64, startDateStr, endDateStr string, clientID *int64) (*resolveAvailability.Request, error) {
	startDate, err := time.Parse(domain.DateFormat, startDateStr)
	if err != nil {
		return nil, err
	}

	endDate, err := time.Parse(domain.DateFormat, endDateStr)
	if err != nil {
		return nil, err
	}

	return &resolveAvailability.Request{
		ServiceID: serviceID,
		StartDate: startDate,
		EndDate:   endDate,
		ClientID:  clientID,
	}, nil
}
