package create_booking

import (
	"fmt"

	"github.com/pawfield/PF-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
	}

	// Окно через полночь не поддерживается: конец строго позже начала в тот же день
	if !req.EndTime.IsAfter(req.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if len(req.PetIDs) == 0 {
		return fmt.Errorf("%w: at least one pet is required", ErrInvalidInput)
	}

	if len(req.PetIDs) > domain.MaxPetsPerSlot {
		return fmt.Errorf("%w: too many pets, max %d", ErrInvalidInput, domain.MaxPetsPerSlot)
	}

	if hasDuplicates(req.PetIDs) {
		return fmt.Errorf("%w: duplicate pet ids", ErrInvalidInput)
	}

	if hasDuplicates(req.FieldIDs) {
		return fmt.Errorf("%w: duplicate field ids", ErrInvalidInput)
	}

	if req.AssignedStaffID != nil && *req.AssignedStaffID <= 0 {
		return fmt.Errorf("%w: assignedStaffID must be positive", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// matchRule ищет активное правило, покрывающее запрошенное окно на запрошенную дату
//
// Правило подходит, если применимо к дате, его времена точно совпадают с запрошенным
// окном, и все запрошенные площадки входят в field_ids правила.
func matchRule(rules []*domain.ServiceAvailabilityRule, req *Request) *domain.ServiceAvailabilityRule {
	for _, rule := range rules {
		if !rule.IsActive || rule.Validate() != nil {
			continue
		}
		if !rule.AppliesTo(req.Date) {
			continue
		}
		if rule.StartTime != req.StartTime || rule.EndTime != req.EndTime {
			continue
		}
		if !fieldsSubset(req.FieldIDs, rule.FieldIDs) {
			continue
		}
		return rule
	}
	return nil
}

// fieldsSubset проверяет, что все requested входят в allowed
func fieldsSubset(requested, allowed []int64) bool {
	for _, id := range requested {
		found := false
		for _, allowedID := range allowed {
			if id == allowedID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// validatePetsOwned проверяет принадлежность всех питомцев клиенту
func validatePetsOwned(petIDs []int64, owned map[int64]struct{}) error {
	for _, petID := range petIDs {
		if _, ok := owned[petID]; !ok {
			return fmt.Errorf("%w: pet id=%d", ErrPetNotOwned, petID)
		}
	}
	return nil
}

func hasDuplicates(ids []int64) bool {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
