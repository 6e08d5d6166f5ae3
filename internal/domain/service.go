package domain

import "time"

// Service represents a bookable service (daycare session, field hire, walk)
// Immutable reference data during a resolution pass.
type Service struct {
	ID                     int64
	Name                   string
	ServiceType            string
	DefaultPrice           *float64 // price per pet; nil = not set
	RequiresFieldSelection bool
	Timezone               string // IANA zone name, e.g. "Europe/London"
	IsActive               bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location resolves the service's configured time zone
// All day-boundary arithmetic uses this zone, never the machine-local one.
func (s *Service) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.Timezone)
}

// PricePerPet returns the service's default price, or 0 when unset
func (s *Service) PricePerPet() float64 {
	if s.DefaultPrice == nil {
		return 0
	}
	return *s.DefaultPrice
}
