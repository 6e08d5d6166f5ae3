package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxNotesLength = 500
	MaxPetsPerSlot = 50 // защита от аномальных запросов, не бизнес-лимит
)
