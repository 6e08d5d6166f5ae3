package domain

// Field represents a physical area (paddock, daycare room) bookings run on
type Field struct {
	ID       int64
	Name     string
	Capacity *int // max pets simultaneously; nil = unconstrained
	IsActive bool
}

// IntersectFields возвращает true, если два набора площадок пересекаются
func IntersectFields(a, b []int64) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
