package rooms

import "strings"

// ListFilter describes the browse-surface filters. Zero values impose no
// restriction; predicates combine conjunctively.
type ListFilter struct {
	Location         string
	MinRent          int64
	MaxRent          int64
	PropertyType     string
	TenantPreference string
}

// Normalized returns a sanitized copy. Rent bounds apply only when positive
// and stay independent of each other, so a contradictory range simply
// matches nothing.
func (f ListFilter) Normalized() ListFilter {
	f.Location = strings.TrimSpace(f.Location)
	f.PropertyType = strings.TrimSpace(f.PropertyType)
	f.TenantPreference = strings.TrimSpace(f.TenantPreference)
	if f.MinRent < 0 {
		f.MinRent = 0
	}
	if f.MaxRent < 0 {
		f.MaxRent = 0
	}
	return f
}

// Matches reports whether the room satisfies every provided predicate.
func (f ListFilter) Matches(room *Room) bool {
	if room == nil {
		return false
	}
	f = f.Normalized()
	if f.Location != "" && !strings.Contains(strings.ToLower(room.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.MinRent > 0 && room.Rent < f.MinRent {
		return false
	}
	if f.MaxRent > 0 && room.Rent > f.MaxRent {
		return false
	}
	if f.PropertyType != "" && string(room.PropertyType) != f.PropertyType {
		return false
	}
	if f.TenantPreference != "" && string(room.TenantPreference) != f.TenantPreference {
		return false
	}
	return true
}
