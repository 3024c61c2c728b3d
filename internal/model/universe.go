package model

import "time"

// Universe is the active set of symbols under watch. Symbols keep
// their selection order; CapturedAt is shared by the whole set, so a
// universe is fresh or stale as a whole, never per symbol.
type Universe struct {
	Symbols    []string
	CapturedAt time.Time
}

func (u *Universe) IsEmpty() bool {
	return u == nil || len(u.Symbols) == 0
}

func (u *Universe) Size() int {
	if u == nil {
		return 0
	}
	return len(u.Symbols)
}

// Fresh reports whether the universe is still usable at now.
func (u *Universe) Fresh(now time.Time, ttl time.Duration) bool {
	if u == nil {
		return false
	}
	return now.Sub(u.CapturedAt) < ttl
}
