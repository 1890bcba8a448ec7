package clock

import "time"

// Clock supplies the current time. Stores and usecases compare token expiry
// against it, so it is injected rather than read from time.Now directly.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// New returns a Clock backed by the system wall clock.
func New() Clock {
	return systemClock{}
}
