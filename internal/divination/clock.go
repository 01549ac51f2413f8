package divination

import "time"

// Clock provides the current time. The engine never calls time.Now directly.
type Clock interface {
	Now() time.Time
}

// RealClock returns the system time.
type RealClock struct{}

// Now returns time.Now().
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns T.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed time.
func (c FixedClock) Now() time.Time {
	return c.T
}
