package service

import "time"

// Clock is the time source used for every expiry decision in the engine.
// Injecting it keeps TTL and lockout behavior testable without sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }
