package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Func adapts a plain function, typically a closure over a fixed instant.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}

// Fixed returns a clock frozen at t.
func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}
