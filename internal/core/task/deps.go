package task

import (
	"time"

	"github.com/google/uuid"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// IDGenerator produces a new unique opaque id on each call.
type IDGenerator interface {
	NewID() string
}

// IDFunc adapts a function to IDGenerator.
type IDFunc func() string

func (f IDFunc) NewID() string { return f() }

// Notifier receives short confirmation messages. Implementations must not
// block and their failures are invisible to the store.
type Notifier interface {
	Infof(format string, args ...any)
}

type nopNotifier struct{}

func (nopNotifier) Infof(string, ...any) {}

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// UUIDGenerator issues random (version 4) UUIDs.
var UUIDGenerator IDGenerator = IDFunc(func() string {
	return uuid.NewString()
})
