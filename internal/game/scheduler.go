package game

import "time"

// Task is a pending scheduled callback.
type Task interface {
	// Stop prevents the callback from running. It returns false if the callback already ran or was stopped.
	Stop() bool
}

// Scheduler runs a callback after a delay.
type Scheduler interface {
	AfterFunc(delay time.Duration, f func()) Task
}

// TimerScheduler schedules callbacks with time.AfterFunc.
type TimerScheduler struct{}

// AfterFunc calls f in its own goroutine after the delay.
func (TimerScheduler) AfterFunc(delay time.Duration, f func()) Task {
	return time.AfterFunc(delay, f)
}
