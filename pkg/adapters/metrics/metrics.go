package metrics

import "time"

// Recorder is the metrics port used by the application layer. The
// prometheus subpackage provides the production implementation.
type Recorder interface {
	RecordRequest(method, path string, status int, duration time.Duration)
	IncAuthFailure(reason string)
	IncLogins()
	IncEntityWrite(entity, op string)
	IncEventPublished(eventType string)
	SetEntityCounts(users, songs, favorites int64)
}

// Nop is a Recorder that discards all measurements. Used in tests.
type Nop struct{}

func (Nop) RecordRequest(method, path string, status int, duration time.Duration) {}
func (Nop) IncAuthFailure(reason string)                                          {}
func (Nop) IncLogins()                                                            {}
func (Nop) IncEntityWrite(entity, op string)                                      {}
func (Nop) IncEventPublished(eventType string)                                    {}
func (Nop) SetEntityCounts(users, songs, favorites int64)                         {}
