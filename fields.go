package sieve

import "github.com/zoobzio/capitan"

// Field keys for sieve events.
var (
	// KeyState is the current state of a Feed or View.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyDebounce is the configured quiescence window.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyInput is the name of the Input that emitted the event.
	KeyInput = capitan.NewStringKey("input")

	// KeyValue is a settled input value rendered as text.
	KeyValue = capitan.NewStringKey("value")

	// KeyVersion is the version of a published snapshot.
	KeyVersion = capitan.NewIntKey("version")

	// KeySize is the number of records in a snapshot.
	KeySize = capitan.NewIntKey("size")

	// KeyMatched is the number of records that passed the filter.
	KeyMatched = capitan.NewIntKey("matched")

	// KeyRecordID is the ID of the record an event refers to.
	KeyRecordID = capitan.NewStringKey("record_id")

	// KeyDuration is how long an operation took.
	KeyDuration = capitan.NewDurationKey("duration")

	// KeyCount is a generic count, such as records pumped.
	KeyCount = capitan.NewIntKey("count")
)
