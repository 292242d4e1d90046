package domain

import "strings"

type Status string

const (
	StatusPending   Status = "Pending"
	StatusPreparing Status = "Preparing"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

var Statuses = []Status{StatusPending, StatusPreparing, StatusDelivered, StatusCancelled}

// transitions lists every move an order may make from a given status.
// Terminal statuses have no entry.
var transitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusDelivered, StatusCancelled},
}

func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func (s Status) Valid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s Status) String() string { return string(s) }

// CanTransition reports whether an order in status from may be moved to to.
// Re-applying the current status is allowed and is a no-op.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Next returns the forward status in the normal flow, Pending -> Preparing ->
// Delivered.
func Next(s Status) (Status, bool) {
	switch s {
	case StatusPending:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusDelivered, true
	}
	return "", false
}

// Step is the position on the tracking progress bar. Cancelled orders sit at 0.
func Step(s Status) int {
	switch s {
	case StatusPending:
		return 1
	case StatusPreparing:
		return 2
	case StatusDelivered:
		return 3
	}
	return 0
}

const Steps = 3

func Progress(s Status) float64 {
	return float64(Step(s)) * 100 / Steps
}

func StatusList() string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
