package catalog

import "errors"

// ErrNoSchedulableSlots is the fatal error raised when an instance has no
// class-type block or no day at all: there is nowhere for the Mask
// Precomputer to build a slot grid.
var ErrNoSchedulableSlots = errors.New("catalog: no schedulable (day, class-block) slots in this instance")

// ErrUnknownReference is wrapped with context whenever a relation points at
// an id that was never declared (a course's fixed room, a qualification's
// teacher or subject, an availability range's teacher, a curriculum's
// subject).
var ErrUnknownReference = errors.New("catalog: reference to an undeclared entity")

// ErrDuplicateID is wrapped with context when two entities of the same kind
// declare the same id.
var ErrDuplicateID = errors.New("catalog: duplicate entity id")
