package stepper

import "errors"

var (
	// ErrIndexOutOfBounds is returned when a selection outside the step
	// collection is requested after the steps are known. It signals a
	// programming error; navigation blocked by policy never returns an error.
	ErrIndexOutOfBounds = errors.New("stepper: cannot assign out-of-bounds value to selected index")

	// ErrForeignStep is returned when a step owned by another stepper is
	// inserted.
	ErrForeignStep = errors.New("stepper: step belongs to a different stepper")

	// ErrDuplicateStep is returned when a step already in the collection is
	// inserted again.
	ErrDuplicateStep = errors.New("stepper: step is already part of the collection")

	// ErrUnknownStep is returned when a step that is not in the collection is
	// moved.
	ErrUnknownStep = errors.New("stepper: step is not part of the collection")
)
