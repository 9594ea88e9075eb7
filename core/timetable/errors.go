package timetable

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned when no timetable exists for a class or a room.
	ErrNotFound = errors.New("timetable not found")
	// ErrParseFailure is returned when a fetched timetable cannot be extracted or parsed.
	ErrParseFailure = errors.New("timetable could not be parsed")
)

// IsNotFound reports whether err means "no timetable", for either reason above.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrParseFailure)
}
