package agenda

import (
	"github.com/pkg/errors"
)

var (
	// domain errors
	ErrNotFound      = errors.New("agenda item not found")
	ErrClassNotFound = errors.New("class agenda not found")

	// document store errors
	ErrDocumentMissing = errors.New("agenda document does not exist")
	ErrVersionConflict = errors.New("agenda document changed since it was read")
)

// Kind classifies a RemoteError.
type Kind int

const (
	KindRemoteRead Kind = iota + 1
	KindRemoteWrite
)

func (k Kind) String() string {
	switch k {
	case KindRemoteRead:
		return "remote read error"
	case KindRemoteWrite:
		return "remote write error"
	default:
		return "remote error"
	}
}

// RemoteError reports a failed round trip to the document store.
// A version conflict is a KindRemoteWrite error wrapping ErrVersionConflict.
type RemoteError struct {
	Kind Kind
	Err  error
}

func newRemoteError(kind Kind, err error) error {
	return &RemoteError{Kind: kind, Err: err}
}

func (e *RemoteError) Error() string {
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func isKind(err error, kind Kind) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Kind == kind
}

func IsRemoteRead(err error) bool  { return isKind(err, KindRemoteRead) }
func IsRemoteWrite(err error) bool { return isKind(err, KindRemoteWrite) }

// IsConflict reports whether err is a write rejected because of a stale version.
// The caller may re-fetch, re-apply its change and try again.
func IsConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}
