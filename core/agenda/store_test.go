package agenda

import (
	"context"
	"strconv"
	"sync"

	"github.com/pkg/errors"
)

// storeMock is a DocumentStore with sequential versions and failure hooks.
type storeMock struct {
	mu      sync.Mutex
	content []byte
	version int
	writes  []string

	readErr  error
	writeErr error
	// onPersist runs before each version check, e.g. to simulate a concurrent writer.
	onPersist func(s *storeMock)
}

func (s *storeMock) versionString() string {
	if s.version == 0 {
		return ""
	}
	return "v" + strconv.Itoa(s.version)
}

func (s *storeMock) ReadDocument(_ context.Context) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, "", s.readErr
	}
	if s.version == 0 {
		return nil, "", ErrDocumentMissing
	}
	return append([]byte(nil), s.content...), s.versionString(), nil
}

func (s *storeMock) ReadVersion(_ context.Context) (string, error) {
	if s.onPersist != nil {
		s.onPersist(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version == 0 {
		return "", ErrDocumentMissing
	}
	return s.versionString(), nil
}

func (s *storeMock) WriteDocument(_ context.Context, content []byte, version, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return "", s.writeErr
	}
	if version != s.versionString() {
		return "", errors.Wrap(ErrVersionConflict, "write")
	}
	s.put(content, message)
	return s.versionString(), nil
}

func (s *storeMock) put(content []byte, message string) {
	s.content = append([]byte(nil), content...)
	s.version++
	s.writes = append(s.writes, message)
}

// bump simulates another writer replacing the document.
func (s *storeMock) bump() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(s.content, "concurrent write")
}

func (s *storeMock) data() Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := Decode(s.content)
	if err != nil {
		panic(err)
	}
	return data
}
