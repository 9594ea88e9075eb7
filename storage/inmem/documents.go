package inmemdb

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/iiw24/turma/core/agenda"
)

type (
	// DocumentStore is an agenda.DocumentStore kept in memory, versioned the way git versions blobs.
	DocumentStore struct {
		mutex   sync.RWMutex
		content []byte
		version string
		commits []string
	}
)

var _ agenda.DocumentStore = (*DocumentStore)(nil)

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

// Seed replaces the stored document without any version check.
func (s *DocumentStore) Seed(content []byte) string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.content = append([]byte(nil), content...)
	s.version = blobSHA(content)
	return s.version
}

func (s *DocumentStore) ReadDocument(ctx context.Context) ([]byte, string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.version == "" {
		return nil, "", agenda.ErrDocumentMissing
	}
	return append([]byte(nil), s.content...), s.version, nil
}

func (s *DocumentStore) ReadVersion(ctx context.Context) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.version == "" {
		return "", agenda.ErrDocumentMissing
	}
	return s.version, nil
}

func (s *DocumentStore) WriteDocument(ctx context.Context, content []byte, version, message string) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if version != s.version {
		return "", agenda.ErrVersionConflict
	}
	s.content = append([]byte(nil), content...)
	s.version = blobSHA(content)
	s.commits = append(s.commits, message)
	return s.version, nil
}

// Commits returns the messages of the accepted writes, oldest first.
func (s *DocumentStore) Commits() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]string(nil), s.commits...)
}

func blobSHA(content []byte) string {
	h := sha1.New()
	_, _ = fmt.Fprintf(h, "blob %d\x00", len(content))
	_, _ = h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
