package agenda

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// DocumentStore is a remote blob holding the serialized agenda.
// Writes are guarded by the content version (SHA) of the blob being replaced.
type DocumentStore interface {
	// ReadDocument returns the document content and its version, or ErrDocumentMissing.
	ReadDocument(ctx context.Context) (content []byte, version string, err error)
	// ReadVersion returns the current version of the document, or ErrDocumentMissing.
	ReadVersion(ctx context.Context) (string, error)
	// WriteDocument replaces the document at version (empty: create) and returns the new version.
	// It returns ErrVersionConflict when version is stale.
	WriteDocument(ctx context.Context, content []byte, version, message string) (string, error)
}

// Encode serializes data the way it is stored: indented JSON with sorted class keys.
func Encode(data Data) ([]byte, error) {
	if data == nil {
		data = Data{}
	}
	return json.MarshalIndent(data, "", "  ")
}

// Decode parses a stored agenda document. Blank content is an empty document.
func Decode(content []byte) (Data, error) {
	data := Data{}
	if len(bytes.TrimSpace(content)) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, errors.Wrap(err, "decoding agenda document")
	}
	if data == nil { // "null"
		data = Data{}
	}
	return data, nil
}

// FetchDocument reads the whole agenda. A missing document is an empty agenda.
func (svc *Service) FetchDocument(ctx context.Context) (Snapshot, error) {
	content, version, err := svc.store.ReadDocument(ctx)
	if err != nil {
		if errors.Is(err, ErrDocumentMissing) {
			return Snapshot{Data: Data{}}, nil
		}
		return Snapshot{}, newRemoteError(KindRemoteRead, errors.Wrap(err, "reading agenda document"))
	}

	data, err := Decode(content)
	if err != nil {
		return Snapshot{}, newRemoteError(KindRemoteRead, err)
	}
	return Snapshot{Data: data, Version: version}, nil
}

// PersistDocument writes snap.Data back over the version it was fetched at.
// The current version is read first; a write is never attempted over a newer document.
// Conflicts are returned as is (see IsConflict) and never retried here.
func (svc *Service) PersistDocument(ctx context.Context, snap Snapshot, message string) (Snapshot, error) {
	current, err := svc.store.ReadVersion(ctx)
	if err != nil && !errors.Is(err, ErrDocumentMissing) {
		return Snapshot{}, newRemoteError(KindRemoteWrite, errors.Wrap(err, "reading agenda document version"))
	}
	if current != snap.Version {
		return Snapshot{}, newRemoteError(KindRemoteWrite, errors.WithMessagef(ErrVersionConflict, "have %q, store has %q", snap.Version, current))
	}

	content, err := Encode(snap.Data)
	if err != nil {
		return Snapshot{}, newRemoteError(KindRemoteWrite, errors.Wrap(err, "encoding agenda document"))
	}

	version, err := svc.store.WriteDocument(ctx, content, snap.Version, message)
	if err != nil {
		return Snapshot{}, newRemoteError(KindRemoteWrite, errors.Wrap(err, "writing agenda document"))
	}
	return Snapshot{Data: snap.Data, Version: version}, nil
}
