package timetable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/iiw24/turma/core"
)

const (
	roomIndexKey = "timetable:rooms:index"
	dirType      = "directory"
)

var ErrCacheMiss = errors.New("cache miss")

type (
	// Entry is a file or directory of a listed remote folder.
	Entry struct {
		Name        string `json:"name"`
		ContentType string `json:"contentType"`
	}

	// Block is a top-level entry of the room tree. Classes lists its files when it is a directory.
	Block struct {
		Entry
		Classes []Entry `json:"classes,omitempty"`
	}

	Fetcher interface {
		// FetchText returns the body of url. A non-2xx response yields ErrNotFound.
		FetchText(ctx context.Context, url string) (string, error)

		// ListDirectory returns the entries of the repository folder at url,
		// or nil when the listing cannot be found in the page.
		ListDirectory(ctx context.Context, url string) ([]Entry, error)
	}

	// Cache stores opaque values. Get returns ErrCacheMiss for unknown keys.
	Cache interface {
		Get(key string) ([]byte, error)
		Set(key string, value []byte) error
		Delete(key string) error
	}
)

func (e Entry) IsDir() bool { return e.ContentType == dirType }

type Service struct {
	fetcher        Fetcher
	cache          Cache // optional
	logger         core.Logger
	classBaseURL   string
	roomTreeURL    string
	roomRawBaseURL string
}

// NewService creates a timetable Service. cache may be nil.
func NewService(fetcher Fetcher, cache Cache, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		fetcher:        fetcher,
		cache:          cache,
		logger:         logger,
		classBaseURL:   conf.Timetable.ClassBaseURL,
		roomTreeURL:    conf.Timetable.RoomTreeURL,
		roomRawBaseURL: conf.Timetable.RoomRawBaseURL,
	}
}

// ByClass fetches and parses the timetable of className.
func (svc *Service) ByClass(ctx context.Context, className string) (Document, error) {
	docURL, err := ClassURL(svc.classBaseURL, className)
	if err != nil {
		return Document{}, err
	}
	return svc.fetchDocument(ctx, docURL)
}

// ByRoom fetches and parses the timetable of roomName, looked up in the room tree.
func (svc *Service) ByRoom(ctx context.Context, roomName string) (Document, error) {
	docURL, err := svc.FindRoomURL(ctx, roomName)
	if err != nil {
		return Document{}, err
	}
	return svc.fetchDocument(ctx, docURL)
}

// FindRoomURL returns the raw URL of the first file named roomName.mdx found in the
// directories of the room tree, in listing order.
func (svc *Service) FindRoomURL(ctx context.Context, roomName string) (string, error) {
	name := core.CleanString(roomName, true /* lower */)
	if name == "" {
		return "", errors.Wrap(ErrNotFound, "empty room name")
	}
	fileName := name + docExt

	blocks, err := svc.fetcher.ListDirectory(ctx, svc.roomTreeURL)
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("listing room tree: %v", err), err)
		return "", errors.Wrap(ErrNotFound, "room tree unavailable")
	}

	for _, block := range blocks {
		if !block.IsDir() {
			continue
		}
		files, err := svc.fetcher.ListDirectory(ctx, svc.roomDirURL(block.Name))
		if err != nil {
			svc.logger.Warn(fmt.Sprintf("listing room block %s: %v", block.Name, err), err)
			continue
		}
		for _, file := range files {
			if file.Name == fileName {
				return joinURL(svc.roomRawBaseURL, block.Name, file.Name), nil
			}
		}
	}
	return "", errors.Wrapf(ErrNotFound, "room %q", name)
}

// RoomIndex lists the room tree blocks, each directory with its files.
// Blocks are listed in parallel and the result is cached when a Cache is set.
func (svc *Service) RoomIndex(ctx context.Context) ([]Block, error) {
	if blocks, ok := svc.cachedRoomIndex(); ok {
		return blocks, nil
	}

	entries, err := svc.fetcher.ListDirectory(ctx, svc.roomTreeURL)
	if err != nil {
		return nil, errors.Wrap(err, "listing room tree")
	}
	if entries == nil {
		return nil, errors.Wrap(ErrNotFound, "room tree listing")
	}

	blocks := make([]Block, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	for i, entry := range entries {
		blocks[i] = Block{Entry: entry}
		if !entry.IsDir() {
			continue
		}
		g.Go(func() error {
			files, err := svc.fetcher.ListDirectory(gctx, svc.roomDirURL(entry.Name))
			if err != nil {
				return errors.Wrapf(err, "listing room block %s", entry.Name)
			}
			blocks[i].Classes = files
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	svc.cacheRoomIndex(blocks)
	return blocks, nil
}

func (svc *Service) cachedRoomIndex() ([]Block, bool) {
	if svc.cache == nil {
		return nil, false
	}
	raw, err := svc.cache.Get(roomIndexKey)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			svc.logger.Warn(fmt.Sprintf("reading room index cache: %v", err), err)
		}
		return nil, false
	}

	var blocks []Block
	if err = json.Unmarshal(raw, &blocks); err != nil {
		svc.logger.Warn(fmt.Sprintf("dropping undecodable room index cache: %v", err), err)
		if err = svc.cache.Delete(roomIndexKey); err != nil {
			svc.logger.Warn(fmt.Sprintf("deleting room index cache: %v", err), err)
		}
		return nil, false
	}
	return blocks, true
}

func (svc *Service) cacheRoomIndex(blocks []Block) {
	if svc.cache == nil {
		return
	}
	raw, err := json.Marshal(blocks)
	if err == nil {
		err = svc.cache.Set(roomIndexKey, raw)
	}
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("writing room index cache: %v", err), err)
	}
}

func (svc *Service) roomDirURL(block string) string {
	return strings.TrimSuffix(svc.roomTreeURL, "/") + "/" + url.PathEscape(block)
}

func (svc *Service) fetchDocument(ctx context.Context, docURL string) (Document, error) {
	text, err := svc.fetcher.FetchText(ctx, docURL)
	if err != nil {
		if IsNotFound(err) {
			return Document{}, err
		}
		return Document{}, errors.Wrapf(err, "fetching %s", docURL)
	}

	doc, err := ParseDocument(text)
	if err != nil {
		return Document{}, errors.WithMessagef(err, "parsing %s", docURL)
	}
	return doc, nil
}
