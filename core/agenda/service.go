package agenda

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/iiw24/turma/core"
)

var (
	nowFunc   = time.Now // mockable
	newIDFunc = uuid.NewString

	// errUnchanged makes a mutation skip the write.
	errUnchanged = errors.New("agenda unchanged")
)

// mutation changes data in place or returns a new Data to persist.
type mutation func(data Data) (Data, error)

type Service struct {
	store         DocumentStore
	logger        core.Logger
	retentionDays int
	maxAttempts   int
	backoff       time.Duration
}

func NewService(store DocumentStore, conf *core.Config, logger core.Logger) *Service {
	attempts := conf.Agenda.MaxWriteAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Service{
		store:         store,
		logger:        logger,
		retentionDays: conf.Agenda.RetentionDays,
		maxAttempts:   attempts,
		backoff:       200 * time.Millisecond,
	}
}

// Query returns the items of classID still within the retention period, sorted by date.
// Reading never writes: expired items are dropped from the result only (see Cleanup).
func (svc *Service) Query(ctx context.Context, classID string) ([]Item, error) {
	snap, err := svc.FetchDocument(ctx)
	if err != nil {
		return nil, err
	}
	data, _ := ApplyRetention(snap.Data, svc.retentionDays, nowFunc())

	items := append([]Item{}, data[classID]...)
	SortItems(items)
	return items, nil
}

func (svc *Service) Add(ctx context.Context, classID string, in ItemInput) (Item, error) {
	item := Item{
		ID:          newIDFunc(),
		ClassID:     classID,
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Tag:         in.Tag,
		CreatedAt:   nowFunc().UTC(),
	}
	msg := fmt.Sprintf("Add agenda item for %s: %s (%s)", classID, item.Title, item.Tag)

	err := svc.mutate(ctx, msg, func(data Data) (Data, error) {
		data[classID] = append(data[classID], item)
		return data, nil
	})
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

// Update replaces the editable fields of an Item. ID, ClassID and CreatedAt are kept.
func (svc *Service) Update(ctx context.Context, classID, id string, in ItemInput) (Item, error) {
	var updated Item
	msg := fmt.Sprintf("Update agenda item %s for %s", id, classID)

	err := svc.mutate(ctx, msg, func(data Data) (Data, error) {
		items, ok := data[classID]
		if !ok {
			return nil, ErrClassNotFound
		}
		for i := range items {
			if items[i].ID == id {
				items[i].Title = in.Title
				items[i].Description = in.Description
				items[i].Date = in.Date
				items[i].Tag = in.Tag
				updated = items[i]
				return data, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return Item{}, err
	}
	return updated, nil
}

func (svc *Service) Delete(ctx context.Context, classID, id string) error {
	msg := fmt.Sprintf("Delete agenda item %s from %s", id, classID)

	return svc.mutate(ctx, msg, func(data Data) (Data, error) {
		items, ok := data[classID]
		if !ok {
			return nil, ErrClassNotFound
		}
		kept := make([]Item, 0, len(items))
		for _, item := range items {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		if len(kept) == len(items) {
			return nil, ErrNotFound
		}
		data[classID] = kept
		return data, nil
	})
}

// Cleanup removes the items older than the retention period from the store
// and returns how many were removed. Nothing is written when nothing expired.
func (svc *Service) Cleanup(ctx context.Context) (int, error) {
	var removed int
	err := svc.mutate(ctx, "Remove expired agenda items", func(data Data) (Data, error) {
		var kept Data
		kept, removed = ApplyRetention(data, svc.retentionDays, nowFunc())
		if removed == 0 {
			return nil, errUnchanged
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// mutate runs fetch -> apply -> persist, starting over from a fresh read when the write
// loses a race with another writer, up to svc.maxAttempts times.
func (svc *Service) mutate(ctx context.Context, message string, apply mutation) error {
	for attempt := 1; ; attempt++ {
		snap, err := svc.FetchDocument(ctx)
		if err != nil {
			return err
		}

		data, err := apply(snap.Data)
		if err != nil {
			if errors.Is(err, errUnchanged) {
				return nil
			}
			return err
		}

		_, err = svc.PersistDocument(ctx, Snapshot{Data: data, Version: snap.Version}, message)
		if err == nil {
			return nil
		}
		if !IsConflict(err) || attempt >= svc.maxAttempts {
			return err
		}

		svc.logger.Warn(fmt.Sprintf("agenda write conflict (attempt %d/%d), retrying", attempt, svc.maxAttempts), err)
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "waiting to retry agenda write")
		case <-time.After(time.Duration(attempt) * svc.backoff):
		}
	}
}
