package agenda

import (
	"sort"
	"time"
)

// Tags
const (
	TagActivity   Tag = "atividade"
	TagExam       Tag = "prova"
	TagAssignment Tag = "trabalho"
	TagEvent      Tag = "evento"
	TagOther      Tag = "outro"
)

var Tags = []Tag{TagActivity, TagExam, TagAssignment, TagEvent, TagOther}

type Tag string

// Item is one scheduled activity of a class.
type Item struct {
	ID          string    `json:"id"`
	ClassID     string    `json:"classId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Tag         Tag       `json:"tag"`
	CreatedAt   time.Time `json:"createdAt"` // UTC, immutable
}

// Data is the whole agenda document: classID -> items, in insertion order.
type Data map[string][]Item

// Clone returns a deep copy of data.
func (data Data) Clone() Data {
	cp := make(Data, len(data))
	for classID, items := range data {
		cp[classID] = append([]Item(nil), items...)
	}
	return cp
}

// Snapshot is a Data read from the document store along with the version it was read at.
type Snapshot struct {
	Data    Data
	Version string // empty when the document does not exist yet
}

// SortItems orders items by date then by creation time, both ascending.
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

// ItemInput contains the fields an admin can set when adding or editing an Item.
type ItemInput struct {
	Title       string `json:"title" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Tag         Tag    `json:"tag" validate:"required,oneof=atividade prova trabalho evento outro"`
}
