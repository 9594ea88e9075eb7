package agenda

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyRetention(t *testing.T) {
	now := time.Date(2024, 10, 31, 12, 0, 0, 0, time.UTC)
	data := Data{
		"iiw24a": {
			{ID: "old", CreatedAt: now.Add(-31 * 24 * time.Hour)},
			{ID: "edge", CreatedAt: now.Add(-30 * 24 * time.Hour)},
			{ID: "new", CreatedAt: now.Add(-time.Hour)},
		},
		"iiw24b": {
			{ID: "older", CreatedAt: now.Add(-90 * 24 * time.Hour)},
		},
	}

	kept, removed := ApplyRetention(data, 30, now)
	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"edge", "new"}, ids(kept["iiw24a"]))
	assert.Contains(t, kept, "iiw24b", "emptied classes are kept")
	assert.Empty(t, kept["iiw24b"])
	assert.Len(t, data["iiw24a"], 3, "input is not modified")

	kept, removed = ApplyRetention(data, 0, now)
	assert.Equal(t, 0, removed, "retention disabled")
	assert.Equal(t, data, kept)
}

func TestApplyRetention_Properties(t *testing.T) {
	now := time.Date(2024, 10, 31, 12, 0, 0, 0, time.UTC)
	rnd := rand.New(rand.NewSource(42))

	for n := 0; n < 50; n++ {
		data := Data{}
		var total int
		for c := 0; c < 1+rnd.Intn(4); c++ {
			classID := fmt.Sprintf("class%d", c)
			for i := 0; i < rnd.Intn(10); i++ {
				age := time.Duration(rnd.Intn(60*24)) * time.Hour
				data[classID] = append(data[classID], Item{ID: fmt.Sprintf("%d-%d", c, i), CreatedAt: now.Add(-age)})
				total++
			}
		}
		maxAge := 1 + rnd.Intn(45)
		threshold := now.Add(-time.Duration(maxAge) * 24 * time.Hour)

		kept, removed := ApplyRetention(data, maxAge, now)
		var left int
		for classID, items := range kept {
			left += len(items)
			for _, item := range items {
				assert.False(t, item.CreatedAt.Before(threshold), "%s kept past retention", item.ID)
			}
			var want []string
			for _, item := range data[classID] {
				if !item.CreatedAt.Before(threshold) {
					want = append(want, item.ID)
				}
			}
			assert.Equal(t, want, ids(items), "order and survivors of %s", classID)
		}
		assert.Equal(t, total, left+removed)

		again, removedAgain := ApplyRetention(kept, maxAge, now)
		assert.Equal(t, 0, removedAgain, "idempotent")
		assert.Equal(t, kept, again)
	}
}

func ids(items []Item) []string {
	var out []string
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}
