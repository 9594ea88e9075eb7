package agenda

import "time"

// ApplyRetention returns a copy of data without the items created more than maxAgeDays before now,
// along with the number of removed items. Class buckets are kept even when emptied.
// A maxAgeDays <= 0 disables retention.
func ApplyRetention(data Data, maxAgeDays int, now time.Time) (Data, int) {
	if maxAgeDays <= 0 {
		return data.Clone(), 0
	}
	threshold := now.Add(-time.Duration(maxAgeDays) * 24 * time.Hour)

	var removed int
	kept := make(Data, len(data))
	for classID, items := range data {
		bucket := make([]Item, 0, len(items))
		for _, item := range items {
			if item.CreatedAt.Before(threshold) {
				removed++
				continue
			}
			bucket = append(bucket, item)
		}
		kept[classID] = bucket
	}
	return kept, removed
}
