package timetable

import "strconv"

type (
	NormalizedClass struct {
		ID      string `json:"id"`
		DayName string `json:"dayName"`
		Class
	}

	// Normalized is a Document with its classes flattened into a single list.
	Normalized struct {
		Title     string            `json:"title"`
		Base      string            `json:"base,omitempty"`
		Classes   []NormalizedClass `json:"classes"`
		TimeSlots []TimeSlot        `json:"timeSlots"`
	}
)

// Normalize flattens the classes of every day, tagging each with its day name.
// Nothing is filtered out.
func Normalize(doc Document) Normalized {
	classes := make([]NormalizedClass, 0)
	for _, day := range doc.WeekClasses {
		for i, cls := range day.DayClasses {
			classes = append(classes, NormalizedClass{
				ID:      day.DayName + "-" + strconv.Itoa(i),
				DayName: day.DayName,
				Class:   cls,
			})
		}
	}
	return Normalized{
		Title:     doc.Title,
		Base:      doc.Base,
		Classes:   classes,
		TimeSlots: doc.Time,
	}
}
