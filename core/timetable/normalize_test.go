package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(sampleDocument)
	require.NoError(t, err)

	assert.Equal(t, "IIW 2024 - A", doc.Title)
	assert.Equal(t, "iiw", doc.Base)
	assert.Equal(t, []TimeSlot{{Time: "13:30", Size: 1}, {Time: "14:20", Size: 1}}, doc.Time)
	require.Len(t, doc.WeekClasses, 3)

	monday := doc.WeekClasses[0]
	assert.Equal(t, "Segunda", monday.DayName)
	require.Len(t, monday.DayClasses, 2)
	assert.Equal(t, Class{
		Subject:   "Programação {Web}",
		Size:      2,
		Teachers:  []string{"Ana"},
		Classroom: "B1-12",
		Students:  []string{"IIW2024A"},
		Time:      "13:30",
		Color:     "#fff",
	}, monday.DayClasses[0])
	assert.Equal(t, []string{"Rui"}, monday.DayClasses[1].Teachers, "a single teacher is lifted into a list")
	assert.Equal(t, float64(1), monday.DayClasses[1].Group)
}

func TestDecodeDocument_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
	}{
		{name: "not an object", value: []interface{}{}},
		{name: "no weekClasses", value: map[string]interface{}{"title": "x"}},
		{name: "bad weekClasses", value: map[string]interface{}{"weekClasses": "monday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDocument(tt.value)
			assert.ErrorIs(t, err, ErrParseFailure)
		})
	}
}

func TestNormalize(t *testing.T) {
	doc, err := ParseDocument(sampleDocument)
	require.NoError(t, err)

	norm := Normalize(doc)
	assert.Equal(t, doc.Title, norm.Title)
	assert.Equal(t, doc.Time, norm.TimeSlots)

	var total int
	for _, day := range doc.WeekClasses {
		total += len(day.DayClasses)
	}
	require.Len(t, norm.Classes, total)

	ids := make([]string, 0, len(norm.Classes))
	for _, cls := range norm.Classes {
		ids = append(ids, cls.ID)
	}
	assert.Equal(t, []string{"Segunda-0", "Segunda-1", "Quarta-0"}, ids)
	assert.Equal(t, "Quarta", norm.Classes[2].DayName)
	assert.Equal(t, "Redes", norm.Classes[2].Subject)
	assert.Equal(t, "Lab 3", norm.Classes[2].Classroom)
}

func TestNormalize_Empty(t *testing.T) {
	norm := Normalize(Document{Title: "x"})
	assert.NotNil(t, norm.Classes)
	assert.Empty(t, norm.Classes)
}
