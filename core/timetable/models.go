package timetable

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

type (
	TimeSlot struct {
		Time string  `json:"time"`
		Size float64 `json:"size"`
	}

	// Class is one lesson of a day.
	Class struct {
		Subject   string      `json:"subject"`
		Size      float64     `json:"size"` // number of consecutive time slots
		Teachers  []string    `json:"teachers"`
		Classroom string      `json:"classroom"`
		Students  []string    `json:"students"`
		Time      string      `json:"time"`
		Color     string      `json:"color,omitempty"`
		Group     interface{} `json:"group,omitempty"` // sub-group marker, when the class is split
	}

	WeekClass struct {
		DayName    string  `json:"dayName"`
		DayClasses []Class `json:"dayClasses"`
	}

	// Document is the timetable published for a class or a room.
	Document struct {
		Title       string      `json:"title"`
		Base        string      `json:"base,omitempty"`
		Time        []TimeSlot  `json:"time"`
		WeekClasses []WeekClass `json:"weekClasses"`
	}
)

// DecodeDocument converts a parsed literal into a Document.
func DecodeDocument(value interface{}) (Document, error) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return Document{}, errors.Wrapf(ErrParseFailure, "expected an object, got %T", value)
	}
	if _, ok = obj["weekClasses"]; !ok {
		return Document{}, errors.Wrap(ErrParseFailure, "weekClasses missing")
	}

	var doc Document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &doc,
	})
	if err != nil {
		return Document{}, errors.Wrap(err, "creating document decoder")
	}
	if err = dec.Decode(obj); err != nil {
		return Document{}, errors.Wrap(ErrParseFailure, err.Error())
	}
	return doc, nil
}

// ParseDocument extracts and decodes the timetable embedded in a markup document.
func ParseDocument(text string) (Document, error) {
	literal, err := ExtractLiteral(text)
	if err != nil {
		return Document{}, err
	}
	value, err := ParseLiteral(literal)
	if err != nil {
		return Document{}, err
	}
	return DecodeDocument(value)
}
