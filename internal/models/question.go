package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Option is a single answer choice on a question.
type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question represents one entry in the question bank.
type Question struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	ImageURL  string         `gorm:"size:512" json:"imageUrl,omitempty"`
	Type      string         `gorm:"size:32" json:"type"`
	Points    int            `gorm:"not null;default:1" json:"points"`
	Subject   string         `gorm:"size:128;index" json:"subject"`
	Level     string         `gorm:"size:64;index" json:"level"`
	Options   datatypes.JSON `gorm:"type:json" json:"options"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
}

// SetOptions serializes the provided options into the JSON storage column.
func (q *Question) SetOptions(options []Option) {
	data, err := json.Marshal(options)
	if err != nil {
		q.Options = datatypes.JSON([]byte("[]"))
		return
	}
	q.Options = datatypes.JSON(data)
}

// OptionList deserializes the stored options into a Go slice.
func (q Question) OptionList() []Option {
	if len(q.Options) == 0 {
		return nil
	}

	var options []Option
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil
	}

	return options
}

// CorrectTexts collects the text of every option flagged correct.
func (q Question) CorrectTexts() map[string]struct{} {
	correct := make(map[string]struct{})
	for _, option := range q.OptionList() {
		if option.Correct {
			correct[option.Text] = struct{}{}
		}
	}
	return correct
}

// EffectivePoints returns the point value used during grading. Questions
// authored without an explicit value are worth a single point.
func (q Question) EffectivePoints() int {
	if q.Points <= 0 {
		return 1
	}
	return q.Points
}
