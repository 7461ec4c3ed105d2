package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	// QuestionModeReference means the test carries question bank IDs.
	QuestionModeReference = "reference"
	// QuestionModeInline means the test embeds full question snapshots.
	QuestionModeInline = "inline"
)

// Test is a teacher-authored test definition. The assignment subsystem never
// mutates a test; it only reads it when fanning out assignments.
type Test struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	TimeLimit    int            `gorm:"not null;default:0" json:"time"`
	Subject      string         `gorm:"size:128;index" json:"subject"`
	Level        string         `gorm:"size:64" json:"level"`
	TeacherID    string         `gorm:"size:36;index" json:"teacherId"`
	QuestionMode string         `gorm:"size:16;not null" json:"questionMode"`
	Questions    datatypes.JSON `gorm:"type:json" json:"questions"`
	CreatedAt    time.Time      `json:"-"`
	UpdatedAt    time.Time      `json:"-"`
}

// QuestionIDs decodes the question list as bank references. Only meaningful
// when QuestionMode is reference.
func (t Test) QuestionIDs() []string {
	if len(t.Questions) == 0 {
		return nil
	}

	var ids []string
	if err := json.Unmarshal(t.Questions, &ids); err != nil {
		return nil
	}

	return ids
}

// InlineQuestions decodes the question list as embedded snapshots. Only
// meaningful when QuestionMode is inline.
func (t Test) InlineQuestions() []Question {
	if len(t.Questions) == 0 {
		return nil
	}

	var questions []Question
	if err := json.Unmarshal(t.Questions, &questions); err != nil {
		return nil
	}

	return questions
}

// DetectQuestionMode infers the storage mode from a raw question list: a list
// made up entirely of plain strings is a reference list, anything else
// (including a mix of strings and objects) is stored inline. The decision is
// made once, at authoring time, and recorded on the test.
func DetectQuestionMode(raw json.RawMessage) string {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil || len(elements) == 0 {
		return QuestionModeInline
	}

	for _, element := range elements {
		var id string
		if err := json.Unmarshal(element, &id); err != nil {
			return QuestionModeInline
		}
	}

	return QuestionModeReference
}
