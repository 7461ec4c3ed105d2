package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	// AssignmentStatusNotStarted indicates the student has not opened the test.
	AssignmentStatusNotStarted = "not_started"
	// AssignmentStatusInProgress indicates the student has started the test.
	AssignmentStatusInProgress = "in_progress"
	// AssignmentStatusCompleted indicates the student submitted answers.
	AssignmentStatusCompleted = "completed"
)

// Assignment is one student's copy of a test. The question snapshot is frozen
// at creation time: later edits to the source test or the question bank never
// change an already-assigned question set.
type Assignment struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	TestID      string         `gorm:"size:36;index;not null" json:"testId"`
	TestName    string         `gorm:"size:255" json:"testName"`
	StudentID   string         `gorm:"size:36;index;not null" json:"studentId"`
	Questions   datatypes.JSON `gorm:"type:json" json:"questions"`
	Status      string         `gorm:"size:32;not null" json:"status"`
	Score       *int           `json:"score"`
	Answers     datatypes.JSON `gorm:"type:json" json:"answers"`
	AssignedAt  time.Time      `gorm:"not null" json:"assignedAt"`
	StartedAt   *time.Time     `json:"startedAt"`
	SubmittedAt *time.Time     `json:"submittedAt"`
	CreatedAt   time.Time      `json:"-"`
	UpdatedAt   time.Time      `json:"-"`
}

// SetQuestions serializes the resolved snapshot into the JSON storage column.
func (a *Assignment) SetQuestions(questions []Question) {
	data, err := json.Marshal(questions)
	if err != nil {
		a.Questions = datatypes.JSON([]byte("[]"))
		return
	}
	a.Questions = datatypes.JSON(data)
}

// QuestionList deserializes the frozen snapshot into a Go slice.
func (a Assignment) QuestionList() []Question {
	if len(a.Questions) == 0 {
		return nil
	}

	var questions []Question
	if err := json.Unmarshal(a.Questions, &questions); err != nil {
		return nil
	}

	return questions
}

// SetAnswers serializes the submitted answer list.
func (a *Assignment) SetAnswers(answers []any) {
	data, err := json.Marshal(answers)
	if err != nil {
		a.Answers = datatypes.JSON([]byte("[]"))
		return
	}
	a.Answers = datatypes.JSON(data)
}

// AnswerList deserializes the stored answer list, index-aligned with the
// question snapshot.
func (a Assignment) AnswerList() []any {
	if len(a.Answers) == 0 {
		return nil
	}

	var answers []any
	if err := json.Unmarshal(a.Answers, &answers); err != nil {
		return nil
	}

	return answers
}

// IsCompleted reports whether the assignment has been submitted and scored.
func (a Assignment) IsCompleted() bool {
	return a.Status == AssignmentStatusCompleted
}
