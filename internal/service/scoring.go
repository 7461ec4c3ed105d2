package service

import (
	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
)

// scoreAnswers grades a submitted answer list against a question snapshot.
// Pairing is positional: answers[i] is graded against questions[i]. When the
// answer list is shorter than the snapshot, the trailing questions are
// excluded from both the score and the total; extra trailing answers are
// ignored. Only a single string answer can match, by exact text equality
// against the set of options flagged correct. There is no partial credit.
func scoreAnswers(questions []models.Question, answers []any) (score, total int) {
	n := len(questions)
	if len(answers) < n {
		n = len(answers)
	}

	for i := 0; i < n; i++ {
		points := questions[i].EffectivePoints()
		total += points

		text, ok := answers[i].(string)
		if !ok {
			continue
		}

		if _, correct := questions[i].CorrectTexts()[text]; correct {
			score += points
		}
	}

	return score, total
}
