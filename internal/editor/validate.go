package editor

import (
	"fmt"
	"unicode/utf8"

	"quiz-admin/internal/domain"
)

// Validate gates submission. Text content is not inspected here.
func Validate(p domain.QuizPayload) error {
	if len(p.Questions) == 0 {
		return domain.ErrEmptyQuiz
	}
	for i, q := range p.Questions {
		if len(q.Answers) != domain.AnswersPerQuestion {
			return fmt.Errorf("question %d: %w", i+1, domain.ErrAnswerCount)
		}
		correct := 0
		for _, a := range q.Answers {
			if a.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("question %d: %w", i+1, domain.ErrCorrectAnswerCount)
		}
	}
	return nil
}

// CheckLimits applies the backend's length and range limits so an oversized
// quiz fails locally instead of after a round trip.
func CheckLimits(p domain.QuizPayload) error {
	if utf8.RuneCountInString(p.Title) > domain.MaxTitleLength {
		return domain.ErrTitleTooLong
	}
	for i, q := range p.Questions {
		if q.TimeLimit < domain.MinTimeLimitSeconds || q.TimeLimit > domain.MaxTimeLimitSeconds {
			return fmt.Errorf("question %d: %w", i+1, domain.ErrTimeLimitOutOfRange)
		}
		for _, a := range q.Answers {
			if utf8.RuneCountInString(a.AnswerText) > domain.MaxAnswerLength {
				return fmt.Errorf("question %d: %w", i+1, domain.ErrAnswerTooLong)
			}
		}
	}
	return nil
}
