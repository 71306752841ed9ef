package editor

import (
	"quiz-admin/internal/domain"
)

// Serialize converts the model into the create/update payload.
// Order fields always come from the current position, never from stored values.
func Serialize(meta domain.QuizMeta, m *Model) domain.QuizPayload {
	return SerializeRecords(meta, m.questions)
}

// SerializeRecords is Serialize for a detached slice of records.
func SerializeRecords(meta domain.QuizMeta, records []domain.QuestionRecord) domain.QuizPayload {
	payload := domain.QuizPayload{
		Title:       meta.Title,
		Description: meta.Description,
		Questions:   make([]domain.QuestionPayload, 0, len(records)),
	}
	for i, q := range records {
		answers := make([]domain.AnswerPayload, 0, len(q.Answers))
		for j, a := range q.Answers {
			answers = append(answers, domain.AnswerPayload{
				AnswerText: a.Text,
				IsCorrect:  q.IsCorrect(j),
				Order:      j,
			})
		}
		payload.Questions = append(payload.Questions, domain.QuestionPayload{
			QuestionText: q.Text,
			TimeLimit:    q.TimeLimitSeconds,
			Order:        i,
			Answers:      answers,
		})
	}
	return payload
}

// Records converts a payload back into editor records, e.g. when cloning a
// quiz fetched from the backend. Ids are left zero for Model.Replace to assign.
func Records(payload domain.QuizPayload) []domain.QuestionRecord {
	out := make([]domain.QuestionRecord, 0, len(payload.Questions))
	for _, q := range payload.Questions {
		rec := domain.NewQuestionRecord(0)
		rec.Text = q.QuestionText
		if q.TimeLimit != 0 {
			rec.TimeLimitSeconds = q.TimeLimit
		}
		for j, a := range q.Answers {
			if j >= domain.AnswersPerQuestion {
				break
			}
			rec.Answers[j].Text = a.AnswerText
			if a.IsCorrect {
				rec.CorrectIndex = j
			}
		}
		out = append(out, rec)
	}
	return out
}
