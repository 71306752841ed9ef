package editor

import (
	"quiz-admin/internal/domain"
)

// Model is the ordered collection of questions being authored.
// It is not safe for concurrent use; the owning flow serializes access.
type Model struct {
	ids       IDGenerator
	questions []domain.QuestionRecord
}

// NewModel returns a model holding one default question, matching what a fresh form shows.
func NewModel() *Model {
	m := &Model{}
	m.AddQuestion()
	return m
}

// AddQuestion appends a default question and returns its id.
func (m *Model) AddQuestion() int {
	id := m.ids.Next()
	m.questions = append(m.questions, domain.NewQuestionRecord(id))
	return id
}

// RemoveQuestion drops the question with the given id.
// Unknown ids are ignored since removal events can arrive late or twice.
func (m *Model) RemoveQuestion(id int) bool {
	idx := m.indexOf(id)
	if idx < 0 {
		return false
	}
	m.questions = append(m.questions[:idx], m.questions[idx+1:]...)
	return true
}

// Reset clears every question, restarts the id sequence and adds one default question.
func (m *Model) Reset() {
	m.questions = nil
	m.ids.Reset()
	m.AddQuestion()
}

// Clear removes every question without touching the id sequence.
func (m *Model) Clear() {
	m.questions = nil
}

// Replace swaps the collection for copies of the given records with fresh ids.
// Out-of-range time limits and correct indexes are normalized to defaults.
func (m *Model) Replace(records []domain.QuestionRecord) {
	m.questions = make([]domain.QuestionRecord, 0, len(records))
	for _, r := range records {
		r.ID = m.ids.Next()
		if r.TimeLimitSeconds < domain.MinTimeLimitSeconds || r.TimeLimitSeconds > domain.MaxTimeLimitSeconds {
			r.TimeLimitSeconds = domain.DefaultTimeLimitSeconds
		}
		if r.CorrectIndex < 0 || r.CorrectIndex >= domain.AnswersPerQuestion {
			r.CorrectIndex = 0
		}
		m.questions = append(m.questions, r)
	}
}

// Len returns the number of questions.
func (m *Model) Len() int {
	return len(m.questions)
}

// Questions returns a copy of the questions in their current order.
func (m *Model) Questions() []domain.QuestionRecord {
	out := make([]domain.QuestionRecord, len(m.questions))
	copy(out, m.questions)
	return out
}

// Question returns a copy of the question with the given id.
func (m *Model) Question(id int) (domain.QuestionRecord, bool) {
	idx := m.indexOf(id)
	if idx < 0 {
		return domain.QuestionRecord{}, false
	}
	return m.questions[idx], true
}

func (m *Model) SetQuestionText(id int, text string) error {
	q, err := m.lookup(id)
	if err != nil {
		return err
	}
	q.Text = text
	return nil
}

func (m *Model) SetTimeLimit(id, seconds int) error {
	if seconds < domain.MinTimeLimitSeconds || seconds > domain.MaxTimeLimitSeconds {
		return domain.ErrTimeLimitOutOfRange
	}
	q, err := m.lookup(id)
	if err != nil {
		return err
	}
	q.TimeLimitSeconds = seconds
	return nil
}

func (m *Model) SetAnswerText(id, index int, text string) error {
	if index < 0 || index >= domain.AnswersPerQuestion {
		return domain.ErrAnswerIndexOutOfRange
	}
	q, err := m.lookup(id)
	if err != nil {
		return err
	}
	q.Answers[index].Text = text
	return nil
}

// MarkCorrect makes the answer at index the only correct one.
func (m *Model) MarkCorrect(id, index int) error {
	if index < 0 || index >= domain.AnswersPerQuestion {
		return domain.ErrAnswerIndexOutOfRange
	}
	q, err := m.lookup(id)
	if err != nil {
		return err
	}
	q.CorrectIndex = index
	return nil
}

func (m *Model) lookup(id int) (*domain.QuestionRecord, error) {
	idx := m.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrQuestionNotFound
	}
	return &m.questions[idx], nil
}

func (m *Model) indexOf(id int) int {
	for i := range m.questions {
		if m.questions[i].ID == id {
			return i
		}
	}
	return -1
}
