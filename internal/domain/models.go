package domain

import "time"

const (
	// AnswersPerQuestion is fixed; answers are never added or removed individually.
	AnswersPerQuestion = 4

	MinTimeLimitSeconds     = 5
	MaxTimeLimitSeconds     = 120
	DefaultTimeLimitSeconds = 30

	MaxTitleLength  = 200
	MaxAnswerLength = 500
)

// AnswerRecord is one editable answer choice. Correctness lives on the
// owning QuestionRecord so a question always has exactly one correct answer.
type AnswerRecord struct {
	Text string `json:"text" yaml:"text"`
}

// QuestionRecord is one editable question in the authoring session.
// ID correlates view elements with the record and is never sent to the server.
type QuestionRecord struct {
	ID               int                              `json:"id"`
	Text             string                           `json:"text"`
	TimeLimitSeconds int                              `json:"time_limit"`
	Answers          [AnswersPerQuestion]AnswerRecord `json:"answers"`
	CorrectIndex     int                              `json:"correct"`
}

// NewQuestionRecord returns a question with default time limit and the first answer marked correct.
func NewQuestionRecord(id int) QuestionRecord {
	return QuestionRecord{
		ID:               id,
		TimeLimitSeconds: DefaultTimeLimitSeconds,
		CorrectIndex:     0,
	}
}

// IsCorrect reports whether the answer at index i is the designated correct one.
func (q QuestionRecord) IsCorrect(i int) bool {
	return i == q.CorrectIndex
}

// QuizMeta carries the top-level quiz fields edited next to the questions.
type QuizMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// QuizSummary is a read-only directory entry received from the backend.
type QuizSummary struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// GameSession is produced by a successful game launch.
type GameSession struct {
	ID       int64  `json:"id"`
	QuizID   int64  `json:"quiz_id"`
	GameCode string `json:"game_code"`
	Status   string `json:"status"`
}

// AnswerPayload is the wire shape of one answer.
type AnswerPayload struct {
	AnswerText string `json:"answer_text"`
	IsCorrect  bool   `json:"is_correct"`
	Order      int    `json:"order"`
}

// QuestionPayload is the wire shape of one question.
type QuestionPayload struct {
	QuestionText string          `json:"question_text"`
	TimeLimit    int             `json:"time_limit"`
	Order        int             `json:"order"`
	Answers      []AnswerPayload `json:"answers"`
}

// QuizPayload is the create/update body accepted by the backend.
type QuizPayload struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []QuestionPayload `json:"questions"`
}

// Draft is a named snapshot of an unfinished quiz.
type Draft struct {
	Name      string           `json:"name"`
	Meta      QuizMeta         `json:"meta"`
	Questions []QuestionRecord `json:"questions"`
	SavedAt   time.Time        `json:"saved_at"`
}
