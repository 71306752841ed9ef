package domain

import "errors"

var (
	// ErrEmptyQuiz is returned when a quiz is submitted without questions.
	ErrEmptyQuiz = errors.New("add at least 1 question")
	// ErrAnswerCount indicates a question without exactly four answers.
	ErrAnswerCount = errors.New("every question needs exactly 4 answers")
	// ErrCorrectAnswerCount indicates a question without exactly one correct answer.
	ErrCorrectAnswerCount = errors.New("every question needs exactly 1 correct answer")
	// ErrTitleTooLong mirrors the backend title limit.
	ErrTitleTooLong = errors.New("title is too long")
	// ErrAnswerTooLong mirrors the backend answer text limit.
	ErrAnswerTooLong = errors.New("answer text is too long")

	// ErrQuestionNotFound is returned when an edit targets an unknown question id.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrTimeLimitOutOfRange is returned for time limits outside 5..120 seconds.
	ErrTimeLimitOutOfRange = errors.New("time limit must be between 5 and 120 seconds")
	// ErrAnswerIndexOutOfRange is returned for answer positions outside 0..3.
	ErrAnswerIndexOutOfRange = errors.New("answer index out of range")

	// ErrSubmissionInFlight blocks edits and duplicate submits while a request is pending.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	// ErrNoQuizSelected is returned when a game is launched without a quiz.
	ErrNoQuizSelected = errors.New("select a quiz first")
	// ErrInvalidQuizID is returned when a quiz selection is not a positive number.
	ErrInvalidQuizID = errors.New("invalid quiz id")
	// ErrDraftNotFound indicates no draft was saved under the given name.
	ErrDraftNotFound = errors.New("draft not found")
)
