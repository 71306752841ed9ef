package app

import (
	"context"

	"quiz-admin/internal/backend"
	"quiz-admin/internal/domain"
)

// QuizAuthor is the part of the backend the authoring flow talks to.
type QuizAuthor interface {
	CreateQuiz(ctx context.Context, payload domain.QuizPayload) (backend.CreatedQuiz, error)
	UpdateQuiz(ctx context.Context, quizID int64, payload domain.QuizPayload) (backend.CreatedQuiz, error)
	GetQuiz(ctx context.Context, quizID int64) (backend.RemoteQuiz, error)
}

// DirectoryAPI lists and deletes persisted quizzes.
type DirectoryAPI interface {
	ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error)
	DeleteQuiz(ctx context.Context, quizID int64) error
}

// GameAPI starts live games.
type GameAPI interface {
	StartGame(ctx context.Context, quizID int64) (domain.GameSession, error)
	HostURL(gameCode string) string
}

// DraftRepository abstracts where unfinished quizzes are parked (in-memory, Redis, Postgres).
type DraftRepository interface {
	Save(ctx context.Context, draft domain.Draft) error
	Load(ctx context.Context, name string) (domain.Draft, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}

// Confirmer is a synchronous yes/no gate shown before destructive actions.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Alerter shows a blocking error notification.
type Alerter interface {
	Alert(message string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(message string)

func (f AlertFunc) Alert(message string) { f(message) }

// Navigator moves the operator to another view, e.g. the host screen of a game.
type Navigator interface {
	Navigate(target string)
}

// NavigateFunc adapts a function to Navigator.
type NavigateFunc func(target string)

func (f NavigateFunc) Navigate(target string) { f(target) }
