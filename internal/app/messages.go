package app

import (
	"errors"

	"quiz-admin/internal/backend"
)

// User-facing texts shown through feedback or alerts.
const (
	msgUnreachable     = "cannot reach the server"
	msgCreateFailed    = "failed to create quiz"
	msgUpdateFailed    = "failed to update quiz"
	msgLoadFailed      = "failed to load quiz"
	msgDeleteFailed    = "failed to delete quiz"
	msgStartFailed     = "failed to start game"
	msgConfirmDelete   = "Are you sure you want to delete this quiz?"
	msgSelectorNoQuiz  = "-- choose a quiz --"
	msgQuizCreated     = "Quiz %q created!"
	msgQuizUpdated     = "Quiz %q updated!"
	msgGameStarted     = "Game started! Code: %s"
	msgDraftSaved      = "Draft %q saved"
	msgDraftLoaded     = "Draft %q loaded"
	msgDraftsDisabled  = "drafts are not configured"
	msgDraftLoadFailed = "failed to load draft"
	msgDraftSaveFailed = "failed to save draft"
)

// userMessage maps a backend error to a short text. Transport failures never
// leak the underlying error.
func userMessage(err error, fallback string) string {
	if errors.Is(err, backend.ErrServiceUnavailable) {
		return msgUnreachable
	}
	return backend.DetailOr(err, fallback)
}
