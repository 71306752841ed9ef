package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"quiz-admin/internal/backend"
	"quiz-admin/internal/domain"
	"quiz-admin/internal/editor"
	"quiz-admin/internal/feedback"
)

// State is the submission state of an authoring session.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// ErrSubmissionDiscarded is returned when the session was reset while a
// request was in flight; the response is dropped without touching the model.
var ErrSubmissionDiscarded = errors.New("submission discarded after reset")

var errDraftsDisabled = errors.New(msgDraftsDisabled)

// Snapshot is an immutable copy of the authoring state for rendering.
type Snapshot struct {
	Meta      domain.QuizMeta         `json:"meta"`
	Questions []domain.QuestionRecord `json:"questions"`
	State     State                   `json:"state"`
}

// AuthoringFlow owns one Editor Model and its metadata and drives the
// submission state machine. All edits go through it so they can be
// serialized and blocked while a submission is in flight.
type AuthoringFlow struct {
	api      QuizAuthor
	drafts   DraftRepository
	feedback *feedback.Channel
	log      *zap.Logger
	now      func() time.Time

	mu         sync.Mutex
	model      *editor.Model
	meta       domain.QuizMeta
	state      State
	generation uint64
	listeners  []func(Snapshot)
}

// NewAuthoringFlow starts a session with one default question.
// drafts may be nil, in which case draft operations fail.
func NewAuthoringFlow(api QuizAuthor, drafts DraftRepository, fb *feedback.Channel, log *zap.Logger) *AuthoringFlow {
	if fb == nil {
		fb = feedback.NewChannel(feedback.DefaultTTL)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthoringFlow{
		api:      api,
		drafts:   drafts,
		feedback: fb,
		log:      log,
		now:      time.Now,
		model:    editor.NewModel(),
		state:    StateIdle,
	}
}

// OnChange registers fn to receive a snapshot after every mutation.
func (f *AuthoringFlow) OnChange(fn func(Snapshot)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}

func (f *AuthoringFlow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *AuthoringFlow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *AuthoringFlow) AddQuestion() (int, error) {
	var id int
	err := f.edit(func(m *editor.Model) error {
		id = m.AddQuestion()
		return nil
	})
	return id, err
}

// RemoveQuestion reports whether a question was removed. Unknown ids are not an error.
func (f *AuthoringFlow) RemoveQuestion(id int) (bool, error) {
	var removed bool
	err := f.edit(func(m *editor.Model) error {
		removed = m.RemoveQuestion(id)
		return nil
	})
	return removed, err
}

func (f *AuthoringFlow) SetMeta(meta domain.QuizMeta) error {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return domain.ErrSubmissionInFlight
	}
	f.meta = meta
	snap, listeners := f.changedLocked()
	f.mu.Unlock()
	notify(listeners, snap)
	return nil
}

func (f *AuthoringFlow) SetQuestionText(id int, text string) error {
	return f.edit(func(m *editor.Model) error { return m.SetQuestionText(id, text) })
}

func (f *AuthoringFlow) SetTimeLimit(id, seconds int) error {
	return f.edit(func(m *editor.Model) error { return m.SetTimeLimit(id, seconds) })
}

func (f *AuthoringFlow) SetAnswerText(id, index int, text string) error {
	return f.edit(func(m *editor.Model) error { return m.SetAnswerText(id, index, text) })
}

func (f *AuthoringFlow) MarkCorrect(id, index int) error {
	return f.edit(func(m *editor.Model) error { return m.MarkCorrect(id, index) })
}

// QuestionPatch holds the fields to change on one question. Nil fields are left as they are.
type QuestionPatch struct {
	Text      *string
	TimeLimit *int
	Correct   *int
	Answers   map[int]string
}

// PatchQuestion applies every field of p or none of them.
func (f *AuthoringFlow) PatchQuestion(id int, p QuestionPatch) error {
	return f.edit(func(m *editor.Model) error {
		if _, ok := m.Question(id); !ok {
			return domain.ErrQuestionNotFound
		}
		if p.TimeLimit != nil && (*p.TimeLimit < domain.MinTimeLimitSeconds || *p.TimeLimit > domain.MaxTimeLimitSeconds) {
			return domain.ErrTimeLimitOutOfRange
		}
		if p.Correct != nil && (*p.Correct < 0 || *p.Correct >= domain.AnswersPerQuestion) {
			return domain.ErrAnswerIndexOutOfRange
		}
		for index := range p.Answers {
			if index < 0 || index >= domain.AnswersPerQuestion {
				return domain.ErrAnswerIndexOutOfRange
			}
		}

		if p.Text != nil {
			_ = m.SetQuestionText(id, *p.Text)
		}
		if p.TimeLimit != nil {
			_ = m.SetTimeLimit(id, *p.TimeLimit)
		}
		for index, text := range p.Answers {
			_ = m.SetAnswerText(id, index, text)
		}
		if p.Correct != nil {
			_ = m.MarkCorrect(id, *p.Correct)
		}
		return nil
	})
}

// Load replaces the session content, e.g. from a quiz file.
func (f *AuthoringFlow) Load(meta domain.QuizMeta, records []domain.QuestionRecord) error {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return domain.ErrSubmissionInFlight
	}
	f.meta = meta
	f.model.Replace(records)
	snap, listeners := f.changedLocked()
	f.mu.Unlock()
	notify(listeners, snap)
	return nil
}

// Reset clears the form back to one default question. A submission still in
// flight is abandoned: its response is discarded when it arrives.
func (f *AuthoringFlow) Reset() {
	f.mu.Lock()
	f.resetLocked()
	f.state = StateIdle
	snap, listeners := f.changedLocked()
	f.mu.Unlock()
	notify(listeners, snap)
}

// Close abandons any in-flight submission without resetting the form.
func (f *AuthoringFlow) Close() {
	f.mu.Lock()
	f.generation++
	if f.state == StateSubmitting {
		f.state = StateIdle
	}
	f.mu.Unlock()
}

// Submit validates and creates the quiz. On success the form is reset.
func (f *AuthoringFlow) Submit(ctx context.Context) (backend.CreatedQuiz, error) {
	return f.submit(ctx, f.api.CreateQuiz, msgCreateFailed, msgQuizCreated)
}

// Update validates and replaces an existing quiz with the form content.
func (f *AuthoringFlow) Update(ctx context.Context, quizID int64) (backend.CreatedQuiz, error) {
	call := func(ctx context.Context, p domain.QuizPayload) (backend.CreatedQuiz, error) {
		return f.api.UpdateQuiz(ctx, quizID, p)
	}
	return f.submit(ctx, call, msgUpdateFailed, msgQuizUpdated)
}

type submitFunc func(ctx context.Context, p domain.QuizPayload) (backend.CreatedQuiz, error)

func (f *AuthoringFlow) submit(ctx context.Context, call submitFunc, failMsg, okMsg string) (backend.CreatedQuiz, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return backend.CreatedQuiz{}, domain.ErrSubmissionInFlight
	}

	f.state = StateValidating
	meta := f.meta
	payload := editor.Serialize(meta, f.model)
	err := editor.Validate(payload)
	if err == nil {
		err = editor.CheckLimits(payload)
	}
	if err != nil {
		f.state = StateFailed
		snap, listeners := f.changedLocked()
		f.mu.Unlock()
		f.feedback.Error(feedback.RegionQuiz, err.Error())
		notify(listeners, snap)
		return backend.CreatedQuiz{}, err
	}

	f.state = StateSubmitting
	gen := f.generation
	snap, listeners := f.changedLocked()
	f.mu.Unlock()
	notify(listeners, snap)

	created, err := call(ctx, payload)

	f.mu.Lock()
	if gen != f.generation {
		f.mu.Unlock()
		f.log.Debug("discarding response for abandoned submission", zap.Error(err))
		return backend.CreatedQuiz{}, ErrSubmissionDiscarded
	}
	if err != nil {
		f.state = StateFailed
		snap, listeners := f.changedLocked()
		f.mu.Unlock()
		f.log.Warn("quiz submission failed", zap.String("title", meta.Title), zap.Error(err))
		f.feedback.Error(feedback.RegionQuiz, userMessage(err, failMsg))
		notify(listeners, snap)
		return backend.CreatedQuiz{}, err
	}

	f.resetLocked()
	f.state = StateSucceeded
	snap, listeners = f.changedLocked()
	f.mu.Unlock()

	title := created.Title
	if title == "" {
		title = meta.Title
	}
	f.log.Info("quiz submitted", zap.Int64("quiz_id", created.ID), zap.String("title", title))
	f.feedback.Success(feedback.RegionQuiz, fmt.Sprintf(okMsg, title))
	notify(listeners, snap)
	return created, nil
}

// LoadRemote fetches an existing quiz into the form so it can be cloned or updated.
func (f *AuthoringFlow) LoadRemote(ctx context.Context, quizID int64) error {
	if f.State() == StateSubmitting {
		return domain.ErrSubmissionInFlight
	}
	remote, err := f.api.GetQuiz(ctx, quizID)
	if err != nil {
		f.feedback.Error(feedback.RegionQuiz, userMessage(err, msgLoadFailed))
		return fmt.Errorf("load quiz %d: %w", quizID, err)
	}
	meta := domain.QuizMeta{Title: remote.Title, Description: remote.Description}
	return f.Load(meta, editor.Records(remote.QuizPayload))
}

// SaveDraft stores the current form under name.
func (f *AuthoringFlow) SaveDraft(ctx context.Context, name string) error {
	if f.drafts == nil {
		return errDraftsDisabled
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("draft name is required")
	}

	f.mu.Lock()
	draft := domain.Draft{
		Name:      name,
		Meta:      f.meta,
		Questions: f.model.Questions(),
		SavedAt:   f.now(),
	}
	f.mu.Unlock()

	if err := f.drafts.Save(ctx, draft); err != nil {
		f.feedback.Error(feedback.RegionQuiz, msgDraftSaveFailed)
		return fmt.Errorf("save draft %q: %w", name, err)
	}
	f.feedback.Success(feedback.RegionQuiz, fmt.Sprintf(msgDraftSaved, name))
	return nil
}

// LoadDraft replaces the form with a saved draft.
func (f *AuthoringFlow) LoadDraft(ctx context.Context, name string) error {
	if f.drafts == nil {
		return errDraftsDisabled
	}
	draft, err := f.drafts.Load(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, domain.ErrDraftNotFound) {
			f.feedback.Error(feedback.RegionQuiz, err.Error())
		} else {
			f.feedback.Error(feedback.RegionQuiz, msgDraftLoadFailed)
		}
		return fmt.Errorf("load draft %q: %w", name, err)
	}
	if err := f.Load(draft.Meta, draft.Questions); err != nil {
		return err
	}
	f.feedback.Success(feedback.RegionQuiz, fmt.Sprintf(msgDraftLoaded, draft.Name))
	return nil
}

func (f *AuthoringFlow) DeleteDraft(ctx context.Context, name string) error {
	if f.drafts == nil {
		return errDraftsDisabled
	}
	return f.drafts.Delete(ctx, strings.TrimSpace(name))
}

func (f *AuthoringFlow) ListDrafts(ctx context.Context) ([]string, error) {
	if f.drafts == nil {
		return nil, errDraftsDisabled
	}
	return f.drafts.List(ctx)
}

func (f *AuthoringFlow) edit(fn func(m *editor.Model) error) error {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return domain.ErrSubmissionInFlight
	}
	if err := fn(f.model); err != nil {
		f.mu.Unlock()
		return err
	}
	snap, listeners := f.changedLocked()
	f.mu.Unlock()
	notify(listeners, snap)
	return nil
}

func (f *AuthoringFlow) resetLocked() {
	f.generation++
	f.model.Reset()
	f.meta = domain.QuizMeta{}
}

// changedLocked captures the snapshot and listeners to notify once the lock is released.
func (f *AuthoringFlow) changedLocked() (Snapshot, []func(Snapshot)) {
	return f.snapshotLocked(), append([]func(Snapshot){}, f.listeners...)
}

func (f *AuthoringFlow) snapshotLocked() Snapshot {
	return Snapshot{
		Meta:      f.meta,
		Questions: f.model.Questions(),
		State:     f.state,
	}
}

func notify(listeners []func(Snapshot), snap Snapshot) {
	for _, fn := range listeners {
		fn(snap)
	}
}
