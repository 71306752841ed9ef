package app_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"quiz-admin/internal/app"
	"quiz-admin/internal/backend"
	"quiz-admin/internal/domain"
	"quiz-admin/internal/feedback"
	"quiz-admin/internal/infra/memory"
)

func newTestFlow(api *fakeBackend) (*app.AuthoringFlow, *feedback.Channel) {
	fb := feedback.NewChannel(feedback.DefaultTTL)
	return app.NewAuthoringFlow(api, memory.NewDraftStore(), fb, nil), fb
}

func TestSubmitDefaultQuestion(t *testing.T) {
	api := &fakeBackend{}
	flow, fb := newTestFlow(api)

	if err := flow.SetMeta(domain.QuizMeta{Title: "Test"}); err != nil {
		t.Fatalf("set meta: %v", err)
	}
	created, err := flow.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if created.Title != "Test" {
		t.Fatalf("unexpected created quiz: %+v", created)
	}

	if len(api.created) != 1 {
		t.Fatalf("expected one create call, got %d", len(api.created))
	}
	payload := api.created[0]
	if payload.Title != "Test" || len(payload.Questions) != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	q := payload.Questions[0]
	if q.TimeLimit != domain.DefaultTimeLimitSeconds || len(q.Answers) != 4 {
		t.Fatalf("unexpected question: %+v", q)
	}
	for i, a := range q.Answers {
		if a.IsCorrect != (i == 0) || a.Order != i {
			t.Fatalf("answer %d: %+v", i, a)
		}
	}

	msg, ok := fb.Current(feedback.RegionQuiz)
	if !ok || msg.Kind != feedback.KindSuccess || !strings.Contains(msg.Text, "Test") {
		t.Fatalf("expected success feedback, got %+v (visible=%v)", msg, ok)
	}

	snap := flow.Snapshot()
	if snap.State != app.StateSucceeded || snap.Meta.Title != "" {
		t.Fatalf("expected reset form after success, got %+v", snap)
	}
	if len(snap.Questions) != 1 || snap.Questions[0].ID != 1 {
		t.Fatalf("expected one fresh question with id 1, got %+v", snap.Questions)
	}
}

func TestSubmitEmptyQuizIsRejectedLocally(t *testing.T) {
	api := &fakeBackend{}
	flow, fb := newTestFlow(api)

	if removed, err := flow.RemoveQuestion(1); err != nil || !removed {
		t.Fatalf("remove: removed=%v err=%v", removed, err)
	}
	_, err := flow.Submit(context.Background())
	if !errors.Is(err, domain.ErrEmptyQuiz) {
		t.Fatalf("expected ErrEmptyQuiz, got %v", err)
	}
	if created, _, _ := api.calls(); created != 0 {
		t.Fatalf("backend must not be called, got %d creates", created)
	}
	if flow.State() != app.StateFailed {
		t.Fatalf("expected failed state, got %s", flow.State())
	}
	msg, ok := fb.Current(feedback.RegionQuiz)
	if !ok || msg.Kind != feedback.KindError || msg.Text != domain.ErrEmptyQuiz.Error() {
		t.Fatalf("unexpected feedback: %+v", msg)
	}
}

func TestSubmitFailureKeepsForm(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantText string
	}{
		{
			name:     "server detail",
			err:      &backend.APIError{StatusCode: 422, Detail: "Quiz title is required"},
			wantText: "Quiz title is required",
		},
		{
			name:     "no detail",
			err:      &backend.APIError{StatusCode: 500},
			wantText: "failed to create quiz",
		},
		{
			name:     "transport",
			err:      fmt.Errorf("%w: connection refused", backend.ErrServiceUnavailable),
			wantText: "cannot reach the server",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeBackend{createErr: tt.err}
			flow, fb := newTestFlow(api)
			_ = flow.SetMeta(domain.QuizMeta{Title: "Kept"})
			_, _ = flow.AddQuestion()

			if _, err := flow.Submit(context.Background()); !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			msg, _ := fb.Current(feedback.RegionQuiz)
			if msg.Text != tt.wantText || msg.Kind != feedback.KindError {
				t.Fatalf("unexpected feedback: %+v", msg)
			}
			snap := flow.Snapshot()
			if snap.Meta.Title != "Kept" || len(snap.Questions) != 2 || snap.State != app.StateFailed {
				t.Fatalf("form should be untouched, got %+v", snap)
			}
		})
	}
}

func TestSubmitLimitsCheckedLocally(t *testing.T) {
	api := &fakeBackend{}
	flow, _ := newTestFlow(api)
	_ = flow.SetMeta(domain.QuizMeta{Title: strings.Repeat("x", domain.MaxTitleLength+1)})

	if _, err := flow.Submit(context.Background()); !errors.Is(err, domain.ErrTitleTooLong) {
		t.Fatalf("expected ErrTitleTooLong, got %v", err)
	}
	if created, _, _ := api.calls(); created != 0 {
		t.Fatalf("backend must not be called")
	}
}

func TestSubmitBlocksConcurrentSubmitAndEdits(t *testing.T) {
	api := &fakeBackend{gate: make(chan struct{}), entered: make(chan struct{})}
	flow, _ := newTestFlow(api)
	_ = flow.SetMeta(domain.QuizMeta{Title: "Once"})

	done := make(chan error, 1)
	go func() {
		_, err := flow.Submit(context.Background())
		done <- err
	}()
	<-api.entered

	if flow.State() != app.StateSubmitting {
		t.Fatalf("expected submitting state, got %s", flow.State())
	}
	if _, err := flow.Submit(context.Background()); !errors.Is(err, domain.ErrSubmissionInFlight) {
		t.Fatalf("second submit: expected ErrSubmissionInFlight, got %v", err)
	}
	if _, err := flow.AddQuestion(); !errors.Is(err, domain.ErrSubmissionInFlight) {
		t.Fatalf("edit: expected ErrSubmissionInFlight, got %v", err)
	}

	close(api.gate)
	if err := <-done; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if created, _, _ := api.calls(); created != 1 {
		t.Fatalf("expected exactly one create call, got %d", created)
	}
}

func TestResetDiscardsInFlightResponse(t *testing.T) {
	api := &fakeBackend{gate: make(chan struct{}), entered: make(chan struct{})}
	flow, fb := newTestFlow(api)
	_ = flow.SetMeta(domain.QuizMeta{Title: "Abandoned"})

	done := make(chan error, 1)
	go func() {
		_, err := flow.Submit(context.Background())
		done <- err
	}()
	<-api.entered

	flow.Reset()
	if _, err := flow.AddQuestion(); err != nil {
		t.Fatalf("edit after reset: %v", err)
	}
	_ = flow.SetMeta(domain.QuizMeta{Title: "Next"})

	close(api.gate)
	if err := <-done; !errors.Is(err, app.ErrSubmissionDiscarded) {
		t.Fatalf("expected ErrSubmissionDiscarded, got %v", err)
	}

	snap := flow.Snapshot()
	if snap.Meta.Title != "Next" || len(snap.Questions) != 2 || snap.State != app.StateIdle {
		t.Fatalf("new edits must survive the stale response, got %+v", snap)
	}
	if _, ok := fb.Current(feedback.RegionQuiz); ok {
		t.Fatalf("stale response must not produce feedback")
	}
}

func TestCloseAbandonsSubmissionAndUnlocksForm(t *testing.T) {
	api := &fakeBackend{gate: make(chan struct{}), entered: make(chan struct{})}
	flow, fb := newTestFlow(api)
	_ = flow.SetMeta(domain.QuizMeta{Title: "Kept"})

	done := make(chan error, 1)
	go func() {
		_, err := flow.Submit(context.Background())
		done <- err
	}()
	<-api.entered

	flow.Close()
	close(api.gate)
	if err := <-done; !errors.Is(err, app.ErrSubmissionDiscarded) {
		t.Fatalf("expected ErrSubmissionDiscarded, got %v", err)
	}

	if flow.State() != app.StateIdle {
		t.Fatalf("expected idle state after close, got %s", flow.State())
	}
	if _, err := flow.AddQuestion(); err != nil {
		t.Fatalf("edit after close: %v", err)
	}
	if snap := flow.Snapshot(); snap.Meta.Title != "Kept" || len(snap.Questions) != 2 {
		t.Fatalf("close must keep the form, got %+v", snap)
	}
	if _, ok := fb.Current(feedback.RegionQuiz); ok {
		t.Fatalf("abandoned response must not produce feedback")
	}
}

func TestUpdateSendsToExistingQuiz(t *testing.T) {
	api := &fakeBackend{}
	flow, fb := newTestFlow(api)
	_ = flow.SetMeta(domain.QuizMeta{Title: "Renamed"})

	if _, err := flow.Update(context.Background(), 7); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if p, ok := api.updated[7]; !ok || p.Title != "Renamed" {
		t.Fatalf("expected update of quiz 7, got %+v", api.updated)
	}
	msg, _ := fb.Current(feedback.RegionQuiz)
	if !strings.Contains(msg.Text, "updated") {
		t.Fatalf("unexpected feedback: %+v", msg)
	}
}

func TestLoadRemoteFillsForm(t *testing.T) {
	api := &fakeBackend{
		remote: backend.RemoteQuiz{
			ID: 3,
			QuizPayload: domain.QuizPayload{
				Title: "Capitals",
				Questions: []domain.QuestionPayload{
					{
						QuestionText: "Capital of France?",
						TimeLimit:    20,
						Order:        1,
						Answers: []domain.AnswerPayload{
							{AnswerText: "Berlin", Order: 1},
							{AnswerText: "Paris", IsCorrect: true, Order: 2},
							{AnswerText: "Rome", Order: 3},
							{AnswerText: "Madrid", Order: 4},
						},
					},
				},
			},
		},
	}
	flow, _ := newTestFlow(api)

	if err := flow.LoadRemote(context.Background(), 3); err != nil {
		t.Fatalf("load remote: %v", err)
	}
	snap := flow.Snapshot()
	if snap.Meta.Title != "Capitals" || len(snap.Questions) != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	q := snap.Questions[0]
	if q.Text != "Capital of France?" || q.TimeLimitSeconds != 20 || q.CorrectIndex != 1 {
		t.Fatalf("unexpected question: %+v", q)
	}
}

func TestLoadRemoteFailure(t *testing.T) {
	api := &fakeBackend{remoteErr: &backend.APIError{StatusCode: 404, Detail: "Quiz not found"}}
	flow, fb := newTestFlow(api)

	if err := flow.LoadRemote(context.Background(), 99); err == nil {
		t.Fatalf("expected error")
	}
	msg, _ := fb.Current(feedback.RegionQuiz)
	if msg.Text != "Quiz not found" {
		t.Fatalf("unexpected feedback: %+v", msg)
	}
}

func TestDraftRoundTrip(t *testing.T) {
	ctx := context.Background()
	flow, _ := newTestFlow(&fakeBackend{})

	_ = flow.SetMeta(domain.QuizMeta{Title: "Half done"})
	id, _ := flow.AddQuestion()
	_ = flow.SetQuestionText(id, "Second?")
	_ = flow.MarkCorrect(id, 2)

	if err := flow.SaveDraft(ctx, "wip"); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	flow.Reset()

	if err := flow.LoadDraft(ctx, "wip"); err != nil {
		t.Fatalf("load draft: %v", err)
	}
	snap := flow.Snapshot()
	if snap.Meta.Title != "Half done" || len(snap.Questions) != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Questions[1].Text != "Second?" || snap.Questions[1].CorrectIndex != 2 {
		t.Fatalf("unexpected second question: %+v", snap.Questions[1])
	}

	names, err := flow.ListDrafts(ctx)
	if err != nil || len(names) != 1 || names[0] != "wip" {
		t.Fatalf("list drafts: %v %v", names, err)
	}
	if err := flow.DeleteDraft(ctx, "wip"); err != nil {
		t.Fatalf("delete draft: %v", err)
	}
	if err := flow.LoadDraft(ctx, "wip"); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}
}

func TestDraftsDisabled(t *testing.T) {
	flow := app.NewAuthoringFlow(&fakeBackend{}, nil, nil, nil)
	if err := flow.SaveDraft(context.Background(), "x"); err == nil {
		t.Fatalf("expected error without a draft store")
	}
}

func TestOnChangeReceivesSnapshots(t *testing.T) {
	flow, _ := newTestFlow(&fakeBackend{})
	var got []app.Snapshot
	flow.OnChange(func(s app.Snapshot) { got = append(got, s) })

	_, _ = flow.AddQuestion()
	_, _ = flow.RemoveQuestion(1)

	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if len(got[0].Questions) != 2 || len(got[1].Questions) != 1 || got[1].Questions[0].ID != 2 {
		t.Fatalf("unexpected snapshots: %+v", got)
	}
}

func TestPatchQuestionAppliesAllOrNothing(t *testing.T) {
	flow, _ := newTestFlow(&fakeBackend{})
	text, limit, correct := "Capital of France?", 20, 9

	err := flow.PatchQuestion(1, app.QuestionPatch{
		Text:      &text,
		TimeLimit: &limit,
		Correct:   &correct,
		Answers:   map[int]string{1: "Paris"},
	})
	if !errors.Is(err, domain.ErrAnswerIndexOutOfRange) {
		t.Fatalf("expected ErrAnswerIndexOutOfRange, got %v", err)
	}
	q := flow.Snapshot().Questions[0]
	if q.Text != "" || q.TimeLimitSeconds != domain.DefaultTimeLimitSeconds || q.Answers[1].Text != "" {
		t.Fatalf("rejected patch must not change the question, got %+v", q)
	}

	correct = 1
	if err := flow.PatchQuestion(1, app.QuestionPatch{Text: &text, TimeLimit: &limit, Correct: &correct, Answers: map[int]string{1: "Paris"}}); err != nil {
		t.Fatalf("patch: %v", err)
	}
	q = flow.Snapshot().Questions[0]
	if q.Text != text || q.TimeLimitSeconds != 20 || q.CorrectIndex != 1 || q.Answers[1].Text != "Paris" {
		t.Fatalf("unexpected question after patch: %+v", q)
	}

	if err := flow.PatchQuestion(42, app.QuestionPatch{Text: &text}); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}
