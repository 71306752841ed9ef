package app_test

import (
	"context"
	"sync"

	"quiz-admin/internal/backend"
	"quiz-admin/internal/domain"
)

// fakeBackend records calls and answers with canned results. When gate is
// non-nil, create/update calls signal entered and wait for gate to close.
// listGate holds back the next listing only, after it has taken its snapshot.
type fakeBackend struct {
	mu sync.Mutex

	created   []domain.QuizPayload
	updated   map[int64]domain.QuizPayload
	createErr error
	gate      chan struct{}
	entered   chan struct{}

	remote    backend.RemoteQuiz
	remoteErr error

	quizzes     []domain.QuizSummary
	listErr     error
	listGate    chan struct{}
	listEntered chan struct{}
	listCalls   int
	deleted     []int64
	deleteErr   error

	session  domain.GameSession
	startErr error
	started  []int64
}

func (f *fakeBackend) CreateQuiz(ctx context.Context, payload domain.QuizPayload) (backend.CreatedQuiz, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, payload)
	if f.createErr != nil {
		return backend.CreatedQuiz{}, f.createErr
	}
	return backend.CreatedQuiz{ID: int64(len(f.created)), Title: payload.Title}, nil
}

func (f *fakeBackend) UpdateQuiz(ctx context.Context, quizID int64, payload domain.QuizPayload) (backend.CreatedQuiz, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = make(map[int64]domain.QuizPayload)
	}
	f.updated[quizID] = payload
	if f.createErr != nil {
		return backend.CreatedQuiz{}, f.createErr
	}
	return backend.CreatedQuiz{ID: quizID, Title: payload.Title}, nil
}

func (f *fakeBackend) GetQuiz(ctx context.Context, quizID int64) (backend.RemoteQuiz, error) {
	return f.remote, f.remoteErr
}

func (f *fakeBackend) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	f.mu.Lock()
	f.listCalls++
	if f.listErr != nil {
		f.mu.Unlock()
		return nil, f.listErr
	}
	snapshot := append([]domain.QuizSummary(nil), f.quizzes...)
	gate := f.listGate
	f.listGate = nil
	f.mu.Unlock()

	if gate != nil {
		if f.listEntered != nil {
			f.listEntered <- struct{}{}
		}
		<-gate
	}
	return snapshot, nil
}

func (f *fakeBackend) DeleteQuiz(ctx context.Context, quizID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, quizID)
	kept := f.quizzes[:0:0]
	for _, q := range f.quizzes {
		if q.ID != quizID {
			kept = append(kept, q)
		}
	}
	f.quizzes = kept
	return nil
}

func (f *fakeBackend) StartGame(ctx context.Context, quizID int64) (domain.GameSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, quizID)
	if f.startErr != nil {
		return domain.GameSession{}, f.startErr
	}
	s := f.session
	s.QuizID = quizID
	return s, nil
}

func (f *fakeBackend) HostURL(gameCode string) string {
	return "http://quiz.test/host/" + gameCode
}

func (f *fakeBackend) calls() (created, listed, started int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created), f.listCalls, len(f.started)
}

func (f *fakeBackend) wait() {
	if f.gate == nil {
		return
	}
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	<-f.gate
}
