package app

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"quiz-admin/internal/domain"
)

const DefaultDirectoryTTL = 10 * time.Second

// SelectorOption is one entry of the quiz selection list used for game launch.
type SelectorOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Directory lists, deletes and offers persisted quizzes for selection.
// Listings are cached for a short TTL so the list view and the selector can
// refresh together with one backend request.
type Directory struct {
	api   DirectoryAPI
	alert Alerter
	log   *zap.Logger
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group

	mu        sync.RWMutex
	cached    []domain.QuizSummary
	expiresAt time.Time
	// generation counts invalidations; a fetch started before one must not fill the cache.
	generation uint64
}

const listKey = "quizzes"

func copySummaries(src []domain.QuizSummary) []domain.QuizSummary {
	out := make([]domain.QuizSummary, len(src))
	copy(out, src)
	return out
}

func NewDirectory(api DirectoryAPI, alert Alerter, ttl time.Duration, log *zap.Logger) *Directory {
	if log == nil {
		log = zap.NewNop()
	}
	if alert == nil {
		alert = AlertFunc(func(string) {})
	}
	return &Directory{
		api:   api,
		alert: alert,
		log:   log,
		ttl:   ttl,
		clock: time.Now,
	}
}

// Fetch returns the quiz summaries, surfacing backend errors.
func (d *Directory) Fetch(ctx context.Context) ([]domain.QuizSummary, error) {
	now := d.clock()

	d.mu.RLock()
	if d.cached != nil && d.expiresAt.After(now) {
		out := copySummaries(d.cached)
		d.mu.RUnlock()
		return out, nil
	}
	d.mu.RUnlock()

	result, err, _ := d.sf.Do(listKey, func() (interface{}, error) {
		// Re-check in case another caller filled the cache meanwhile.
		d.mu.RLock()
		if d.cached != nil && d.expiresAt.After(d.clock()) {
			cached := d.cached
			d.mu.RUnlock()
			return cached, nil
		}
		gen := d.generation
		d.mu.RUnlock()

		quizzes, err := d.api.ListQuizzes(ctx)
		if err != nil {
			return nil, err
		}
		if quizzes == nil {
			quizzes = []domain.QuizSummary{}
		}

		d.mu.Lock()
		if gen == d.generation {
			d.cached = quizzes
			d.expiresAt = d.clock().Add(d.ttl)
		}
		d.mu.Unlock()
		return quizzes, nil
	})
	if err != nil {
		return nil, err
	}
	return copySummaries(result.([]domain.QuizSummary)), nil
}

// List is Fetch for views: failures are logged and degrade to an empty list.
func (d *Directory) List(ctx context.Context) []domain.QuizSummary {
	quizzes, err := d.Fetch(ctx)
	if err != nil {
		d.log.Warn("error loading quizzes", zap.Error(err))
		return []domain.QuizSummary{}
	}
	return quizzes
}

// Invalidate drops the cached listing. Fetches already in flight still answer
// their callers but no longer fill the cache, and later callers start afresh.
func (d *Directory) Invalidate() {
	d.mu.Lock()
	d.cached = nil
	d.expiresAt = time.Time{}
	d.generation++
	d.sf.Forget(listKey)
	d.mu.Unlock()
}

// Remove deletes a quiz after confirmation. It reports whether the quiz was
// deleted and, when it was, returns the reloaded listing for the view to
// render. On failure the operator gets a blocking alert and the listing is
// left as it was.
func (d *Directory) Remove(ctx context.Context, quizID int64, confirm Confirmer) ([]domain.QuizSummary, bool, error) {
	if confirm != nil && !confirm.Confirm(msgConfirmDelete) {
		return nil, false, nil
	}

	if err := d.api.DeleteQuiz(ctx, quizID); err != nil {
		d.log.Warn("delete quiz failed", zap.Int64("quiz_id", quizID), zap.Error(err))
		d.alert.Alert(userMessage(err, msgDeleteFailed))
		return nil, false, fmt.Errorf("delete quiz %d: %w", quizID, err)
	}

	d.log.Info("quiz deleted", zap.Int64("quiz_id", quizID))
	d.Invalidate()
	return d.List(ctx), true, nil
}

// Selector builds the launch selector for an already loaded listing.
func Selector(quizzes []domain.QuizSummary) []SelectorOption {
	return selectorOptions(quizzes)
}

// PopulateSelector returns a placeholder followed by one option per quiz.
func (d *Directory) PopulateSelector(ctx context.Context) []SelectorOption {
	return selectorOptions(d.List(ctx))
}

// Refresh loads the listing and the selector concurrently. Both share one
// backend request through the cache.
func (d *Directory) Refresh(ctx context.Context) ([]domain.QuizSummary, []SelectorOption, error) {
	var (
		quizzes []domain.QuizSummary
		options []SelectorOption
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		quizzes = d.List(gctx)
		return gctx.Err()
	})
	g.Go(func() error {
		options = d.PopulateSelector(gctx)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return quizzes, options, nil
}

func selectorOptions(quizzes []domain.QuizSummary) []SelectorOption {
	options := make([]SelectorOption, 0, len(quizzes)+1)
	options = append(options, SelectorOption{Value: "", Label: msgSelectorNoQuiz})
	for _, q := range quizzes {
		options = append(options, SelectorOption{
			Value: strconv.FormatInt(q.ID, 10),
			Label: fmt.Sprintf("%s (%d questions)", q.Title, q.QuestionCount),
		})
	}
	return options
}
