package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/feedback"
)

// DefaultRedirectDelay gives the operator time to read the join code.
const DefaultRedirectDelay = 1500 * time.Millisecond

// Launcher starts a game for a selected quiz and then navigates to its host view.
type Launcher struct {
	api      GameAPI
	feedback *feedback.Channel
	nav      Navigator
	delay    time.Duration
	after    func(time.Duration) <-chan time.Time
	log      *zap.Logger
}

func NewLauncher(api GameAPI, fb *feedback.Channel, nav Navigator, delay time.Duration, log *zap.Logger) *Launcher {
	if fb == nil {
		fb = feedback.NewChannel(feedback.DefaultTTL)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if delay < 0 {
		delay = 0
	}
	return &Launcher{
		api:      api,
		feedback: fb,
		nav:      nav,
		delay:    delay,
		after:    time.After,
		log:      log,
	}
}

// ParseSelection turns the value of the quiz selector into a quiz id.
func ParseSelection(selection string) (int64, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return 0, domain.ErrNoQuizSelected
	}
	id, err := strconv.ParseInt(selection, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidQuizID, selection)
	}
	return id, nil
}

// Start launches a game for the selected quiz. It blocks for the redirect
// delay and then navigates; a cancelled ctx skips navigation.
func (l *Launcher) Start(ctx context.Context, selection string) (domain.GameSession, error) {
	quizID, err := ParseSelection(selection)
	if err != nil {
		l.feedback.Error(feedback.RegionGame, errorText(err))
		return domain.GameSession{}, err
	}

	session, err := l.api.StartGame(ctx, quizID)
	if err != nil {
		l.log.Warn("start game failed", zap.Int64("quiz_id", quizID), zap.Error(err))
		l.feedback.Error(feedback.RegionGame, userMessage(err, msgStartFailed))
		return domain.GameSession{}, err
	}

	l.log.Info("game started", zap.Int64("quiz_id", quizID), zap.String("game_code", session.GameCode))
	l.feedback.Success(feedback.RegionGame, fmt.Sprintf(msgGameStarted, session.GameCode))

	target := l.api.HostURL(session.GameCode)
	select {
	case <-l.after(l.delay):
		if l.nav != nil {
			l.nav.Navigate(target)
		}
	case <-ctx.Done():
		l.log.Debug("navigation abandoned", zap.String("target", target))
	}
	return session, nil
}

func errorText(err error) string {
	if errors.Is(err, domain.ErrInvalidQuizID) {
		return domain.ErrInvalidQuizID.Error()
	}
	return err.Error()
}
