package feedback

import (
	"sync"
	"time"
)

// Kind is the severity of a feedback message.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Regions used by the authoring and launch flows.
const (
	RegionQuiz = "quiz"
	RegionGame = "game"
)

const DefaultTTL = 5 * time.Second

// Message is a transient status line shown in one region of the view.
type Message struct {
	Region    string    `json:"region"`
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Channel keeps the latest message per region and hides it once its TTL passes.
// Listeners are notified synchronously on every Show.
type Channel struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.RWMutex
	messages  map[string]Message
	listeners []func(Message)
}

func NewChannel(ttl time.Duration) *Channel {
	return NewChannelWithClock(ttl, time.Now)
}

// NewChannelWithClock allows deterministic expiry in tests.
func NewChannelWithClock(ttl time.Duration, now func() time.Time) *Channel {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Channel{
		ttl:      ttl,
		now:      now,
		messages: make(map[string]Message),
	}
}

func (c *Channel) Success(region, text string) Message {
	return c.Show(region, KindSuccess, text)
}

func (c *Channel) Error(region, text string) Message {
	return c.Show(region, KindError, text)
}

// Show replaces the message for region and notifies listeners.
func (c *Channel) Show(region string, kind Kind, text string) Message {
	msg := Message{
		Region:    region,
		Kind:      kind,
		Text:      text,
		ExpiresAt: c.now().Add(c.ttl),
	}

	c.mu.Lock()
	c.messages[region] = msg
	listeners := append([]func(Message){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(msg)
	}
	return msg
}

// Current returns the visible message for region, if it has not expired.
func (c *Channel) Current(region string) (Message, bool) {
	c.mu.RLock()
	msg, ok := c.messages[region]
	c.mu.RUnlock()
	if !ok || !c.now().Before(msg.ExpiresAt) {
		return Message{}, false
	}
	return msg, true
}

// Listen registers fn for every future message.
func (c *Channel) Listen(fn func(Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}
