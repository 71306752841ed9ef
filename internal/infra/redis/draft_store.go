package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-admin/internal/domain"
)

const draftKeyPrefix = "quiz:draft:"

// DraftStore keeps drafts as JSON strings under quiz:draft:{name}.
// Keys expire after ttl (plus up to 10% jitter); a zero ttl keeps them forever.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{
		client: client,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *DraftStore) Save(ctx context.Context, draft domain.Draft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, s.key(draft.Name), raw, s.ttlWithJitter()).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *DraftStore) Load(ctx context.Context, name string) (domain.Draft, error) {
	raw, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Draft{}, domain.ErrDraftNotFound
	}
	if err != nil {
		return domain.Draft{}, fmt.Errorf("load draft: %w", err)
	}
	var draft domain.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return domain.Draft{}, fmt.Errorf("unmarshal draft: %w", err)
	}
	return draft, nil
}

func (s *DraftStore) Delete(ctx context.Context, name string) error {
	return s.client.Del(ctx, s.key(name)).Err()
}

// List scans for draft keys. Expired drafts disappear on their own.
func (s *DraftStore) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := s.client.Scan(ctx, 0, draftKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), draftKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (s *DraftStore) key(name string) string {
	return draftKeyPrefix + name
}

func (s *DraftStore) ttlWithJitter() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	jitterMax := int64(s.ttl) / 10
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return s.ttl + time.Duration(s.rnd.Int63n(jitterMax+1))
}
