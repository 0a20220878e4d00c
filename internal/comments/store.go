// Package comments stores free-text management comments per objective
// identity in an external document store, degrading to read-only empty
// results whenever the store is unreachable.
package comments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrOffline classifies operations refused or failed because the document
// store is unreachable. Writes check connectivity before touching the
// network; reads that hit a network failure mark the store offline but still
// resolve empty.
var ErrOffline = errors.New("comment store offline")

const keyPrefix = "compass:comment:"

// Comment is the stored value for one objective identity. Absence of a
// stored comment is a valid state distinct from an empty-string comment.
type Comment struct {
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// BulkResult carries one bulk load's merged comments together with the
// selection key it was issued for, so the caller can discard a batch that
// arrives after the selection has moved on.
type BulkResult struct {
	SelectionKey string
	Comments     map[string]Comment
}

// Store is the Redis-backed comment store.
type Store struct {
	client *redis.Client
	online atomic.Bool
}

// NewStore creates a comment store and probes connectivity once.
func NewStore(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewStoreWithClient(redis.NewClient(opts)), nil
}

// NewStoreWithClient creates a store from an existing Redis client.
func NewStoreWithClient(client *redis.Client) *Store {
	s := &Store{client: client}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.online.Store(client.Ping(ctx).Err() == nil)
	return s
}

// Online reports the current connectivity flag.
func (s *Store) Online() bool {
	return s.online.Load()
}

// Get loads the comment for an identity. found is false when nothing is
// stored, which is not an error. A network failure flips the store offline
// and resolves with an empty comment instead of propagating.
func (s *Store) Get(ctx context.Context, id string) (comment Comment, found bool, err error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Result()
	if err == redis.Nil {
		s.online.Store(true)
		return Comment{}, false, nil
	}
	if err != nil {
		s.online.Store(false)
		return Comment{}, false, nil
	}

	s.online.Store(true)
	if err := json.Unmarshal([]byte(data), &comment); err != nil {
		return Comment{}, false, fmt.Errorf("unmarshal comment %s: %w", id, err)
	}
	return comment, true, nil
}

// Save writes a trimmed comment. An empty or whitespace-only comment is a
// delete, never a write of an empty string. Refused immediately when
// offline.
func (s *Store) Save(ctx context.Context, id, text string) error {
	trimmed := trimComment(text)
	if trimmed == "" {
		return s.Delete(ctx, id)
	}
	if !s.online.Load() {
		return ErrOffline
	}

	now := time.Now().UTC()
	stored := Comment{Comment: trimmed, CreatedAt: now, LastUpdated: now}
	if existing, found, _ := s.Get(ctx, id); found {
		stored.CreatedAt = existing.CreatedAt
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal comment %s: %w", id, err)
	}
	if err := s.client.Set(ctx, keyPrefix+id, data, 0).Err(); err != nil {
		s.online.Store(false)
		return fmt.Errorf("save comment %s: %w", id, ErrOffline)
	}
	s.online.Store(true)
	return nil
}

// Delete removes the stored comment for an identity. Deleting an identity
// with no comment is a no-op. Refused immediately when offline.
func (s *Store) Delete(ctx context.Context, id string) error {
	if !s.online.Load() {
		return ErrOffline
	}
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		s.online.Store(false)
		return fmt.Errorf("delete comment %s: %w", id, ErrOffline)
	}
	s.online.Store(true)
	return nil
}

// BulkGet loads comments for a visible objective set. All reads run
// concurrently and join on an all-complete barrier; a failed read
// contributes an empty comment rather than aborting the batch. The result
// is merged into one map so the caller applies a single state update.
func (s *Store) BulkGet(ctx context.Context, ids []string, selectionKey string) BulkResult {
	result := BulkResult{SelectionKey: selectionKey, Comments: make(map[string]Comment, len(ids))}
	if len(ids) == 0 {
		return result
	}

	type entry struct {
		id      string
		comment Comment
		found   bool
	}
	entries := make([]entry, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			comment, found, _ := s.Get(ctx, id)
			entries[i] = entry{id: id, comment: comment, found: found}
		}(i, id)
	}
	wg.Wait()

	for _, e := range entries {
		if e.found {
			result.Comments[e.id] = e.comment
		}
	}
	return result
}

// Ping checks if the document store is reachable and updates the flag.
func (s *Store) Ping(ctx context.Context) error {
	err := s.client.Ping(ctx).Err()
	s.online.Store(err == nil)
	return err
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func trimComment(text string) string {
	return strings.TrimSpace(text)
}
