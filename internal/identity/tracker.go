package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// AuthEvent reports a sign-in state change from the identity provider.
type AuthEvent struct {
	Email    string `json:"email"`
	SignedIn bool   `json:"signedIn"`
}

// Source yields auth events until ctx is cancelled or it is closed.
type Source interface {
	Next(ctx context.Context) (AuthEvent, error)
	Close() error
}

// Tracker caches roles of signed-in users and falls back to the directory for
// anyone it has not seen. Cached roles expire after ttl so directory changes
// are picked up without an auth event.
type Tracker struct {
	dir    Directory
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu    sync.RWMutex
	roles map[string]cachedRole
}

type cachedRole struct {
	role    Role
	expires time.Time
}

func NewTracker(dir Directory, ttl time.Duration, logger *zap.Logger) *Tracker {
	return &Tracker{
		dir:    dir,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
		roles:  make(map[string]cachedRole),
	}
}

// Role returns the user's role, consulting the cache first.
func (t *Tracker) Role(ctx context.Context, email string) (Role, error) {
	t.mu.RLock()
	cached, ok := t.roles[email]
	t.mu.RUnlock()
	if ok && t.now().Before(cached.expires) {
		return cached.role, nil
	}

	role, err := t.dir.Role(ctx, email)
	if err != nil {
		t.Forget(email)
		return "", err
	}
	t.mu.Lock()
	t.roles[email] = cachedRole{role: role, expires: t.now().Add(t.ttl)}
	t.mu.Unlock()
	return role, nil
}

// Run drops expired entries every ttl until ctx is done.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.evictExpired()
		}
	}
}

func (t *Tracker) evictExpired() {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	for email, c := range t.roles {
		if !now.Before(c.expires) {
			delete(t.roles, email)
		}
	}
}

func (t *Tracker) handle(ctx context.Context, ev AuthEvent) {
	if !ev.SignedIn {
		t.Forget(ev.Email)
		return
	}
	// A fresh sign-in may follow a role change.
	t.Forget(ev.Email)
	if _, err := t.Role(ctx, ev.Email); err != nil {
		t.logger.Warn("error fetching user role", zap.String("email", ev.Email), zap.Error(err))
	}
}

// Subscription is a running consumer of an auth event source.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	src    Source
	once   sync.Once
	err    error
}

// Subscribe consumes src until the returned subscription is closed or ctx
// ends.
func (t *Tracker) Subscribe(ctx context.Context, src Source) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{cancel: cancel, done: make(chan struct{}), src: src}

	go func() {
		defer close(s.done)
		for {
			ev, err := src.Next(ctx)
			if err != nil {
				if ctx.Err() == nil {
					t.logger.Error("auth event stream failed", zap.Error(err))
				}
				return
			}
			t.handle(ctx, ev)
		}
	}()
	return s
}

// Done is closed once the consumer goroutine has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close stops consumption, waits for the consumer to exit and releases the
// source. It is safe to call more than once.
func (s *Subscription) Close() error {
	s.once.Do(func() {
		s.cancel()
		<-s.done
		s.err = s.src.Close()
	})
	return s.err
}

// KafkaSource reads auth events from a topic.
type KafkaSource struct {
	reader *kafka.Reader
}

func NewKafkaSource(brokers []string, topic, groupID string) *KafkaSource {
	return &KafkaSource{reader: kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	})}
}

func (k *KafkaSource) Next(ctx context.Context) (AuthEvent, error) {
	for {
		msg, err := k.reader.ReadMessage(ctx)
		if err != nil {
			return AuthEvent{}, err
		}
		var ev AuthEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil || ev.Email == "" {
			// Skip malformed records rather than stalling the stream.
			continue
		}
		return ev, nil
	}
}

func (k *KafkaSource) Close() error {
	if err := k.reader.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("close auth reader: %w", err)
	}
	return nil
}
