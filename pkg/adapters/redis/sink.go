package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Sink implements ports.SnapshotSink using Redis.
// Each snapshot is a JSON value under prefix+label; a sorted set at
// prefix+"index" lists labels scored by expiry (or export time without TTL).
type Sink struct {
	client  backend.UniversalClient
	prefix  string
	ttl     time.Duration
	locker  ports.ExportLocker
	lockTTL time.Duration
}

var (
	_ ports.SnapshotSink   = (*Sink)(nil)
	_ ports.SnapshotLister = (*Sink)(nil)
)

// Option configures the Sink.
type Option func(*Sink)

// WithTTL expires exported snapshots after ttl.
func WithTTL(ttl time.Duration) Option {
	return func(s *Sink) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix. Defaults to "arbor:snapshot:".
func WithPrefix(prefix string) Option {
	return func(s *Sink) {
		s.prefix = prefix
	}
}

// WithLocking makes every export hold a per-label lock for at most ttl.
func WithLocking(ttl time.Duration) Option {
	return func(s *Sink) {
		s.lockTTL = ttl
	}
}

// New connects to the server at addr.
func New(addr, password string, db int, opts ...Option) *Sink {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromURL connects using a redis:// URL. The query may carry ttl and
// prefix ("redis://localhost:6379/0?ttl=1h&prefix=arbor:").
func NewFromURL(raw string, opts ...Option) (*Sink, error) {
	copts, err := backend.ParseURL(stripQuery(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	extra, err := queryOptions(raw)
	if err != nil {
		return nil, err
	}
	return NewFromClient(backend.NewClient(copts), append(extra, opts...)...), nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client backend.UniversalClient, opts ...Option) *Sink {
	s := &Sink{
		client: client,
		prefix: "arbor:snapshot:",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.lockTTL > 0 {
		s.locker = NewLocker(client, s.prefix)
	}
	return s
}

func (s *Sink) key(label string) string {
	return s.prefix + label
}

func (s *Sink) indexKey() string {
	return s.prefix + "index"
}

// Export stores the snapshot and indexes its label in one pipeline.
func (s *Sink) Export(ctx context.Context, label string, snap *domain.Snapshot) error {
	if snap == nil {
		return errors.New("redis sink: nil snapshot")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, label, s.lockTTL)
		if err != nil {
			return err
		}
		defer func() { _ = unlock(context.WithoutCancel(ctx)) }()
	}

	score := float64(time.Now().Unix())
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(label), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: label})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to export snapshot %s: %w", label, err)
	}
	return nil
}

// List returns exported labels, oldest first. Expired labels are pruned
// from the index lazily.
func (s *Sink) List(ctx context.Context) ([]string, error) {
	if s.ttl > 0 {
		now := strconv.FormatInt(time.Now().Unix(), 10)
		if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", "("+now).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune index: %w", err)
		}
	}
	labels, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return labels, nil
}
