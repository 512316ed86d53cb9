package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nexustrade/orderflow/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// mergeRetries bounds the optimistic WATCH loop in Merge.
const mergeRetries = 16

// ErrMergeContention is returned when a merge loses the optimistic
// transaction race more times than the retry budget allows.
var ErrMergeContention = errors.New("merge aborted after repeated contention")

// Store implements ports.OrderStore using Redis. Records are stored as
// JSON values, one key per order ID.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for order records.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for order records.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "orderflow:order:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(orderID string) string {
	return s.prefix + orderID
}

// Put creates or fully replaces the record under id.
func (s *Store) Put(ctx context.Context, id string, rec *domain.OrderRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save order to redis: %w", err)
	}
	return nil
}

// Merge overlays the patch onto the stored record using an optimistic
// WATCH transaction, so concurrent merges on the same id serialize:
// a racing write invalidates the transaction and the merge is retried
// against the fresh record.
func (s *Store) Merge(ctx context.Context, id string, patch domain.OrderPatch) (*domain.OrderRecord, error) {
	key := s.key(id)
	var merged *domain.OrderRecord

	txn := func(tx *backend.Tx) error {
		rec := &domain.OrderRecord{OrderID: id}

		val, err := tx.Get(ctx, key).Result()
		switch {
		case err == nil:
			if err := json.Unmarshal([]byte(val), rec); err != nil {
				return fmt.Errorf("failed to unmarshal order: %w", err)
			}
		case errors.Is(err, backend.Nil):
			// Absent record: merge creates it.
		default:
			return fmt.Errorf("failed to get order from redis: %w", err)
		}

		patch.Apply(rec)

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal order: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		merged = rec
		return nil
	}

	for i := 0; i < mergeRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		switch {
		case err == nil:
			return merged, nil
		case errors.Is(err, backend.TxFailedErr):
			continue // Lost the race, retry against the fresh value.
		default:
			return nil, err
		}
	}

	return nil, ErrMergeContention
}

// Get retrieves the record from Redis.
func (s *Store) Get(ctx context.Context, id string) (*domain.OrderRecord, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order from redis: %w", err)
	}

	var rec domain.OrderRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}

	return &rec, nil
}

// Delete removes the record. Absent ids are not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
