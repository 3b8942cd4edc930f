package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"choreify/models"
	"choreify/utils"

	"github.com/go-redis/redis/v8"
)

// Store keeps quote sessions and carts. Gets return (nil, nil) when the key
// is missing or expired.
type Store interface {
	GetQuote(ctx context.Context, id string) (*models.QuoteSession, error)
	PutQuote(ctx context.Context, q *models.QuoteSession, ttl time.Duration) error
	DeleteQuote(ctx context.Context, id string) error
	GetCart(ctx context.Context, cartID string) (*models.Cart, error)
	PutCart(ctx context.Context, cart *models.Cart, ttl time.Duration) error
	DeleteCart(ctx context.Context, cartID string) error
}

// RedisStore implements Store on the cache Redis database.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) GetQuote(ctx context.Context, id string) (*models.QuoteSession, error) {
	var q models.QuoteSession
	ok, err := s.get(ctx, utils.QuotePrefix+id, &q)
	if !ok || err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *RedisStore) PutQuote(ctx context.Context, q *models.QuoteSession, ttl time.Duration) error {
	return s.put(ctx, utils.QuotePrefix+q.ID, q, ttl)
}

func (s *RedisStore) DeleteQuote(ctx context.Context, id string) error {
	return s.client.Del(ctx, utils.QuotePrefix+id).Err()
}

func (s *RedisStore) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	var c models.Cart
	ok, err := s.get(ctx, utils.CartPrefix+cartID, &c)
	if !ok || err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *RedisStore) PutCart(ctx context.Context, cart *models.Cart, ttl time.Duration) error {
	return s.put(ctx, utils.CartPrefix+cart.SessionID, cart, ttl)
}

func (s *RedisStore) DeleteCart(ctx context.Context, cartID string) error {
	return s.client.Del(ctx, utils.CartPrefix+cartID).Err()
}

func (s *RedisStore) get(ctx context.Context, key string, out any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (s *RedisStore) put(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryItem), now: time.Now}
}

func (s *MemoryStore) GetQuote(ctx context.Context, id string) (*models.QuoteSession, error) {
	var q models.QuoteSession
	ok, err := s.get(utils.QuotePrefix+id, &q)
	if !ok || err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *MemoryStore) PutQuote(ctx context.Context, q *models.QuoteSession, ttl time.Duration) error {
	return s.put(utils.QuotePrefix+q.ID, q, ttl)
}

func (s *MemoryStore) DeleteQuote(ctx context.Context, id string) error {
	s.delete(utils.QuotePrefix + id)
	return nil
}

func (s *MemoryStore) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	var c models.Cart
	ok, err := s.get(utils.CartPrefix+cartID, &c)
	if !ok || err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MemoryStore) PutCart(ctx context.Context, cart *models.Cart, ttl time.Duration) error {
	return s.put(utils.CartPrefix+cart.SessionID, cart, ttl)
}

func (s *MemoryStore) DeleteCart(ctx context.Context, cartID string) error {
	s.delete(utils.CartPrefix + cartID)
	return nil
}

func (s *MemoryStore) get(key string, out any) (bool, error) {
	s.mu.Lock()
	item, ok := s.items[key]
	if ok && !item.expiresAt.IsZero() && !s.now().Before(item.expiresAt) {
		delete(s.items, key)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(item.data, out)
}

func (s *MemoryStore) put(key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	item := memoryItem{data: data}
	if ttl > 0 {
		item.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.items[key] = item
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) delete(key string) {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}
