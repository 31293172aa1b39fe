package repository

import (
	"context"
	"time"

	c "github.com/patrickmn/go-cache"

	"DnsBot/bot/chat"
)

// MemoryStore is an in-process SessionStore. Dialogues do not survive a
// restart; use it for local runs.
type MemoryStore struct {
	cache *c.Cache
	ttl   time.Duration
}

// NewMemoryStore creates a store whose values expire after ttl. Zero keeps
// them until cleared.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = c.NoExpiration
	}
	return &MemoryStore{
		cache: c.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

func memoryKey(chatKey chat.ChatKey, key string) string {
	return chatKey.String() + "/" + key
}

func (s *MemoryStore) Get(_ context.Context, chatKey chat.ChatKey, key string, out any) (bool, error) {
	raw, found := s.cache.Get(memoryKey(chatKey, key))
	if !found {
		return false, nil
	}
	if err := chat.UnmarshalValue(raw.([]byte), out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) Set(_ context.Context, chatKey chat.ChatKey, key string, value any) error {
	data, err := chat.MarshalValue(value)
	if err != nil {
		return err
	}
	s.cache.Set(memoryKey(chatKey, key), data, s.ttl)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, chatKey chat.ChatKey, key string) error {
	s.cache.Delete(memoryKey(chatKey, key))
	return nil
}

func (s *MemoryStore) Has(_ context.Context, chatKey chat.ChatKey, key string) (bool, error) {
	_, found := s.cache.Get(memoryKey(chatKey, key))
	return found, nil
}

// Len reports the number of stored values.
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}
