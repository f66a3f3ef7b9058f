package kvstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// memoryStore 进程内实现，用于测试和 CLI 的临时运行
type memoryStore struct {
	mu         sync.RWMutex
	data       map[string]map[string]string // namespace -> key -> value
	quotaBytes int64
}

// NewMemoryStore 创建内存键值存储，quotaBytes<=0 表示不限额
func NewMemoryStore(quotaBytes int64) Store {
	return &memoryStore{
		data:       make(map[string]map[string]string),
		quotaBytes: quotaBytes,
	}
}

func (s *memoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[NamespaceFrom(ctx)][key]
	return v, ok, nil
}

func (s *memoryStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	ns := NamespaceFrom(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.data[ns]
	if bucket == nil {
		bucket = make(map[string]string)
		s.data[ns] = bucket
	}

	if s.quotaBytes > 0 {
		var used int64
		for k, v := range bucket {
			if k != key {
				used += entrySize(k, v)
			}
		}
		if used+entrySize(key, value) > s.quotaBytes {
			return fmt.Errorf("%w: namespace %s", ErrQuotaExceeded, ns)
		}
	}

	bucket[key] = value
	return nil
}

func (s *memoryStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data[NamespaceFrom(ctx)], key)
	return nil
}

func (s *memoryStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k := range s.data[NamespaceFrom(ctx)] {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *memoryStore) Snapshot(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket := s.data[NamespaceFrom(ctx)]
	out := make(map[string]string, len(bucket))
	for k, v := range bucket {
		out[k] = v
	}
	return out, nil
}

func (s *memoryStore) CountAll(_ context.Context, prefix string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, bucket := range s.data {
		for k := range bucket {
			if strings.HasPrefix(k, prefix) {
				n++
			}
		}
	}
	return n, nil
}
