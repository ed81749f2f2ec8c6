// Package cache 实现按 (操作, 参数) 作键的查询缓存，
// 写操作通过预先注册的失效规则批量清除相关条目。
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// Store 带 TTL 与容量上限的查询缓存（LRU 淘汰）
type Store struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
	rules   map[string][]string // 失效标签 -> 受影响的键前缀
}

type item struct {
	key       string
	data      interface{}
	expiresAt time.Time
}

// New 创建查询缓存
func New(maxSize int, ttl time.Duration) *Store {
	return &Store{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		rules:   make(map[string][]string),
	}
}

// Key 由操作名与参数拼出缓存键，如 Key("transactions", "type=income", "limit=10")
func Key(op string, params ...string) string {
	if len(params) == 0 {
		return op
	}
	return op + "?" + strings.Join(params, "&")
}

// Get 读取缓存，过期条目按未命中处理并即时移除
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		return nil, false
	}
	it := elem.Value.(*item)
	if time.Now().After(it.expiresAt) {
		s.removeElement(elem)
		return nil, false
	}
	s.lru.MoveToFront(elem)
	return it.data, true
}

// Set 写入缓存，超出容量时淘汰最久未使用的条目
func (s *Store) Set(key string, data interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it := &item{key: key, data: data, expiresAt: time.Now().Add(s.ttl)}
	if elem, ok := s.items[key]; ok {
		elem.Value = it
		s.lru.MoveToFront(elem)
		return
	}
	elem := s.lru.PushFront(it)
	s.items[key] = elem

	for s.maxSize > 0 && s.lru.Len() > s.maxSize {
		oldest := s.lru.Back()
		if oldest == nil {
			break
		}
		s.removeElement(oldest)
	}
}

// RegisterInvalidation 注册失效规则：命中 tag 的写操作会清除所有
// 以任一 prefix 开头的缓存键（如 "任何交易写入使交易列表与统计缓存失效"）。
func (s *Store) RegisterInvalidation(tag string, prefixes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[tag] = append(s.rules[tag], prefixes...)
}

// Invalidate 按标签触发失效，返回清除的条目数
func (s *Store) Invalidate(tag string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefixes := s.rules[tag]
	if len(prefixes) == 0 {
		return 0
	}
	removed := 0
	for key, elem := range s.items {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				s.removeElement(elem)
				removed++
				break
			}
		}
	}
	return removed
}

// Flush 清空全部缓存条目，保留已注册的失效规则
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*list.Element)
	s.lru.Init()
}

// Size 当前缓存条目数
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// CleanExpired 清除所有已过期条目，返回清除数量
func (s *Store) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for _, elem := range s.items {
		if now.After(elem.Value.(*item).expiresAt) {
			s.removeElement(elem)
			removed++
		}
	}
	return removed
}

func (s *Store) removeElement(elem *list.Element) {
	s.lru.Remove(elem)
	delete(s.items, elem.Value.(*item).key)
}
