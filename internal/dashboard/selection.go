package dashboard

import (
	"sort"
	"strings"
	"sync"
)

// SelectionStore 行选择注册表：行身份键 -> 选中
// 整个会话期间存活，跨快照刷新保留；每个键至多一条记录，
// 取消选中即删除（不保留 false 记录），内存因此有界。
//
// 所有变更都来自 UI 事件循环（bubbletea Update），顺序天然正确；
// 加锁只是为了让流监听 goroutine 能安全读取 Len。
type SelectionStore struct {
	mu sync.Mutex
	// entries 键存在即选中，值为连续未命中次数（用于防抖清理）
	entries map[string]int
}

// NewSelectionStore 创建空的选择注册表
func NewSelectionStore() *SelectionStore {
	return &SelectionStore{entries: make(map[string]int)}
}

// Mark 标记选中状态；selected 为 false 时删除记录
func (s *SelectionStore) Mark(key string, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if selected {
		s.entries[key] = 0
		return
	}
	delete(s.entries, key)
}

// IsSelected 查询键是否被选中
func (s *SelectionStore) IsSelected(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

// SelectedKeys 返回带指定前缀的全部选中键（排序保证输出稳定）
// prefix 为空返回全部
func (s *SelectionStore) SelectedKeys(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Len 当前选中数量
func (s *SelectionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// ResetMiss 键在新快照中出现，清零未命中计数
func (s *SelectionStore) ResetMiss(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; ok {
		s.entries[key] = 0
	}
}

// MarkMiss 键在一次成功刷新中缺席，递增并返回未命中计数
// 键未被选中时返回 0
func (s *SelectionStore) MarkMiss(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return 0
	}
	s.entries[key]++
	return s.entries[key]
}

// Purge 删除选择记录（防抖清理到达阈值时调用）
func (s *SelectionStore) Purge(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}
