package dashboard

import (
	"sync"

	"github.com/copybot/godash/internal/domain"
)

// DefaultPurgeMissThreshold 选中行连续缺席多少次成功刷新后清理
// 1 次缺席保留（可能只是一次瞬时的空响应），第 2 次清理
const DefaultPurgeMissThreshold = 2

// State UI 控制器持有的显式可变状态：选择注册表、最近渲染的行快照
// 和每分类的取数序列号。由顶层控制器创建并按引用传入协调器与命令构造器，
// 协调逻辑因此可以脱离终端渲染做单元测试。
type State struct {
	Selection *SelectionStore

	mu sync.Mutex
	// rows 协调时捕获的每行最新数据（按身份键），命令构造只读这里，
	// 从不回读已渲染的表格文本
	rows map[string]domain.RowRecord
	// dispatched 每分类最近派发的取数序列号（last-response-wins）
	dispatched map[domain.Category]uint64

	purgeMissThreshold int
}

// NewState 创建仪表盘状态
func NewState(purgeMissThreshold int) *State {
	if purgeMissThreshold < 1 {
		purgeMissThreshold = DefaultPurgeMissThreshold
	}
	return &State{
		Selection:          NewSelectionStore(),
		rows:               make(map[string]domain.RowRecord),
		dispatched:         make(map[domain.Category]uint64),
		purgeMissThreshold: purgeMissThreshold,
	}
}

// PurgeMissThreshold 防抖清理阈值
func (s *State) PurgeMissThreshold() int {
	return s.purgeMissThreshold
}

// NextSeq 为一次取数派发该分类的新序列号（单调递增）
func (s *State) NextSeq(cat domain.Category) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatched[cat]++
	return s.dispatched[cat]
}

// IsLatest 响应是否携带该分类最近派发的序列号
// 落后于最新派发的响应一律丢弃，晚到的陈旧响应不会覆盖新表格
func (s *State) IsLatest(cat domain.Category, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.dispatched[cat]
}

// CacheRow 记录协调时捕获的行数据
func (s *State) CacheRow(key string, row domain.RowRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[key] = row
}

// Row 读取捕获的行数据
func (s *State) Row(key string) (domain.RowRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[key]
	return row, ok
}

// ForgetRow 清除捕获的行数据（选择被清理时同步清除，保持内存有界）
func (s *State) ForgetRow(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, key)
}
