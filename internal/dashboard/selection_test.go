package dashboard

import "testing"

// 测试选择注册表的基本语义：取消选中即删除，不保留 false 记录
func TestSelectionStoreMark(t *testing.T) {
	s := NewSelectionStore()

	s.Mark("pending_OID1_acct1", true)
	if !s.IsSelected("pending_OID1_acct1") {
		t.Fatal("标记后应为选中")
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}

	s.Mark("pending_OID1_acct1", false)
	if s.IsSelected("pending_OID1_acct1") {
		t.Fatal("取消标记后不应选中")
	}
	if s.Len() != 0 {
		t.Fatalf("取消选中应删除记录, Len = %d", s.Len())
	}

	// 重复取消选中是无害的
	s.Mark("pending_OID1_acct1", false)
	if s.Len() != 0 {
		t.Fatal("重复取消选中不应产生记录")
	}
}

// 测试按前缀过滤选中键：输出排序稳定，前缀把清理范围限定在单个分类
func TestSelectionStoreSelectedKeys(t *testing.T) {
	s := NewSelectionStore()
	s.Mark("pending_OID2_acct2", true)
	s.Mark("pending_OID1_acct1", true)
	s.Mark("open_TSLA_acct1", true)

	keys := s.SelectedKeys("pending_")
	if len(keys) != 2 {
		t.Fatalf("pending 前缀应匹配 2 个键, got %v", keys)
	}
	if keys[0] != "pending_OID1_acct1" || keys[1] != "pending_OID2_acct2" {
		t.Errorf("键应按字典序排序, got %v", keys)
	}

	if got := len(s.SelectedKeys("")); got != 3 {
		t.Errorf("空前缀应返回全部, got %d", got)
	}
	if got := len(s.SelectedKeys("closed_")); got != 0 {
		t.Errorf("无匹配前缀应返回空, got %d", got)
	}
}

// 测试未命中计数：出现即清零，缺席递增，未选中的键计数恒为 0
func TestSelectionStoreMiss(t *testing.T) {
	s := NewSelectionStore()
	s.Mark("open_TSLA_acct1", true)

	if got := s.MarkMiss("open_TSLA_acct1"); got != 1 {
		t.Fatalf("第一次缺席计数应为 1, got %d", got)
	}
	if got := s.MarkMiss("open_TSLA_acct1"); got != 2 {
		t.Fatalf("第二次缺席计数应为 2, got %d", got)
	}

	s.ResetMiss("open_TSLA_acct1")
	if got := s.MarkMiss("open_TSLA_acct1"); got != 1 {
		t.Fatalf("清零后计数应重新从 1 开始, got %d", got)
	}

	if got := s.MarkMiss("never_selected"); got != 0 {
		t.Fatalf("未选中的键计数应为 0, got %d", got)
	}
	if s.IsSelected("never_selected") {
		t.Fatal("MarkMiss 不应创建选择记录")
	}

	s.Purge("open_TSLA_acct1")
	if s.IsSelected("open_TSLA_acct1") {
		t.Fatal("Purge 后不应选中")
	}
}
