package domain

import "testing"

// 测试行身份键：订单优先用 order_id，持仓退回 symbol，跨分类不冲突
func TestRowKey(t *testing.T) {
	order := RowRecord{"name": "acct1", "symbol": "AAPL", "order_id": "OID1"}
	if got := RowKey(CategoryPending, order); got != "pending_OID1_acct1" {
		t.Errorf("订单键错误: got %q", got)
	}

	position := RowRecord{"name": "acct1", "symbol": "TSLA"}
	if got := RowKey(CategoryOpen, position); got != "open_TSLA_acct1" {
		t.Errorf("持仓键错误: got %q", got)
	}

	// order_id 为 N/A 视为缺失，退回 symbol
	naOrder := RowRecord{"name": "acct2", "symbol": "MSFT", "order_id": NA}
	if got := RowKey(CategoryOthers, naOrder); got != "others_MSFT_acct2" {
		t.Errorf("N/A order_id 应退回 symbol: got %q", got)
	}

	// 同一自然键在不同分类下键不同
	row := RowRecord{"name": "acct1", "symbol": "AAPL"}
	if RowKey(CategoryOpen, row) == RowKey(CategoryClosed, row) {
		t.Error("不同分类不应产生相同的键")
	}
}

// 测试字段展示值：缺失/null 为 N/A，整数浮点不带小数点
func TestRowRecordField(t *testing.T) {
	row := RowRecord{
		"quantity":   float64(15),
		"price":      189.5,
		"status":     "PENDING",
		"buy_avg":    nil,
		"net_profit": -3.2,
	}

	cases := []struct {
		field string
		want  string
	}{
		{"quantity", "15"},
		{"price", "189.5"},
		{"status", "PENDING"},
		{"buy_avg", NA},
		{"sell_avg", NA},
		{"net_profit", "-3.2"},
	}
	for _, c := range cases {
		if got := row.Field(c.field); got != c.want {
			t.Errorf("Field(%q) = %q, want %q", c.field, got, c.want)
		}
	}
}

// 测试数字解析：N/A 和非数字字符串不视为数字
func TestRowRecordDecimal(t *testing.T) {
	row := RowRecord{"quantity": float64(-10), "status": "PENDING", "missing": nil}

	d, ok := row.Decimal("quantity")
	if !ok || d.IntPart() != -10 {
		t.Errorf("quantity 应解析为 -10, got %v ok=%v", d, ok)
	}
	if _, ok := row.Decimal("status"); ok {
		t.Error("非数字字符串不应解析成功")
	}
	if _, ok := row.Decimal("missing"); ok {
		t.Error("null 字段不应解析成功")
	}
	if _, ok := row.Decimal("absent"); ok {
		t.Error("缺失字段不应解析成功")
	}
}

// 测试净盈亏着色分类：非负绿、负红、无法解析不着色
func TestClassifyProfit(t *testing.T) {
	cases := []struct {
		value string
		want  ProfitClass
	}{
		{"125.50", ProfitNonNegative},
		{"0", ProfitNonNegative},
		{"-3.2", ProfitNegative},
		{NA, ProfitNeutral},
		{"", ProfitNeutral},
		{"abc", ProfitNeutral},
	}
	for _, c := range cases {
		if got := ClassifyProfit(c.value); got != c.want {
			t.Errorf("ClassifyProfit(%q) = %v, want %v", c.value, got, c.want)
		}
	}
}

// 测试分类枚举与字段列表
func TestCategory(t *testing.T) {
	if len(AllCategories()) != 7 {
		t.Fatalf("应有 7 个分类, got %d", len(AllCategories()))
	}
	for _, cat := range AllCategories() {
		if !cat.IsValid() {
			t.Errorf("%s 应为合法分类", cat)
		}
		if cat.IsOrder() == cat.IsPosition() {
			t.Errorf("%s 必须恰好属于订单或持仓之一", cat)
		}
	}
	if Category("bogus").IsValid() {
		t.Error("未知分类不应合法")
	}

	if got := len(CategoryPending.Fields()); got != 7 {
		t.Errorf("订单字段应为 7 列, got %d", got)
	}
	if got := len(CategoryOpen.Fields()); got != 6 {
		t.Errorf("持仓字段应为 6 列, got %d", got)
	}
}
