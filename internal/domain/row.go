package domain

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// NA 缺失字段的展示占位值
const NA = "N/A"

// RowRecord 后端返回的一行记录：字段名 -> 值（字符串、数字或缺失）
// JSON 解码后数字统一为 float64，缺失/null 字段展示为 NA
type RowRecord map[string]any

// Field 获取字段的展示值，缺失或 null 返回 NA
func (r RowRecord) Field(name string) string {
	v, ok := r[name]
	if !ok || v == nil {
		return NA
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// 整数值不带小数点展示（15.0 -> "15"）
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatFloat(t, 'f', 0, 64)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}

// Decimal 按数字解析字段，缺失或无法解析时 ok 为 false
// NA 占位值不视为数字
func (r RowRecord) Decimal(name string) (decimal.Decimal, bool) {
	s := r.Field(name)
	if s == NA || s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// RowKey 行身份键：分类 + 最具体的自然键 + 账户名
// 优先使用 order_id（持仓没有），否则退回 symbol；同分类内连续快照中
// 代表同一逻辑订单/持仓的行必须得到相同的键，跨分类即使自然键相同也不同
func RowKey(cat Category, row RowRecord) string {
	id := row.Field("order_id")
	if id == NA || id == "" {
		id = row.Field("symbol")
	}
	return string(cat) + "_" + id + "_" + row.Field("name")
}

// KeyPrefix 分类在行身份键中的前缀
func KeyPrefix(cat Category) string {
	return string(cat) + "_"
}

// ProfitClass 净盈亏的展示分类（仅用于表现层着色）
type ProfitClass int

const (
	// ProfitNeutral 无法按数字解析，不着色
	ProfitNeutral ProfitClass = iota
	// ProfitNonNegative 非负
	ProfitNonNegative
	// ProfitNegative 负
	ProfitNegative
)

// ClassifyProfit 根据原始值的数字解析结果分类
func ClassifyProfit(value string) ProfitClass {
	if value == NA || value == "" {
		return ProfitNeutral
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return ProfitNeutral
	}
	if d.Sign() < 0 {
		return ProfitNegative
	}
	return ProfitNonNegative
}

// RenderRow 渲染就绪的一行：身份键、选中状态、按字段列表排好的单元格
type RenderRow struct {
	Key      string
	Selected bool
	Cells    []string
	Profit   ProfitClass

	// Placeholder 为 true 时该行是跨全列的"无数据"占位行
	Placeholder bool
	// Err 为 true 时该行是跨全列的错误行
	Err bool
}

// CopyLogEntry 拷贝交易引擎的一条日志
type CopyLogEntry struct {
	Time    string `json:"time"`
	Account string `json:"account"`
	Message string `json:"message"`
}

// ParsedTime 尽力解析日志时间，失败返回零值
func (e CopyLogEntry) ParsedTime() time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, e.Time); err == nil {
			return t
		}
	}
	return time.Time{}
}
