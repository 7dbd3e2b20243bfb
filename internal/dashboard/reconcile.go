package dashboard

import (
	"fmt"

	"github.com/copybot/godash/internal/domain"
)

// Reconcile 将一个分类的新快照与选择状态合并为渲染就绪的行列表。
//
// 对每一行：计算身份键、在渲染时刻读取选择状态（而不是发起取数的时刻，
// 这样取数与渲染之间发生的勾选仍会反映在即将进行的渲染里）、按分类
// 字段列表生成单元格（缺失字段用 N/A 占位）。持仓分类额外计算
// net_profit 的着色分类。
//
// 空快照产出一条跨全列的占位行而不是零行。
//
// 副作用（仅限本分类，绝不跨分类）：刷新最近渲染行缓存；执行防抖清理 ——
// 选中但缺席的键累计未命中，达到阈值才连同行缓存一起清除。
// 只有成功的快照才会走到这里，取数失败不触碰选择状态。
func Reconcile(st *State, cat domain.Category, rows []domain.RowRecord) []domain.RenderRow {
	fields := cat.Fields()

	if len(rows) == 0 {
		out := []domain.RenderRow{{
			Placeholder: true,
			Cells:       []string{fmt.Sprintf("No %s data available", cat)},
		}}
		purgeAbsent(st, cat, nil)
		return out
	}

	present := make(map[string]struct{}, len(rows))
	out := make([]domain.RenderRow, 0, len(rows))

	for _, row := range rows {
		key := domain.RowKey(cat, row)
		present[key] = struct{}{}
		st.CacheRow(key, row)
		st.Selection.ResetMiss(key)

		cells := make([]string, len(fields))
		profit := domain.ProfitNeutral
		for i, field := range fields {
			cells[i] = row.Field(field)
			if field == "net_profit" {
				profit = domain.ClassifyProfit(cells[i])
			}
		}

		out = append(out, domain.RenderRow{
			Key:      key,
			Selected: st.Selection.IsSelected(key),
			Cells:    cells,
			Profit:   profit,
		})
	}

	purgeAbsent(st, cat, present)
	return out
}

// purgeAbsent 对本分类选中但缺席的键执行防抖清理
func purgeAbsent(st *State, cat domain.Category, present map[string]struct{}) {
	prefix := domain.KeyPrefix(cat)
	for _, key := range st.Selection.SelectedKeys(prefix) {
		if _, ok := present[key]; ok {
			continue
		}
		if st.Selection.MarkMiss(key) >= st.PurgeMissThreshold() {
			st.Selection.Purge(key)
			st.ForgetRow(key)
		}
	}
}
