package dashboard

import (
	"errors"

	"github.com/copybot/godash/internal/api"
	"github.com/copybot/godash/internal/domain"
	"github.com/copybot/godash/pkg/logger"
)

// ErrEmptySelection 用户在没有任何选中行的情况下触发了动作
// 在本地短路处理，不产生任何网络调用
var ErrEmptySelection = errors.New("empty selection")

// BuildCancelPayload 把订单类分类中的选中行翻译为批量撤单载荷。
// 字段取自协调时捕获的行快照，返回载荷和对应的身份键列表
// （命令成功后用于清除这些选择）。
func BuildCancelPayload(st *State) ([]api.CancelItem, []string, error) {
	var items []api.CancelItem
	var keys []string

	for _, cat := range domain.AllCategories() {
		if !cat.IsOrder() {
			continue
		}
		for _, key := range st.Selection.SelectedKeys(domain.KeyPrefix(cat)) {
			row, ok := st.Row(key)
			if !ok {
				// 选择存在但行快照尚未捕获（还没有成功渲染过），跳过
				logger.Warnf("cancel: no captured row for %s, skipping", key)
				continue
			}
			items = append(items, api.CancelItem{
				Name:    row.Field("name"),
				Symbol:  row.Field("symbol"),
				OrderID: row.Field("order_id"),
			})
			keys = append(keys, key)
		}
	}

	if len(items) == 0 {
		return nil, nil, ErrEmptySelection
	}
	return items, keys, nil
}

// BuildClosePayload 把 open 持仓分类中的选中行翻译为批量平仓载荷。
// 数量取绝对值；方向由捕获的 quantity 符号导出（正持仓 SELL、负持仓 BUY），
// 而不是任何单独的方向字段。数量为零或无法解析的行跳过。
func BuildClosePayload(st *State) ([]api.CloseItem, []string, error) {
	var items []api.CloseItem
	var keys []string

	for _, key := range st.Selection.SelectedKeys(domain.KeyPrefix(domain.CategoryOpen)) {
		row, ok := st.Row(key)
		if !ok {
			logger.Warnf("close: no captured row for %s, skipping", key)
			continue
		}
		qty, ok := row.Decimal("quantity")
		if !ok || qty.IsZero() {
			logger.Warnf("close: unusable quantity %q for %s, skipping", row.Field("quantity"), key)
			continue
		}

		side := "SELL"
		if qty.Sign() < 0 {
			side = "BUY"
		}
		items = append(items, api.CloseItem{
			Name:            row.Field("name"),
			Symbol:          row.Field("symbol"),
			Quantity:        qty.Abs().IntPart(),
			TransactionType: side,
		})
		keys = append(keys, key)
	}

	if len(items) == 0 {
		return nil, nil, ErrEmptySelection
	}
	return items, keys, nil
}
