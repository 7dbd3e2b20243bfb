package api

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

const (
	endpointCancelOrder   = "/cancel_order"
	endpointClosePosition = "/close_position"
	endpointToggleCopy    = "/toggle_copy_trading"
)

// CancelItem 批量撤单请求中的一项
type CancelItem struct {
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	OrderID string `json:"order_id"`
}

// CloseItem 批量平仓请求中的一项
// Quantity 恒为正，方向由 TransactionType（SELL/BUY）表达
type CloseItem struct {
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	Quantity        int64  `json:"quantity"`
	TransactionType string `json:"transaction_type"`
}

// batchResponse 批量命令的响应：每项一条人类可读的结果
type batchResponse struct {
	Message []string `json:"message"`
}

// CancelOrders 批量撤单，返回后端逐项结果消息和本次请求的 X-Request-ID
// （审计日志记录该 ID，便于与后端日志关联）
func (c *Client) CancelOrders(ctx context.Context, items []CancelItem) ([]string, string, error) {
	return c.postBatch(ctx, "cancel_order", endpointCancelOrder, map[string]any{"orders": items})
}

// ClosePositions 批量平仓，返回后端逐项结果消息和本次请求的 X-Request-ID
func (c *Client) ClosePositions(ctx context.Context, items []CloseItem) ([]string, string, error) {
	return c.postBatch(ctx, "close_position", endpointClosePosition, map[string]any{"positions": items})
}

func (c *Client) postBatch(ctx context.Context, op, endpoint string, body any) ([]string, string, error) {
	req, requestID := c.newCommand(ctx)
	resp, err := req.SetBody(body).Post(endpoint)
	if err != nil {
		// 超时与网络错误同等对待
		return nil, requestID, &CommandError{Op: op, Message: err.Error()}
	}
	if resp.IsError() {
		return nil, requestID, &CommandError{Op: op, Message: errorMessage(resp.Body(), resp.Status())}
	}

	var br batchResponse
	if err := json.Unmarshal(resp.Body(), &br); err != nil {
		return nil, requestID, &CommandError{Op: op, Message: errors.Wrap(err, "invalid response").Error()}
	}
	return br.Message, requestID, nil
}

// ToggleCopyTrading 切换拷贝交易开关，返回后端的状态消息和本次请求的 X-Request-ID
func (c *Client) ToggleCopyTrading(ctx context.Context, enabled bool) (string, string, error) {
	req, requestID := c.newCommand(ctx)
	resp, err := req.SetBody(map[string]bool{"enabled": enabled}).Post(endpointToggleCopy)
	if err != nil {
		return "", requestID, &CommandError{Op: "toggle_copy_trading", Message: err.Error()}
	}
	if resp.IsError() {
		return "", requestID, &CommandError{Op: "toggle_copy_trading", Message: errorMessage(resp.Body(), resp.Status())}
	}

	var tr struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &tr); err != nil {
		return "", requestID, &CommandError{Op: "toggle_copy_trading", Message: errors.Wrap(err, "invalid response").Error()}
	}
	return tr.Message, requestID, nil
}
