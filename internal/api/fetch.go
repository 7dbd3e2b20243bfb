package api

import (
	"context"
	"encoding/json"

	"github.com/copybot/godash/internal/domain"
)

const (
	endpointOrders     = "/get_orders"
	endpointPositions  = "/get_positions"
	endpointCopyStatus = "/get_copy_trading_status"
	endpointCopyLogs   = "/get_copy_trading_logs"
)

// FetchCategory 拉取一个分类的快照
// 分类映射到订单或持仓端点，并从 JSON 信封中提取对应子键；
// 子键缺失或为空数组返回空切片而不是错误（渲染层负责显示占位行）
// 本方法不触碰选择状态
func (c *Client) FetchCategory(ctx context.Context, cat domain.Category) ([]domain.RowRecord, error) {
	endpoint := endpointOrders
	if cat.IsPosition() {
		endpoint = endpointPositions
	}

	resp, err := c.newRead(ctx).Get(endpoint)
	if err != nil {
		return nil, &FetchError{Category: cat, Message: err.Error()}
	}
	if resp.IsError() {
		return nil, &FetchError{Category: cat, Message: errorMessage(resp.Body(), resp.Status())}
	}

	var envelope map[string][]domain.RowRecord
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, &FetchError{Category: cat, Message: "invalid response: " + err.Error()}
	}

	rows := envelope[string(cat)]
	if rows == nil {
		rows = []domain.RowRecord{}
	}
	return rows, nil
}

// FetchCopyStatus 查询拷贝交易引擎是否在运行
func (c *Client) FetchCopyStatus(ctx context.Context) (bool, error) {
	resp, err := c.newRead(ctx).Get(endpointCopyStatus)
	if err != nil {
		return false, &FetchError{Category: "", Message: err.Error()}
	}
	if resp.IsError() {
		return false, &FetchError{Category: "", Message: errorMessage(resp.Body(), resp.Status())}
	}

	var status struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body(), &status); err != nil {
		return false, &FetchError{Category: "", Message: "invalid response: " + err.Error()}
	}
	return status.Status == "Running", nil
}

// FetchCopyLogs 拉取拷贝交易日志
func (c *Client) FetchCopyLogs(ctx context.Context) ([]domain.CopyLogEntry, error) {
	resp, err := c.newRead(ctx).Get(endpointCopyLogs)
	if err != nil {
		return nil, &FetchError{Category: "", Message: err.Error()}
	}
	if resp.IsError() {
		return nil, &FetchError{Category: "", Message: errorMessage(resp.Body(), resp.Status())}
	}

	var entries []domain.CopyLogEntry
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, &FetchError{Category: "", Message: "invalid response: " + err.Error()}
	}
	return entries, nil
}
