package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copybot/godash/internal/domain"
)

// 测试快照信封提取：分类映射到对应端点和子键
func TestFetchCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get_orders":
			w.Write([]byte(`{"pending":[{"name":"acct1","symbol":"AAPL","order_id":"OID1"}],"cancelled":[]}`))
		case "/get_positions":
			w.Write([]byte(`{"open":[{"name":"acct1","symbol":"TSLA","quantity":15}],"closed":null}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)

	rows, err := c.FetchCategory(context.Background(), domain.CategoryPending)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "OID1", rows[0].Field("order_id"))

	rows, err = c.FetchCategory(context.Background(), domain.CategoryOpen)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	// 空数组和 null 子键都返回空切片而不是错误
	rows, err = c.FetchCategory(context.Background(), domain.CategoryCancelled)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = c.FetchCategory(context.Background(), domain.CategoryClosed)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// 测试末尾斜杠规整
func TestNewClientTrimsSlash(t *testing.T) {
	c := NewClient("http://localhost:5000/", 0)
	assert.Equal(t, "http://localhost:5000", c.BaseURL())
}

// 测试错误体提取：结构化 {"error"} 优先，退回原始文本
func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", errorMessage([]byte(`{"error":"boom"}`), "500"))
	assert.Equal(t, "plain failure text", errorMessage([]byte("plain failure text"), "500"))
	assert.Equal(t, "500", errorMessage(nil, "500"))
	// error 字段为空时退回原始体
	assert.Equal(t, `{"error":""}`, errorMessage([]byte(`{"error":""}`), "500"))
}

// 测试批量撤单：请求体形状和响应消息解码
func TestCancelOrders(t *testing.T) {
	var gotBody map[string][]CancelItem
	var gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cancel_order", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		gotRequestID = r.Header.Get("X-Request-ID")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"message":["Order OID1 canceled successfully."]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	msgs, requestID, err := c.CancelOrders(context.Background(), []CancelItem{
		{Name: "acct1", Symbol: "AAPL", OrderID: "OID1"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Order OID1 canceled successfully."}, msgs)

	require.Len(t, gotBody["orders"], 1)
	assert.Equal(t, CancelItem{Name: "acct1", Symbol: "AAPL", OrderID: "OID1"}, gotBody["orders"][0])
	// 返回的请求 ID 就是请求头里的那个，审计记录靠它关联后端日志
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, gotRequestID, requestID)
}

// 测试批量平仓：请求体形状
func TestClosePositions(t *testing.T) {
	var gotBody map[string][]CloseItem
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/close_position", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"message":["Position TSLA closed successfully."]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	msgs, requestID, err := c.ClosePositions(context.Background(), []CloseItem{
		{Name: "acct1", Symbol: "TSLA", Quantity: 15, TransactionType: "SELL"},
	})
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
	assert.NotEmpty(t, requestID)

	require.Len(t, gotBody["positions"], 1)
	assert.Equal(t, int64(15), gotBody["positions"][0].Quantity)
	assert.Equal(t, "SELL", gotBody["positions"][0].TransactionType)
}

// 测试命令失败返回 CommandError，携带后端的结构化错误
func TestCommandError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"broker unavailable"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	_, requestID, err := c.CancelOrders(context.Background(), []CancelItem{{OrderID: "OID1"}})
	require.Error(t, err)
	// 失败的命令同样返回请求 ID，审计记录失败时也要能关联
	assert.NotEmpty(t, requestID)

	var ce *CommandError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "cancel_order", ce.Op)
	assert.Equal(t, "broker unavailable", ce.Message)
}

// 测试拷贝交易开关与状态查询
func TestCopyTrading(t *testing.T) {
	enabled := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/toggle_copy_trading":
			var req struct {
				Enabled bool `json:"enabled"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			enabled = req.Enabled
			w.Write([]byte(`{"message":"Copy Trading Enabled"}`))
		case "/get_copy_trading_status":
			status := "Stopped"
			if enabled {
				status = "Running"
			}
			json.NewEncoder(w).Encode(map[string]string{"status": status})
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)

	running, err := c.FetchCopyStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, running)

	msg, requestID, err := c.ToggleCopyTrading(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "Copy Trading Enabled", msg)
	assert.NotEmpty(t, requestID)

	running, err = c.FetchCopyStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, running)
}

// 测试拷贝交易日志解码
func TestFetchCopyLogs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/get_copy_trading_logs", r.URL.Path)
		w.Write([]byte(`[{"time":"2026-08-30 09:15:00","account":"child1","message":"copied"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	entries, err := c.FetchCopyLogs(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "child1", entries[0].Account)
	assert.False(t, entries[0].ParsedTime().IsZero())
}
