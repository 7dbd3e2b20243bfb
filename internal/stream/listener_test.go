package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// 测试事件分发：更新事件触发回调，未知事件和无法解析的消息跳过，
// PING 收到 PONG 回复
func TestListenerEvents(t *testing.T) {
	pong := make(chan string, 1)
	done := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		// 先验证 PING/PONG，再依次发：无法解析、未知事件、两个更新事件
		if err := conn.WriteMessage(websocket.TextMessage, []byte("PING")); err != nil {
			t.Errorf("write PING: %v", err)
			return
		}
		_, reply, err := conn.ReadMessage()
		if err != nil {
			t.Errorf("read PONG: %v", err)
			return
		}
		pong <- string(reply)

		payloads := []string{
			"not json at all",
			`{"event":"price_changed"}`,
			`{"event":"update_orders"}`,
			`{"event":"update_positions"}`,
		}
		for _, p := range payloads {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(p)); err != nil {
				t.Errorf("write %q: %v", p, err)
				return
			}
		}
		<-done
	}))
	defer srv.Close()
	defer close(done)

	refreshed := make(chan struct{}, 8)
	l := NewListener(Config{
		URL:            wsURL(srv),
		ReconnectDelay: time.Hour, // 本测试不测重连
		ReadTimeout:    time.Second,
	}, func() {
		refreshed <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	select {
	case got := <-pong:
		if got != "PONG" {
			t.Fatalf("PING 应回复 PONG, got %q", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("等待 PONG 超时")
	}

	// 恰好两次刷新：update_orders 和 update_positions
	for i := 0; i < 2; i++ {
		select {
		case <-refreshed:
		case <-time.After(3 * time.Second):
			t.Fatalf("等待第 %d 次刷新超时", i+1)
		}
	}
	select {
	case <-refreshed:
		t.Fatal("未知事件和无法解析的消息不应触发刷新")
	case <-time.After(200 * time.Millisecond):
	}
}

// 测试断线重连：连接被服务端关闭后按间隔重连
func TestListenerReconnect(t *testing.T) {
	var conns int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		atomic.AddInt64(&conns, 1)
		// 立即关闭，迫使监听器走重连路径
		conn.Close()
	}))
	defer srv.Close()

	l := NewListener(Config{
		URL:            wsURL(srv),
		ReconnectDelay: 20 * time.Millisecond,
		ReadTimeout:    time.Second,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	deadline := time.Now().Add(3 * time.Second)
	for atomic.LoadInt64(&conns) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("重连未发生, 连接数 %d", atomic.LoadInt64(&conns))
		}
		time.Sleep(10 * time.Millisecond)
	}
}
