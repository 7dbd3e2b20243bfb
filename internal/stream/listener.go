package stream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/copybot/godash/pkg/logger"
)

// 后端在订单/持仓状态变化时推送的事件名
const (
	EventUpdateOrders    = "update_orders"
	EventUpdatePositions = "update_positions"
)

// Config 推送通道配置
type Config struct {
	URL            string        // websocket 地址
	ReconnectDelay time.Duration // 断线重连间隔
	ReadTimeout    time.Duration // 读超时（超时只是继续循环，不算断线）
}

// Listener 订阅后端推送事件的 websocket 监听器
// 收到订单/持仓更新事件时触发回调（回调里通常是给 TUI 发送刷新请求）；
// 刷新仍然走每分类序列号规则，推送与轮询不会交错出陈旧数据
type Listener struct {
	cfg       Config
	onRefresh func()
}

// NewListener 创建监听器，onRefresh 在每个相关事件到达时被调用
func NewListener(cfg Config, onRefresh func()) *Listener {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 5 * time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	return &Listener{cfg: cfg, onRefresh: onRefresh}
}

// Run 阻塞运行直到 ctx 取消，断线自动重连
func (l *Listener) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		l.listenOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(l.cfg.ReconnectDelay):
		}
	}
}

func (l *Listener) listenOnce(ctx context.Context) {
	var dialer websocket.Dialer
	conn, _, err := dialer.DialContext(ctx, l.cfg.URL, nil)
	if err != nil {
		logger.Warnf("stream: connect %s failed: %v", l.cfg.URL, err)
		return
	}
	defer conn.Close()
	logger.Infof("stream: connected to %s", l.cfg.URL)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// 设置读取超时，避免阻塞
		_ = conn.SetReadDeadline(time.Now().Add(l.cfg.ReadTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if netErr, ok := err.(interface{ Timeout() bool }); ok && netErr.Timeout() {
				continue
			}
			logger.Warnf("stream: read failed: %v", err)
			return
		}

		// 处理 PING/PONG 消息
		msgStr := string(message)
		if msgStr == "PING" {
			if err := conn.WriteMessage(websocket.TextMessage, []byte("PONG")); err != nil {
				logger.Warnf("stream: reply PONG failed: %v", err)
			}
			continue
		}
		if msgStr == "PONG" {
			continue
		}

		var event struct {
			Event string `json:"event"`
		}
		if err := json.Unmarshal(message, &event); err != nil {
			logger.Debugf("stream: skip unparsable message: %v", err)
			continue
		}

		switch event.Event {
		case EventUpdateOrders, EventUpdatePositions:
			if l.onRefresh != nil {
				l.onRefresh()
			}
		}
	}
}
