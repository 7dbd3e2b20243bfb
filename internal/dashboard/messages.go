package dashboard

import (
	"time"

	"github.com/copybot/godash/internal/domain"
)

// tickMsg 定时器消息，驱动一轮全分类刷新
type tickMsg time.Time

// snapshotMsg 一个分类的快照取数成功
// Seq 是派发时刻捕获的该分类序列号，落后于最新派发的响应会被丢弃
type snapshotMsg struct {
	Category domain.Category
	Seq      uint64
	Rows     []domain.RowRecord
}

// fetchErrMsg 一个分类的快照取数失败
type fetchErrMsg struct {
	Category domain.Category
	Seq      uint64
	Message  string
}

// copyStatusMsg 拷贝交易引擎运行状态
type copyStatusMsg struct {
	Running bool
	Known   bool // 查询失败时为 false，界面显示 unknown
}

// copyLogsMsg 拷贝交易日志拉取结果
type copyLogsMsg struct {
	Entries []domain.CopyLogEntry
	Err     string
}

// commandDoneMsg 写命令（撤单/平仓/开关）完成
type commandDoneMsg struct {
	Op string
	// RequestID 命令携带的 X-Request-ID，失败日志和审计记录用它关联后端日志
	RequestID string
	Messages  []string // 后端逐项结果，拼接后展示
	Err       error
	// ClearKeys 命令成功后要清除的选择键
	ClearKeys []string
	// ToggleTo 开关命令成功后的新状态（仅 toggle 使用）
	ToggleTo *bool
}

// RefreshRequestMsg 外部（推送通道或测试）请求立即刷新
// 同样走序列号规则，推送与轮询不会交错出陈旧数据
type RefreshRequestMsg struct{}
