package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/copybot/godash/internal/api"
	"github.com/copybot/godash/internal/domain"
	"github.com/copybot/godash/pkg/logger"
)

// Auditor 命令审计接口（可为 nil）
// requestID 是命令携带的 X-Request-ID，审计记录借此与后端日志关联；
// 写入失败由实现自行记录日志，绝不阻塞 UI
type Auditor interface {
	Record(op, requestID, payload, outcome string, ok bool)
}

// Model 仪表盘应用状态（bubbletea 模型）
// 单线程协作式执行：定时 tick、网络回调、按键事件都在 Update 里交错，
// 可变共享状态（State）只从这里变更
type Model struct {
	client       *api.Client
	state        *State
	auditor      Auditor
	pollInterval time.Duration

	// tables 每分类最近一次协调产出的渲染行
	tables map[domain.Category][]domain.RenderRow
	// cursor 每分类的光标行
	cursor map[domain.Category]int
	// active 当前展示的分类下标（AllCategories 顺序）
	active int

	copyRunning bool
	copyKnown   bool
	copyLogs    []domain.CopyLogEntry
	logsErr     string
	showLogs    bool

	notice      string
	lastRefresh time.Time
	width       int
}

// NewModel 创建仪表盘模型
func NewModel(client *api.Client, st *State, auditor Auditor, pollInterval time.Duration) Model {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return Model{
		client:       client,
		state:        st,
		auditor:      auditor,
		pollInterval: pollInterval,
		tables:       make(map[domain.Category][]domain.RenderRow),
		cursor:       make(map[domain.Category]int),
	}
}

// State 暴露给入口和测试
func (m Model) State() *State { return m.state }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshAllCmd(), tickCmd(m.pollInterval))
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchCmd 为一个分类派发取数：序列号在派发时刻捕获
func (m Model) fetchCmd(cat domain.Category) tea.Cmd {
	seq := m.state.NextSeq(cat)
	client := m.client
	return func() tea.Msg {
		rows, err := client.FetchCategory(context.Background(), cat)
		if err != nil {
			msg := err.Error()
			var fe *api.FetchError
			if errors.As(err, &fe) {
				msg = fe.Message
			}
			return fetchErrMsg{Category: cat, Seq: seq, Message: msg}
		}
		return snapshotMsg{Category: cat, Seq: seq, Rows: rows}
	}
}

func (m Model) copyStatusCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		running, err := client.FetchCopyStatus(context.Background())
		if err != nil {
			return copyStatusMsg{Known: false}
		}
		return copyStatusMsg{Running: running, Known: true}
	}
}

func (m Model) copyLogsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		entries, err := client.FetchCopyLogs(context.Background())
		if err != nil {
			return copyLogsMsg{Err: err.Error()}
		}
		return copyLogsMsg{Entries: entries}
	}
}

// refreshAllCmd 为所有分类派发新取数（新序列号会取代所有在途请求）
func (m Model) refreshAllCmd() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(domain.AllCategories())+1)
	for _, cat := range domain.AllCategories() {
		cmds = append(cmds, m.fetchCmd(cat))
	}
	cmds = append(cmds, m.copyStatusCmd())
	return tea.Batch(cmds...)
}

func (m Model) cancelCmd(items []api.CancelItem, keys []string) tea.Cmd {
	client, auditor := m.client, m.auditor
	return func() tea.Msg {
		msgs, requestID, err := client.CancelOrders(context.Background(), items)
		recordAudit(auditor, "cancel_order", requestID, items, msgs, err)
		return commandDoneMsg{Op: "cancel_order", RequestID: requestID, Messages: msgs, Err: err, ClearKeys: keys}
	}
}

func (m Model) closeCmd(items []api.CloseItem, keys []string) tea.Cmd {
	client, auditor := m.client, m.auditor
	return func() tea.Msg {
		msgs, requestID, err := client.ClosePositions(context.Background(), items)
		recordAudit(auditor, "close_position", requestID, items, msgs, err)
		return commandDoneMsg{Op: "close_position", RequestID: requestID, Messages: msgs, Err: err, ClearKeys: keys}
	}
}

func (m Model) toggleCmd(target bool) tea.Cmd {
	client, auditor := m.client, m.auditor
	return func() tea.Msg {
		message, requestID, err := client.ToggleCopyTrading(context.Background(), target)
		var msgs []string
		if message != "" {
			msgs = []string{message}
		}
		recordAudit(auditor, "toggle_copy_trading", requestID, map[string]bool{"enabled": target}, msgs, err)
		return commandDoneMsg{Op: "toggle_copy_trading", RequestID: requestID, Messages: msgs, Err: err, ToggleTo: &target}
	}
}

func recordAudit(auditor Auditor, op, requestID string, payload any, msgs []string, err error) {
	if auditor == nil {
		return
	}
	raw, _ := json.Marshal(payload)
	outcome := strings.Join(msgs, "\n")
	if err != nil {
		outcome = err.Error()
	}
	auditor.Record(op, requestID, string(raw), outcome, err == nil)
}

func (m Model) activeCategory() domain.Category {
	return domain.AllCategories()[m.active]
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m, tea.Batch(m.refreshAllCmd(), tickCmd(m.pollInterval))

	case RefreshRequestMsg:
		return m, m.refreshAllCmd()

	case snapshotMsg:
		// last-response-wins：只应用该分类最近派发的那次取数
		if !m.state.IsLatest(msg.Category, msg.Seq) {
			logger.Debugf("discard stale snapshot %s seq=%d", msg.Category, msg.Seq)
			return m, nil
		}
		m.tables[msg.Category] = Reconcile(m.state, msg.Category, msg.Rows)
		m.clampCursor(msg.Category)
		m.lastRefresh = time.Now()
		return m, nil

	case fetchErrMsg:
		if !m.state.IsLatest(msg.Category, msg.Seq) {
			return m, nil
		}
		logger.Errorf("fetch %s failed: %s", msg.Category, msg.Message)
		// 只替换该分类的表格，其他分类和轮询循环不受影响
		m.tables[msg.Category] = []domain.RenderRow{{
			Err:   true,
			Cells: []string{"Error fetching " + string(msg.Category) + " data: " + msg.Message},
		}}
		m.clampCursor(msg.Category)
		return m, nil

	case copyStatusMsg:
		m.copyRunning = msg.Running
		m.copyKnown = msg.Known
		return m, nil

	case copyLogsMsg:
		m.copyLogs = msg.Entries
		m.logsErr = msg.Err
		return m, nil

	case commandDoneMsg:
		if msg.Err != nil {
			logger.Errorf("%s failed (request %s): %v", msg.Op, msg.RequestID, msg.Err)
			// 选择保留，用户可以重试
			m.notice = msg.Err.Error()
			return m, nil
		}
		m.notice = strings.Join(msg.Messages, " | ")
		for _, key := range msg.ClearKeys {
			m.state.Selection.Mark(key, false)
			m.state.ForgetRow(key)
		}
		if msg.ToggleTo != nil {
			m.copyRunning = *msg.ToggleTo
			m.copyKnown = true
		}
		// 立即强制刷新，不等下一个 tick
		return m, m.refreshAllCmd()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cats := domain.AllCategories()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		m.active = (m.active + 1) % len(cats)
		m.showLogs = false
		return m, nil

	case "shift+tab":
		m.active = (m.active - 1 + len(cats)) % len(cats)
		m.showLogs = false
		return m, nil

	case "1", "2", "3", "4", "5", "6", "7":
		m.active = int(msg.String()[0] - '1')
		m.showLogs = false
		return m, nil

	case "up", "k":
		cat := m.activeCategory()
		if m.cursor[cat] > 0 {
			m.cursor[cat]--
		}
		return m, nil

	case "down", "j":
		cat := m.activeCategory()
		if m.cursor[cat] < len(m.tables[cat])-1 {
			m.cursor[cat]++
		}
		return m, nil

	case " ":
		return m.toggleSelection(), nil

	case "c":
		items, keys, err := BuildCancelPayload(m.state)
		if errors.Is(err, ErrEmptySelection) {
			m.notice = "No orders selected for cancellation."
			return m, nil
		}
		return m, m.cancelCmd(items, keys)

	case "x":
		items, keys, err := BuildClosePayload(m.state)
		if errors.Is(err, ErrEmptySelection) {
			m.notice = "No positions selected for closing."
			return m, nil
		}
		return m, m.closeCmd(items, keys)

	case "t":
		return m, m.toggleCmd(!m.copyRunning)

	case "l":
		m.showLogs = !m.showLogs
		if m.showLogs {
			return m, m.copyLogsCmd()
		}
		return m, nil

	case "r":
		// 手动刷新：新序列号取代同分类所有在途自动刷新
		return m, m.refreshAllCmd()
	}

	return m, nil
}

// toggleSelection 勾选/取消光标行
// 取数与渲染之间的勾选同样安全：协调器在渲染时刻读取注册表
func (m Model) toggleSelection() Model {
	cat := m.activeCategory()
	rows := m.tables[cat]
	idx := m.cursor[cat]
	if idx < 0 || idx >= len(rows) {
		return m
	}
	row := rows[idx]
	if row.Placeholder || row.Err || row.Key == "" {
		return m
	}
	row.Selected = !row.Selected
	m.state.Selection.Mark(row.Key, row.Selected)
	rows[idx] = row
	return m
}

func (m *Model) clampCursor(cat domain.Category) {
	if m.cursor[cat] >= len(m.tables[cat]) {
		m.cursor[cat] = len(m.tables[cat]) - 1
	}
	if m.cursor[cat] < 0 {
		m.cursor[cat] = 0
	}
}
