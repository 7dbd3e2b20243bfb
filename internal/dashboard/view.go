package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/copybot/godash/internal/domain"
)

var (
	// 样式定义
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("238")).
			Padding(0, 1)

	colHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	profitUpStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("2")) // 绿色

	profitDownStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("1")) // 红色

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238"))
)

func (m Model) View() string {
	var s strings.Builder

	// 头部：后端地址、拷贝交易状态、最近刷新、选中数量
	copyState := "unknown"
	if m.copyKnown {
		copyState = "Stopped"
		if m.copyRunning {
			copyState = "Running"
		}
	}
	refreshed := "never"
	if !m.lastRefresh.IsZero() {
		refreshed = m.lastRefresh.Format("15:04:05")
	}
	header := headerStyle.Render(fmt.Sprintf(
		"%s | Copy Trading: %s | Refreshed: %s | Selected: %d",
		m.client.BaseURL(), copyState, refreshed, m.state.Selection.Len(),
	))
	s.WriteString(header)
	s.WriteString("\n\n")

	if m.showLogs {
		s.WriteString(m.viewLogs())
	} else {
		s.WriteString(m.viewTabs())
		s.WriteString("\n")
		s.WriteString(m.viewTable())
	}
	s.WriteString("\n")

	if m.notice != "" {
		s.WriteString(noticeStyle.Render(m.notice))
		s.WriteString("\n")
	}

	s.WriteString(mutedStyle.Render(
		"tab/1-7 切换  space 勾选  c 批量撤单  x 批量平仓  t 拷贝交易开关  l 日志  r 刷新  q 退出",
	))
	s.WriteString("\n")

	return s.String()
}

func (m Model) viewTabs() string {
	parts := make([]string, 0, len(domain.AllCategories()))
	for i, cat := range domain.AllCategories() {
		label := fmt.Sprintf("%d:%s", i+1, cat)
		if i == m.active {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) viewTable() string {
	cat := m.activeCategory()
	fields := cat.Fields()
	rows := m.tables[cat]

	var s strings.Builder
	s.WriteString(colHeaderStyle.Render(cat.Title()))
	s.WriteString("\n")

	// 列宽：表头和单元格取最大，按显示宽度而不是字节数（宽字符占两列）
	widths := make([]int, len(fields))
	for i, f := range fields {
		widths[i] = lipgloss.Width(f)
	}
	for _, row := range rows {
		if row.Placeholder || row.Err {
			continue
		}
		for i, cell := range row.Cells {
			if w := lipgloss.Width(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}

	// 表头行
	s.WriteString("      ")
	for i, f := range fields {
		s.WriteString(colHeaderStyle.Render(pad(f, widths[i])))
		s.WriteString("  ")
	}
	s.WriteString("\n")

	if len(rows) == 0 {
		s.WriteString(mutedStyle.Render("  loading..."))
		s.WriteString("\n")
		return borderStyle.Render(s.String())
	}

	cursor := m.cursor[cat]
	for idx, row := range rows {
		prefix := "  "
		if idx == cursor {
			prefix = cursorStyle.Render("> ")
		}

		if row.Placeholder {
			s.WriteString(prefix + mutedStyle.Render(row.Cells[0]) + "\n")
			continue
		}
		if row.Err {
			s.WriteString(prefix + errorStyle.Render(row.Cells[0]) + "\n")
			continue
		}

		check := "[ ]"
		if row.Selected {
			check = "[x]"
		}
		s.WriteString(prefix + check + " ")
		for i, cell := range row.Cells {
			text := pad(cell, widths[i])
			if fields[i] == "net_profit" {
				switch row.Profit {
				case domain.ProfitNonNegative:
					text = profitUpStyle.Render(text)
				case domain.ProfitNegative:
					text = profitDownStyle.Render(text)
				}
			}
			s.WriteString(text)
			s.WriteString("  ")
		}
		s.WriteString("\n")
	}

	return borderStyle.Render(s.String())
}

func (m Model) viewLogs() string {
	var s strings.Builder
	s.WriteString(colHeaderStyle.Render("Copy Trading Logs"))
	s.WriteString("\n")

	if m.logsErr != "" {
		s.WriteString(errorStyle.Render("Error fetching logs: " + m.logsErr))
		s.WriteString("\n")
		return borderStyle.Render(s.String())
	}
	if len(m.copyLogs) == 0 {
		s.WriteString(mutedStyle.Render("No copy trading logs available"))
		s.WriteString("\n")
		return borderStyle.Render(s.String())
	}
	for _, entry := range m.copyLogs {
		s.WriteString(fmt.Sprintf("%s  %-12s  %s\n", entry.Time, entry.Account, entry.Message))
	}
	return borderStyle.Render(s.String())
}

func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
