package dashboard

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// 测试补齐按显示宽度计算：宽字符占两列，不能按字节数补
func TestPadDisplayWidth(t *testing.T) {
	cases := []struct {
		in    string
		width int
	}{
		{"AAPL", 8},
		{"账户一", 8}, // 3 字 6 列 9 字节
		{"净利-3.2", 10},
		{"exact", 5},
	}
	for _, c := range cases {
		got := pad(c.in, c.width)
		if w := lipgloss.Width(got); w != c.width {
			t.Errorf("pad(%q, %d) 显示宽度 = %d", c.in, c.width, w)
		}
	}

	// 超宽的值原样返回
	if got := pad("toolongvalue", 4); got != "toolongvalue" {
		t.Errorf("超宽值不应截断或补齐: %q", got)
	}
}
