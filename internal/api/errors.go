package api

import (
	"encoding/json"
	"fmt"

	"github.com/copybot/godash/internal/domain"
)

// FetchError 读取快照失败（传输或解析）
// 按分类局部恢复：只替换该分类的表格内容，不影响其他分类和轮询循环
type FetchError struct {
	Category domain.Category
	Message  string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.Category, e.Message)
}

// CommandError 写命令失败（传输、超时或非 2xx）
// 直接通知用户并记录日志，不改动选择状态（用户可以重试）
type CommandError struct {
	Op      string
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// errorMessage 从失败响应体提取错误信息
// 优先尝试结构化的 {"error": ...}，解析失败时退回原始响应体文本
func errorMessage(body []byte, fallback string) string {
	if len(body) == 0 {
		return fallback
	}
	var structured struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &structured); err == nil && structured.Error != "" {
		return structured.Error
	}
	return string(body)
}
