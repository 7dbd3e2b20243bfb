package api

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// DefaultCommandTimeout 写命令的默认超时（区别于不限时的后台轮询读取）
const DefaultCommandTimeout = 15 * time.Second

// Client 仪表盘后端 HTTP 客户端
// 读取（快照轮询）不设超时并允许重试；写命令（撤单/平仓/开关）
// 带限时且不重试，超时与网络错误同等对待
type Client struct {
	read *resty.Client
	cmd  *resty.Client

	commandTimeout time.Duration
}

// NewClient 创建后端客户端，baseURL 末尾斜杠会被去除
// resty 会自动从环境变量读取代理配置（HTTP_PROXY / HTTPS_PROXY）
func NewClient(baseURL string, commandTimeout time.Duration) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if commandTimeout <= 0 {
		commandTimeout = DefaultCommandTimeout
	}

	read := resty.New().
		SetBaseURL(baseURL).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	// 命令不重试：cancel/close 不是幂等操作
	cmd := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(commandTimeout)

	return &Client{
		read:           read,
		cmd:            cmd,
		commandTimeout: commandTimeout,
	}
}

// BaseURL 返回规整后的后端地址
func (c *Client) BaseURL() string {
	return c.read.BaseURL
}

func (c *Client) newRead(ctx context.Context) *resty.Request {
	r := c.read.R()
	if ctx != nil {
		r.SetContext(ctx)
	}
	r.SetHeader("Accept", "application/json")
	return r
}

// newCommand 每个命令请求带一个 X-Request-ID，便于在后端日志中关联
func (c *Client) newCommand(ctx context.Context) (*resty.Request, string) {
	r := c.cmd.R()
	if ctx != nil {
		r.SetContext(ctx)
	}
	requestID := uuid.NewString()
	r.SetHeader("Accept", "application/json")
	r.SetHeader("Content-Type", "application/json")
	r.SetHeader("X-Request-ID", requestID)
	return r, requestID
}
