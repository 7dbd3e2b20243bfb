package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// 轮询间隔的允许范围；各来源的观测值在 1s 和 5s 之间摇摆，
// 因此做成配置并按后端负载容忍度钳制
const (
	DefaultPollInterval = 2 * time.Second
	MinPollInterval     = 1 * time.Second
	MaxPollInterval     = 60 * time.Second

	DefaultCommandTimeout     = 15 * time.Second
	DefaultPurgeMissThreshold = 2
)

// StreamConfig 推送通道配置（可选的 websocket 即时刷新）
type StreamConfig struct {
	Enabled        bool          // 是否启用
	URL            string        // websocket 地址，为空则从 BaseURL 推导
	ReconnectDelay time.Duration // 断线重连间隔
}

// AuditConfig 命令审计日志配置
type AuditConfig struct {
	DBPath string // sqlite 文件路径，为空则关闭审计
}

// Config 应用配置
type Config struct {
	BaseURL            string        // 后端基础地址（所有端点相对于它）
	PollInterval       time.Duration // 快照轮询周期
	CommandTimeout     time.Duration // 写命令超时
	PurgeMissThreshold int           // 选中行缺席多少次成功刷新后清理
	LogLevel           string        // 日志级别
	LogFile            string        // 日志文件路径
	Stream             StreamConfig
	Audit              AuditConfig
}

// configFile 配置文件结构（YAML）
type configFile struct {
	BaseURL            string `yaml:"base_url"`
	PollInterval       string `yaml:"poll_interval"`        // 例如 "2s"
	CommandTimeout     string `yaml:"command_timeout"`      // 例如 "15s"
	PurgeMissThreshold int    `yaml:"purge_miss_threshold"` // 默认 2
	LogLevel           string `yaml:"log_level"`
	LogFile            string `yaml:"log_file"`
	Stream struct {
		// Enabled 用指针区分"未写"和显式 false：只有文件里真写了
		// 这个键才覆盖环境变量
		Enabled        *bool  `yaml:"enabled"`
		URL            string `yaml:"url"`
		ReconnectDelay string `yaml:"reconnect_delay"`
	} `yaml:"stream"`
	Audit struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"audit"`
}

// Load 加载配置
// 优先级：配置文件 > 环境变量 > 默认值；filePath 为空或文件不存在时只用环境变量
func Load(filePath string) (*Config, error) {
	var cf *configFile
	if filePath != "" {
		if _, err := os.Stat(filePath); err == nil {
			loaded, err := loadConfigFile(filePath)
			if err != nil {
				return nil, fmt.Errorf("加载配置文件失败 %s: %w", filePath, err)
			}
			cf = loaded
		}
	}

	cfg := &Config{
		BaseURL:            stringValue(cf != nil, safeString(cf, func(cf *configFile) string { return cf.BaseURL }), getEnv("GODASH_BASE_URL", "")),
		PollInterval:       durationValue(safeString(cf, func(cf *configFile) string { return cf.PollInterval }), parseDurationEnv("GODASH_POLL_INTERVAL", DefaultPollInterval)),
		CommandTimeout:     durationValue(safeString(cf, func(cf *configFile) string { return cf.CommandTimeout }), parseDurationEnv("GODASH_COMMAND_TIMEOUT", DefaultCommandTimeout)),
		PurgeMissThreshold: intValue(safeInt(cf, func(cf *configFile) int { return cf.PurgeMissThreshold }), parseIntEnv("GODASH_PURGE_MISS_THRESHOLD", DefaultPurgeMissThreshold)),
		LogLevel:           stringValue(cf != nil, safeString(cf, func(cf *configFile) string { return cf.LogLevel }), getEnv("GODASH_LOG_LEVEL", "info")),
		LogFile:            stringValue(cf != nil, safeString(cf, func(cf *configFile) string { return cf.LogFile }), getEnv("GODASH_LOG_FILE", filepath.Join("logs", "godash.log"))),
		Stream: StreamConfig{
			Enabled:        boolValue(safeBoolPtr(cf, func(cf *configFile) *bool { return cf.Stream.Enabled }), parseBoolEnv("GODASH_STREAM_ENABLED", false)),
			URL:            stringValue(cf != nil, safeString(cf, func(cf *configFile) string { return cf.Stream.URL }), getEnv("GODASH_STREAM_URL", "")),
			ReconnectDelay: durationValue(safeString(cf, func(cf *configFile) string { return cf.Stream.ReconnectDelay }), 5*time.Second),
		},
		Audit: AuditConfig{
			DBPath: stringValue(cf != nil, safeString(cf, func(cf *configFile) string { return cf.Audit.DBPath }), getEnv("GODASH_AUDIT_DB", "")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	// 钳制轮询周期，保护后端
	if cfg.PollInterval < MinPollInterval {
		cfg.PollInterval = MinPollInterval
	}
	if cfg.PollInterval > MaxPollInterval {
		cfg.PollInterval = MaxPollInterval
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = DefaultCommandTimeout
	}
	if cfg.PurgeMissThreshold < 1 {
		cfg.PurgeMissThreshold = DefaultPurgeMissThreshold
	}

	return cfg, nil
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("GODASH_BASE_URL 未配置")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("GODASH_BASE_URL 不是合法的 http(s) 地址: %s", c.BaseURL)
	}
	return nil
}

// StreamURL 推送通道地址：显式配置优先，否则从 BaseURL 推导（http->ws）
func (c *Config) StreamURL() string {
	if c.Stream.URL != "" {
		return c.Stream.URL
	}
	base := strings.TrimSuffix(c.BaseURL, "/")
	base = strings.Replace(base, "https://", "wss://", 1)
	base = strings.Replace(base, "http://", "ws://", 1)
	return base + "/stream"
}

// loadConfigFile 加载 YAML 配置文件
func loadConfigFile(filePath string) (*configFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("解析 YAML 配置文件失败: %w", err)
	}
	return &cf, nil
}

// stringValue 配置文件非空值优先，否则用环境变量/默认值
func stringValue(hasConfig bool, configValue, envValue string) string {
	if hasConfig && configValue != "" {
		return configValue
	}
	return envValue
}

// intValue 配置文件正值优先
func intValue(configValue, envValue int) int {
	if configValue > 0 {
		return configValue
	}
	return envValue
}

// boolValue 配置文件显式写了该键才优先，否则用环境变量/默认值
func boolValue(configValue *bool, envValue bool) bool {
	if configValue != nil {
		return *configValue
	}
	return envValue
}

// durationValue 配置文件的合法时长优先
func durationValue(configValue string, envValue time.Duration) time.Duration {
	if configValue != "" {
		if d, err := time.ParseDuration(configValue); err == nil && d > 0 {
			return d
		}
	}
	return envValue
}

func safeString(cf *configFile, getter func(*configFile) string) string {
	if cf == nil {
		return ""
	}
	return getter(cf)
}

func safeInt(cf *configFile, getter func(*configFile) int) int {
	if cf == nil {
		return 0
	}
	return getter(cf)
}

func safeBoolPtr(cf *configFile, getter func(*configFile) *bool) *bool {
	if cf == nil {
		return nil
	}
	return getter(cf)
}

// getEnv 获取环境变量，不存在则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv 解析整数环境变量
func parseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// parseBoolEnv 解析布尔环境变量
func parseBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// parseDurationEnv 解析时长环境变量（支持 "2s" 或纯秒数 "2"）
func parseDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
