package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Demo      DemoConfig      `mapstructure:"demo"`
	Budget    BudgetConfig    `mapstructure:"budget"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	SendGrid  SendGridConfig  `mapstructure:"sendgrid"`
	Google    GoogleConfig    `mapstructure:"google"`
	Auth      AuthConfig      `mapstructure:"auth"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"` // debug, release, test
	ReadTimeout    int      `mapstructure:"read_timeout"`
	WriteTimeout   int      `mapstructure:"write_timeout"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig 数据库配置
// driver 为 sqlite 时仅使用 path；为 postgres 时使用主机连接参数
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // sqlite, postgres
	Path            string `mapstructure:"path"`   // sqlite 数据库文件路径
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, /path/to/log
}

// RateLimitConfig 接口限流配置
type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`   // 窗口内最大请求数
	WindowSeconds int `mapstructure:"window_seconds"` // 窗口长度（秒）
}

// DemoConfig 演示门户配置
type DemoConfig struct {
	SessionDurationMinutes int `mapstructure:"session_duration_minutes"` // 演示会话有效期
	RetentionDays          int `mapstructure:"retention_days"`           // 会话数据保留天数
	MaxWorkflowSteps       int `mapstructure:"max_workflow_steps"`       // 工作流节点数上限
	MaxExecutionTimeMs     int `mapstructure:"max_execution_time_ms"`    // 预留字段，引擎当前未强制执行
}

// SessionDuration 会话有效期
func (c *DemoConfig) SessionDuration() time.Duration {
	return time.Duration(c.SessionDurationMinutes) * time.Minute
}

// BudgetConfig 付费 API 预算配置
type BudgetConfig struct {
	OpenAIMonthlyUSD   float64 `mapstructure:"openai_monthly_usd"`   // OpenAI 月度预算（美元）
	SendGridDailyLimit int     `mapstructure:"sendgrid_daily_limit"` // SendGrid 每日发送上限
}

// OpenAIConfig OpenAI 配置
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// SendGridConfig SendGrid 配置
type SendGridConfig struct {
	APIKey    string `mapstructure:"api_key"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

// GoogleConfig Google Calendar OAuth 配置
type GoogleConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

var globalConfig *Config

// Load 加载配置
// env: 环境名称（dev, prod, test）
// configPath: 配置文件路径（可选）
func Load(env string, configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		v.SetConfigName(env) // dev.yaml, prod.yaml
		v.AddConfigPath("./config")
		v.AddConfigPath("../config")
		v.AddConfigPath("../../config")
	} else {
		v.SetConfigFile(configPath)
	}

	v.SetConfigType("yaml")

	// 读取环境变量（优先级高于配置文件）
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // 支持嵌套配置：APP_DATABASE_HOST

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	globalConfig = &cfg
	return &cfg, nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "demo_portal.db")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output_path", "stdout")
	v.SetDefault("rate_limit.max_requests", 100)
	v.SetDefault("rate_limit.window_seconds", 900)
	v.SetDefault("demo.session_duration_minutes", 60)
	v.SetDefault("demo.retention_days", 7)
	v.SetDefault("demo.max_workflow_steps", 20)
	v.SetDefault("demo.max_execution_time_ms", 30000)
	v.SetDefault("budget.openai_monthly_usd", 10)
	v.SetDefault("budget.sendgrid_daily_limit", 50)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("auth.issuer", "DemoPortal")
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("配置未初始化，请先调用 Load()")
	}
	return globalConfig
}

// GetDSN 获取 Postgres 连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
