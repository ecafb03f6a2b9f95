package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// configs/config.yaml 中的占位密钥，生产环境必须替换
const placeholderSecret = "change-me-in-production"

// 主配置结构
type Config struct {
	App       App    `yaml:"app"`
	Server    Server `yaml:"server"`
	Database  DB     `yaml:"database"`
	Cache     Cache  `yaml:"cache"`
	Auth      Auth   `yaml:"auth"`
	RateLimit Limit  `yaml:"rate_limit"`
	Log       Log    `yaml:"log"`
	Link      Link   `yaml:"link"`
}

// 应用配置
type App struct {
	Name    string `yaml:"name"`
	Mode    string `yaml:"mode"` // debug / test / production
	Version string `yaml:"version"`
}

// 服务器配置
// Protocol 和 PublicHost 决定短链接的对外地址
type Server struct {
	Protocol     string `yaml:"protocol"`
	PublicHost   string `yaml:"public_host"`
	Port         int    `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`
}

// 数据库配置
type DB struct {
	Driver   string `yaml:"driver"` // mysql / sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	Path     string `yaml:"path"` // sqlite 文件路径
}

// 缓存配置（Redis）
type Cache struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLHours int    `yaml:"ttl_hours"`
}

// 认证配置
type Auth struct {
	Secret          string `yaml:"secret"`
	Issuer          string `yaml:"issuer"`
	ExpirationHours int    `yaml:"expiration_hours"`
}

// 限流配置
type Limit struct {
	Enabled   bool     `yaml:"enabled"`
	Requests  int64    `yaml:"requests_per_minute"`
	Burst     int64    `yaml:"burst"`
	SkipPaths []string `yaml:"skip_paths"`
}

// 日志配置
type Log struct {
	Level      string `yaml:"level"`
	Filename   string `yaml:"filename"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// 短链接配置
type Link struct {
	CodeLength      int    `yaml:"code_length"`
	CustomPrefix    string `yaml:"custom_prefix"`
	MaxCustomLength int    `yaml:"max_custom_length"`
	MaxAttempts     int    `yaml:"max_attempts"`
}

// Load 读取 yaml 配置，再用 .env / 环境变量覆盖部署相关的值
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// .env 不存在时忽略
	_ = godotenv.Load()
	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查启动必需的配置项
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return fmt.Errorf("auth.secret 不能为空 (可通过 JWT_SECRET 设置)")
	}
	if c.IsProduction() && c.Auth.Secret == placeholderSecret {
		return fmt.Errorf("生产环境不能使用默认的 auth.secret，请通过 JWT_SECRET 设置")
	}
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("不支持的数据库驱动: %q", c.Database.Driver)
	}
	return nil
}

// Origin 返回服务对外的源地址
func (c *Config) Origin() string {
	return ComposeOrigin(c.Server.Protocol, c.Server.PublicHost, c.Server.Port, c.App.Mode)
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.App.Mode == "production"
}

// ComposeOrigin 由协议、主机、端口和运行模式拼出源地址。
// 端口只在非生产环境下出现。
func ComposeOrigin(protocol, host string, port int, mode string) string {
	if protocol == "" {
		protocol = "http"
	}
	origin := protocol + "://" + host
	if mode != "production" && port > 0 {
		origin += ":" + strconv.Itoa(port)
	}
	return origin
}

func (c *Config) applyEnv() {
	setString(&c.App.Mode, "APP_MODE")
	setString(&c.Server.Protocol, "SERVER_PROTOCOL")
	setString(&c.Server.PublicHost, "PUBLIC_HOST")
	setInt(&c.Server.Port, "SERVER_PORT")
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.Path, "DB_PATH")
	setString(&c.Cache.Host, "REDIS_HOST")
	setInt(&c.Cache.Port, "REDIS_PORT")
	setString(&c.Cache.Password, "REDIS_PASSWORD")
	setString(&c.Auth.Secret, "JWT_SECRET")
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "shortlink-service"
	}
	if c.App.Mode == "" {
		c.App.Mode = "debug"
	}
	if c.Server.Protocol == "" {
		c.Server.Protocol = "http"
	}
	if c.Server.PublicHost == "" {
		c.Server.PublicHost = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Charset == "" {
		c.Database.Charset = "utf8mb4"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/shortlink.db"
	}
	if c.Cache.TTLHours == 0 {
		c.Cache.TTLHours = 24
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = c.App.Name
	}
	if c.Auth.ExpirationHours == 0 {
		c.Auth.ExpirationHours = 31 * 24
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Filename == "" {
		c.Log.Filename = "./logs/app.log"
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = 10
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 5
	}
	if c.Log.MaxAge == 0 {
		c.Log.MaxAge = 30
	}
	if c.Link.CodeLength == 0 {
		c.Link.CodeLength = 5
	}
	if c.Link.CustomPrefix == "" {
		c.Link.CustomPrefix = "c"
	}
	if c.Link.MaxCustomLength == 0 {
		c.Link.MaxCustomLength = 15
	}
	if c.Link.MaxAttempts == 0 {
		c.Link.MaxAttempts = 5
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return
	}
	*dst = n
}
