package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Options 数据库连接参数
type Options struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Charset  string
	Path     string
}

// Open 按驱动打开数据库连接。
// TranslateError 打开后，唯一约束冲突会以 gorm.ErrDuplicatedKey 返回。
func Open(opts Options) (*gorm.DB, error) {
	switch opts.Driver {
	case "mysql":
		return InitMySQL(opts.Host, opts.Port, opts.User, opts.Password, opts.Name, opts.Charset)
	case "sqlite":
		if dir := filepath.Dir(opts.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("创建数据目录失败: %w", err)
			}
		}
		return InitSQLite(opts.Path + "?_foreign_keys=on")
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %q", opts.Driver)
	}
}

// InitMySQL 连接 MySQL
func InitMySQL(host string, port int, user, password, dbName, charset string) (*gorm.DB, error) {
	if charset == "" {
		charset = "utf8mb4"
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		user, password, host, port, dbName, charset)

	connection, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	return connection, nil
}

// InitSQLite 按 DSN 打开 SQLite，测试里用内存库
func InitSQLite(dsn string) (*gorm.DB, error) {
	connection, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	return connection, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
}
