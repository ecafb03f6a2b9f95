package shortcode

import (
	"crypto/rand"
	"errors"
	"math/big"
	"regexp"
	"strings"
)

const (
	// Charset 包含用于生成短码的所有字符
	Charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// DefaultLength 随机短码的默认长度
	DefaultLength = 5
)

var (
	ErrCustomEmpty   = errors.New("custom code is empty")
	ErrCustomTooLong = errors.New("custom code is too long")
	ErrCustomInvalid = errors.New("custom code contains invalid characters")

	customPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// Generator 生成固定长度的随机短码，不保存任何状态，可被并发调用
type Generator struct {
	length int
}

// NewGenerator 创建短码生成器
func NewGenerator(length int) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	return &Generator{length: length}
}

// Generate 使用加密安全的随机数生成短码
func (g *Generator) Generate() (string, error) {
	b := make([]byte, g.length)
	max := big.NewInt(int64(len(Charset)))
	for i := range b {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = Charset[num.Int64()]
	}
	return string(b), nil
}

// SanitizeCustom 去掉首尾空白并校验自定义短码
func SanitizeCustom(code string, maxLength int) (string, error) {
	code = strings.TrimSpace(code)
	switch {
	case code == "":
		return "", ErrCustomEmpty
	case len(code) > maxLength:
		return "", ErrCustomTooLong
	case !customPattern.MatchString(code):
		return "", ErrCustomInvalid
	}
	return code, nil
}

// ShortURL 拼出完整短链接地址。创建和跳转都走这里，保证两边一致。
// prefix 为空时是随机短码，否则是自定义短码的保留路径。
func ShortURL(origin, prefix, code string) string {
	origin = strings.TrimRight(origin, "/")
	if prefix == "" {
		return origin + "/" + code
	}
	return origin + "/" + strings.Trim(prefix, "/") + "/" + code
}
