package service

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// 密码允许使用的特殊字符
const passwordSymbols = "@$!%*?&"

// bcrypt 只接受 72 字节以内的输入
const maxPasswordBytes = 72

var (
	validate = newValidator()

	// 原始地址必须以 http:// 或 https:// 开头
	urlPattern = regexp.MustCompile(`^(http|https)://\S+`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	})
	return v
}

// isStrongPassword 8 到 72 位，包含大写、小写、数字和一个允许的特殊字符，且不含其他字符
func isStrongPassword(password string) bool {
	if len(password) < 8 || len(password) > maxPasswordBytes {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r > unicode.MaxASCII:
			return false
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return upper && lower && digit && symbol
}

func isEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

func isValidURL(raw string) bool {
	return urlPattern.MatchString(raw)
}
