package service

// Principal 通过令牌校验后的调用者身份
type Principal struct {
	UserID uint
	Email  string
}
