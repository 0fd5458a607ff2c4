package tween

// Token 协作式取消令牌
//
// 绑定了 Token 的补间在每个 tick 开始时检查它，一旦被取消就立即停止，
// 不再调用 OnUpdate / OnComplete，也不会启动后继补间。
type Token struct {
	cancelled bool
}

// NewToken 创建一个未取消的令牌
func NewToken() *Token {
	return &Token{}
}

// Cancel 取消令牌（可重复调用）
func (t *Token) Cancel() {
	t.cancelled = true
}

// Cancelled 返回令牌是否已取消，nil 令牌永不取消
func (t *Token) Cancelled() bool {
	return t != nil && t.cancelled
}
