//go:build mobile

package utils

// IsMobile 移动端编译时返回 true（HUD 显示触摸提示）
func IsMobile() bool {
	return true
}
