//go:build mobile

package utils

// IsMobile 移动端编译（ebitenmobile bind）时恒为 true
func IsMobile() bool {
	return true
}
