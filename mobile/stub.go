//go:build !mobile

// Package mobile 的桌面端占位
//
// 真正的绑定入口在 mobile.go / embed.go 中，只在 -tags mobile 时参与编译；
// 普通的 go build ./... 依然需要这个包里至少有一个文件。
package mobile

// Dummy 保持与移动端构建一致的导出符号
func Dummy() {}
