//go:build !mobile

package utils

import "os"

// MobileEmulateEnv 设置为 1 时桌面端按移动端方式运行（本地调试触摸布局）
const MobileEmulateEnv = "FRONTLINE_MOBILE_EMULATE"

// IsMobile 是否运行在移动设备上
// 桌面端没有 F11 全屏切换之外的区别：移动端隐藏键盘提示，点按代替回车
func IsMobile() bool {
	return os.Getenv(MobileEmulateEnv) == "1"
}
