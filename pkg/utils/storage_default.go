//go:build !android

package utils

// EnsureStorageDir 桌面端无需处理：gdata 会自行创建用户数据目录
func EnsureStorageDir() error {
	return nil
}

// StoragePath 桌面端返回空字符串（路径由 gdata 决定）
func StoragePath() string {
	return ""
}
