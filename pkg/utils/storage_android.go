//go:build android

package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// androidDataRoot 应用私有数据目录的父目录
const androidDataRoot = "/data/data"

// EnsureStorageDir 在 gdata 打开之前确保 Android 私有目录可写
//
// gdata 在 Android 上写入 /data/data/{package}/，但不会创建 saves 子目录；
// 设置和进度第一次保存时如果目录不存在会失败。
func EnsureStorageDir() error {
	dir := StoragePath()
	if dir == "" {
		return errors.New("cannot determine Android package name")
	}

	saves := filepath.Join(dir, "saves")
	if err := os.MkdirAll(saves, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", saves, err)
	}

	marker := filepath.Join(saves, ".write_test")
	if err := os.WriteFile(marker, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("%s not writable: %w", saves, err)
	}
	return os.Remove(marker)
}

// StoragePath 返回 /data/data/{package}，无法识别包名时返回空字符串
func StoragePath() string {
	app, err := androidPackage()
	if err != nil {
		return ""
	}
	return filepath.Join(androidDataRoot, app)
}

// androidPackage 从 /proc/self/cmdline 读取包名（NUL 结尾）
func androidPackage() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}
	name, _, _ := strings.Cut(string(data), "\x00")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("empty /proc/self/cmdline")
	}
	return name, nil
}
