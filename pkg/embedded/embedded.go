// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包持有该文件系统，让其他包按 "data/..." 路径读取。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotInitialized 在 Init 之前访问资源
var ErrNotInitialized = errors.New("embedded package not initialized, call Init() first")

// dataPrefix 所有嵌入路径的前缀
const dataPrefix = "data/"

var (
	mu     sync.RWMutex
	dataFS fs.FS
)

// Init 设置嵌入的数据文件系统
// 必须在 main() 开始时、任何资源加载之前调用；传入 nil 恢复为未初始化
func Init(data fs.FS) {
	mu.Lock()
	dataFS = data
	mu.Unlock()
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	mu.RLock()
	defer mu.RUnlock()
	return dataFS != nil
}

// resolve 标准化路径并返回文件系统
// 路径必须以 "data/" 开头（embed.FS 使用正斜杠）
func resolve(path string) (fs.FS, string, error) {
	mu.RLock()
	fsys := dataFS
	mu.RUnlock()
	if fsys == nil {
		return nil, "", ErrNotInitialized
	}

	path = strings.TrimPrefix(filepath.ToSlash(path), "./")
	if !strings.HasPrefix(path, dataPrefix) {
		return nil, "", fmt.Errorf("unknown resource path prefix: %s (must start with '%s')", path, dataPrefix)
	}
	return fsys, path, nil
}

// Open 打开嵌入文件
func Open(path string) (fs.File, error) {
	fsys, p, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fsys.Open(p)
}

// ReadFile 读取嵌入文件内容
func ReadFile(path string) ([]byte, error) {
	fsys, p, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(fsys, p)
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	_, err := Stat(path)
	return err == nil
}

// Glob 匹配嵌入文件
func Glob(pattern string) ([]string, error) {
	fsys, p, err := resolve(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(fsys, p)
}

// ReadDir 读取目录内容
func ReadDir(path string) ([]fs.DirEntry, error) {
	fsys, p, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(fsys, p)
}

// Stat 获取文件信息
func Stat(path string) (fs.FileInfo, error) {
	fsys, p, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fs.Stat(fsys, p)
}
