package game

import (
	"fmt"
	"log"
	"os"

	"github.com/gonewx/frontline/pkg/config"
	"github.com/gonewx/frontline/pkg/embedded"
)

// EmbeddedBattleConfigPath 嵌入的默认战斗配置
const EmbeddedBattleConfigPath = "data/battle.yaml"

// LoadBattleConfig 加载战斗配置
//
// path 为空时读取嵌入的 data/battle.yaml；嵌入资源不可用时使用内置默认值。
// 显式指定的文件读取或验证失败时返回错误（不静默回退）。
func LoadBattleConfig(path string) (*config.BattleConfig, error) {
	if path != "" {
		cfg, err := config.LoadBattleConfig(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		log.Printf("[Config] Battle config loaded from %s", path)
		return cfg, nil
	}

	if !embedded.IsInitialized() {
		log.Printf("[Config] Embedded data unavailable, using built-in defaults")
		return config.DefaultBattleConfig(), nil
	}
	data, err := embedded.ReadFile(EmbeddedBattleConfigPath)
	if err != nil {
		return nil, fmt.Errorf("read embedded battle config: %w", err)
	}
	cfg, err := config.ParseBattleConfig(data)
	if err != nil {
		return nil, fmt.Errorf("embedded battle config: %w", err)
	}
	return cfg, nil
}

// NewQuestionProvider 按 -questions 参数选择题库来源
//
//   - 空: 嵌入的 data/questions
//   - 目录: 目录下的 <topic>.yaml
//   - 文件: 只包含该题库
func NewQuestionProvider(path string) (QuestionProvider, error) {
	if path == "" {
		return NewEmbeddedQuestionProvider(), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("questions %s: %w", path, err)
	}
	if info.IsDir() {
		log.Printf("[Config] Question banks from directory %s", path)
		return NewDirQuestionProvider(path), nil
	}

	bank, err := config.LoadQuestionBank(path)
	if err != nil {
		return nil, fmt.Errorf("questions %s: %w", path, err)
	}
	log.Printf("[Config] Single question bank %q from %s", bank.Topic, path)
	return NewStaticQuestionProvider(bank), nil
}
