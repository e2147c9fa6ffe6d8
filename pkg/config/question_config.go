package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// QuestionBank 知识检测题库
//
// 一个题库对应一个主题（topic），主菜单按主题列出。
//
// 配置文件位置: data/questions/*.yaml
type QuestionBank struct {
	Topic     string     `yaml:"topic"`     // 主题标识，如 "aviation"
	Title     string     `yaml:"title"`     // 菜单显示名
	Questions []Question `yaml:"questions"` // 题目列表（按顺序出题）
}

// Question 单道选择题
type Question struct {
	Prompt  string   `yaml:"prompt"`
	Choices []string `yaml:"choices"`
	Answer  int      `yaml:"answer"` // Choices 中正确答案的下标（从 0 开始）
	Explain string   `yaml:"explain,omitempty"`
}

// 选项数量范围
const (
	MinChoices = 2
	MaxChoices = 4
)

// LoadQuestionBank 从文件加载题库
func LoadQuestionBank(path string) (*QuestionBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank: %w", err)
	}
	return ParseQuestionBank(data)
}

// ParseQuestionBank 解析 YAML 题库并验证
func ParseQuestionBank(data []byte) (*QuestionBank, error) {
	var bank QuestionBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}

	if err := bank.Validate(); err != nil {
		return nil, fmt.Errorf("invalid question bank: %w", err)
	}

	return &bank, nil
}

// Validate 验证题库
//
// 检查：
//   - topic 非空
//   - 至少一道题
//   - 每题 2~4 个选项，答案下标在范围内
func (b *QuestionBank) Validate() error {
	if strings.TrimSpace(b.Topic) == "" {
		return fmt.Errorf("topic cannot be empty")
	}
	if len(b.Questions) == 0 {
		return fmt.Errorf("topic '%s' has no questions", b.Topic)
	}
	for i, q := range b.Questions {
		if strings.TrimSpace(q.Prompt) == "" {
			return fmt.Errorf("question %d: prompt cannot be empty", i)
		}
		if len(q.Choices) < MinChoices || len(q.Choices) > MaxChoices {
			return fmt.Errorf("question %d: need %d-%d choices, got %d", i, MinChoices, MaxChoices, len(q.Choices))
		}
		if q.Answer < 0 || q.Answer >= len(q.Choices) {
			return fmt.Errorf("question %d: answer index %d out of range [0,%d)", i, q.Answer, len(q.Choices))
		}
	}
	return nil
}

// DisplayTitle 返回菜单显示名，未配置时回退到 topic
func (b *QuestionBank) DisplayTitle() string {
	if b.Title != "" {
		return b.Title
	}
	return b.Topic
}

// DefaultQuestionBank 内置兜底题库
// 题库加载失败或超时时使用，保证知识检测阶段总有题目可答
func DefaultQuestionBank() *QuestionBank {
	return &QuestionBank{
		Topic: "general",
		Title: "General Knowledge",
		Questions: []Question{
			{
				Prompt:  "Which planet is known as the Red Planet?",
				Choices: []string{"Venus", "Mars", "Jupiter", "Mercury"},
				Answer:  1,
			},
			{
				Prompt:  "What is the boiling point of water at sea level in Celsius?",
				Choices: []string{"90", "100", "110"},
				Answer:  1,
			},
			{
				Prompt:  "How many sides does a hexagon have?",
				Choices: []string{"5", "6", "7", "8"},
				Answer:  1,
			},
		},
	}
}
