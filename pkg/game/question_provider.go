package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gonewx/frontline/pkg/config"
	"github.com/gonewx/frontline/pkg/embedded"
)

// ErrTopicNotFound 请求的主题没有题库
var ErrTopicNotFound = errors.New("question topic not found")

// QuestionProvider 题库来源
//
// 知识检测的题目在加载阶段异步准备，战斗同时开始。Fetch 可能阻塞，
// 必须响应 ctx 取消。
type QuestionProvider interface {
	Topics() ([]TopicInfo, error)
	Fetch(ctx context.Context, topic string) (*config.QuestionBank, error)
}

// TopicInfo 菜单上列出的主题
type TopicInfo struct {
	Topic string
	Title string
	Count int
}

// FileQuestionProvider 从目录读取 <topic>.yaml 题库
//
// 目录可以是嵌入资源（data/questions）或磁盘目录（-questions 参数）。
type FileQuestionProvider struct {
	dir      string
	readFile func(name string) ([]byte, error)
	glob     func(pattern string) ([]string, error)
	join     func(elem ...string) string
}

// NewEmbeddedQuestionProvider 使用嵌入的 data/questions 目录
func NewEmbeddedQuestionProvider() *FileQuestionProvider {
	return &FileQuestionProvider{
		dir:      "data/questions",
		readFile: embedded.ReadFile,
		glob:     embedded.Glob,
		join:     path.Join,
	}
}

// NewDirQuestionProvider 使用磁盘目录
func NewDirQuestionProvider(dir string) *FileQuestionProvider {
	return &FileQuestionProvider{
		dir:      dir,
		readFile: os.ReadFile,
		glob:     filepath.Glob,
		join:     filepath.Join,
	}
}

// Topics 列出所有可用主题（按 topic 排序）
// 无法解析的题库文件会被跳过并记录日志
func (p *FileQuestionProvider) Topics() ([]TopicInfo, error) {
	files, err := p.glob(p.join(p.dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list question banks: %w", err)
	}

	topics := make([]TopicInfo, 0, len(files))
	for _, f := range files {
		data, err := p.readFile(f)
		if err != nil {
			log.Printf("[Questions] Skip %s: %v", f, err)
			continue
		}
		bank, err := config.ParseQuestionBank(data)
		if err != nil {
			log.Printf("[Questions] Skip %s: %v", f, err)
			continue
		}
		topics = append(topics, TopicInfo{
			Topic: bank.Topic,
			Title: bank.DisplayTitle(),
			Count: len(bank.Questions),
		})
	}

	sort.Slice(topics, func(i, j int) bool { return topics[i].Topic < topics[j].Topic })
	return topics, nil
}

// Fetch 读取指定主题的题库
func (p *FileQuestionProvider) Fetch(ctx context.Context, topic string) (*config.QuestionBank, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	topic = strings.TrimSpace(topic)
	if topic == "" || strings.ContainsAny(topic, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrTopicNotFound, topic)
	}

	data, err := p.readFile(p.join(p.dir, topic+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTopicNotFound, topic, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bank, err := config.ParseQuestionBank(data)
	if err != nil {
		return nil, fmt.Errorf("topic %s: %w", topic, err)
	}
	return bank, nil
}

// PendingQuestions 一次异步题库请求
//
// 由加载阶段创建，战斗期间在后台完成；答题阶段通过 Poll 非阻塞地取结果。
// 请求 goroutine 只通过内部字段交付结果，从不接触 WorldState。
type PendingQuestions struct {
	topic  string
	cancel context.CancelFunc

	mu    sync.Mutex
	done  bool
	bank  *config.QuestionBank
	err   error
	ready chan struct{}
}

// RequestQuestions 发起异步请求
func RequestQuestions(parent context.Context, provider QuestionProvider, topic string) *PendingQuestions {
	ctx, cancel := context.WithCancel(parent)
	pq := &PendingQuestions{
		topic:  topic,
		cancel: cancel,
		ready:  make(chan struct{}),
	}

	go func() {
		bank, err := provider.Fetch(ctx, topic)
		pq.mu.Lock()
		pq.bank, pq.err, pq.done = bank, err, true
		pq.mu.Unlock()
		close(pq.ready)
		if err != nil {
			log.Printf("[Questions] Fetch %q failed: %v", topic, err)
		} else {
			log.Printf("[Questions] Fetch %q ready: %d questions", topic, len(bank.Questions))
		}
	}()

	return pq
}

// Topic 请求的主题
func (pq *PendingQuestions) Topic() string {
	return pq.topic
}

// Poll 非阻塞地查询结果
// ready=false 表示仍在进行中
func (pq *PendingQuestions) Poll() (bank *config.QuestionBank, ready bool, err error) {
	pq.mu.Lock()
	defer pq.mu.Unlock()
	return pq.bank, pq.done, pq.err
}

// Ready 返回在请求完成后关闭的 channel
func (pq *PendingQuestions) Ready() <-chan struct{} {
	return pq.ready
}

// Cancel 取消请求（幂等）
func (pq *PendingQuestions) Cancel() {
	pq.cancel()
}

// StaticQuestionProvider 固定题库集合（-questions 指定单个文件时使用）
type StaticQuestionProvider struct {
	banks map[string]*config.QuestionBank
	order []string
}

// NewStaticQuestionProvider 用已加载的题库创建提供者
// 重复的 topic 以后出现的为准
func NewStaticQuestionProvider(banks ...*config.QuestionBank) *StaticQuestionProvider {
	p := &StaticQuestionProvider{banks: make(map[string]*config.QuestionBank, len(banks))}
	for _, b := range banks {
		if b == nil {
			continue
		}
		if _, dup := p.banks[b.Topic]; !dup {
			p.order = append(p.order, b.Topic)
		}
		p.banks[b.Topic] = b
	}
	sort.Strings(p.order)
	return p
}

// Topics 列出所有主题
func (p *StaticQuestionProvider) Topics() ([]TopicInfo, error) {
	out := make([]TopicInfo, 0, len(p.order))
	for _, topic := range p.order {
		b := p.banks[topic]
		out = append(out, TopicInfo{Topic: topic, Title: b.DisplayTitle(), Count: len(b.Questions)})
	}
	return out, nil
}

// Fetch 返回指定主题的题库
func (p *StaticQuestionProvider) Fetch(ctx context.Context, topic string) (*config.QuestionBank, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, ok := p.banks[topic]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTopicNotFound, topic)
	}
	return b, nil
}
