package llm

import "context"

// Provider 外部文本补全能力的统一抽象
type Provider interface {
	// Generate 发送请求并返回模型输出的原始文本
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name 返回 provider 名称，用于日志与监控标签
	Name() string

	// ModelID 返回实际使用的模型
	ModelID() string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

type Request struct {
	System   string
	Messages []Message

	// JSON 要求模型返回单个可解析的 JSON 对象而非自然语言
	JSON bool

	MaxTokens   int
	Temperature float64
}

// UserPrompt 构造单轮请求
func UserPrompt(system, prompt string, jsonOutput bool) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
		JSON:     jsonOutput,
	}
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

type Response struct {
	Content    string
	Usage      Usage
	Model      string
	StopReason string
}
