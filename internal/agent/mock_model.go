package agent

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// MockResponse MockChatModel 的单次响应
type MockResponse struct {
	Content string
	Error   error
}

// MockChatModel 用于测试的 model.BaseChatModel
// 按顺序返回预设响应，用完后重复最后一条
type MockChatModel struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     int
	received  [][]*schema.Message
}

// NewMockChatModel 创建总是返回同一响应的模型
func NewMockChatModel(content string, err error) *MockChatModel {
	return NewMockChatModelSequential([]MockResponse{{Content: content, Error: err}})
}

// NewMockChatModelSequential 创建按顺序返回响应的模型
func NewMockChatModelSequential(responses []MockResponse) *MockChatModel {
	if len(responses) == 0 {
		responses = []MockResponse{{Error: errors.New("mock model has no responses configured")}}
	}
	return &MockChatModel{responses: responses}
}

// Generate 实现 model.BaseChatModel
func (m *MockChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.received = append(m.received, append([]*schema.Message(nil), input...))
	idx := min(m.calls, len(m.responses)-1)
	m.calls++

	resp := m.responses[idx]
	if resp.Error != nil {
		return nil, resp.Error
	}
	return schema.AssistantMessage(resp.Content, nil), nil
}

// Stream 实现 model.BaseChatModel
func (m *MockChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// Calls 已调用次数
func (m *MockChatModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Received 每次调用收到的消息
func (m *MockChatModel) Received() [][]*schema.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]*schema.Message(nil), m.received...)
}

var _ model.BaseChatModel = (*MockChatModel)(nil)
