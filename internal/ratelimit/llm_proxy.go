package ratelimit

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"
)

const (
	defaultQPM           = 30
	defaultMaxRetries    = 3
	defaultRetryWaitTime = time.Second
	// 按配置 QPM 的 90% 限流，留出余量
	safeQPMRatio = 0.9
)

// RateLimitedChatModel 对 LLM 调用做限流，并在限流类错误时退避重试
type RateLimitedChatModel struct {
	original   model.BaseChatModel
	limiter    *rate.Limiter
	retryWait  time.Duration
	maxRetries int
}

// NewRateLimitedChatModel 创建限流代理，突发容量为 QPM 的一半
func NewRateLimitedChatModel(original model.BaseChatModel, qpm int) *RateLimitedChatModel {
	if qpm <= 0 {
		qpm = defaultQPM
	}
	burst := max(qpm/2, 1)
	return &RateLimitedChatModel{
		original:   original,
		limiter:    rate.NewLimiter(rate.Limit(float64(qpm)/60.0), burst),
		retryWait:  defaultRetryWaitTime,
		maxRetries: defaultMaxRetries,
	}
}

// WithRetryPolicy 设置重试策略
func (rl *RateLimitedChatModel) WithRetryPolicy(waitTime time.Duration, maxRetries int) *RateLimitedChatModel {
	if waitTime > 0 {
		rl.retryWait = waitTime
	}
	if maxRetries >= 0 {
		rl.maxRetries = maxRetries
	}
	return rl
}

// Generate 代理 Generate
func (rl *RateLimitedChatModel) Generate(ctx context.Context, messages []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	var out *schema.Message
	err := rl.retryWithBackoff(ctx, func() error {
		var err error
		out, err = rl.original.Generate(ctx, messages, opts...)
		return err
	})
	return out, err
}

// Stream 代理 Stream
func (rl *RateLimitedChatModel) Stream(ctx context.Context, messages []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	var out *schema.StreamReader[*schema.Message]
	err := rl.retryWithBackoff(ctx, func() error {
		var err error
		out, err = rl.original.Stream(ctx, messages, opts...)
		return err
	})
	return out, err
}

func (rl *RateLimitedChatModel) retryWithBackoff(ctx context.Context, fn func() error) error {
	var err error
	for retry := 0; retry <= rl.maxRetries; retry++ {
		if err = rl.limiter.Wait(ctx); err != nil {
			return err
		}
		if err = fn(); err == nil {
			return nil
		}
		if !IsRateLimitError(err) || retry >= rl.maxRetries {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rl.retryWait * time.Duration(1<<uint(retry))):
		}
	}
	return err
}

// NewLLMWithRateLimit 按模型名从 limits 中取 QPM，未配置时使用 defaultQPM
func NewLLMWithRateLimit(original model.BaseChatModel, modelName string, limits map[string]int, fallbackQPM, maxRetries int, retryWait time.Duration) *RateLimitedChatModel {
	qpm := fallbackQPM
	if q, ok := limits[modelName]; ok && q > 0 {
		qpm = int(float64(q) * safeQPMRatio)
	}
	return NewRateLimitedChatModel(original, qpm).WithRetryPolicy(retryWait, maxRetries)
}

// IsRateLimitError 判断是否为服务端限流错误
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range []string{"429", "Too Many Requests", "rate limit", "服务器繁忙", "请求超过限额", "QPS限制"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

var _ model.BaseChatModel = (*RateLimitedChatModel)(nil)
