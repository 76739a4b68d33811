package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"resume-parser-go/internal/config"
)

// RabbitMQ 解析事件发布者
type RabbitMQ struct {
	conn           *amqp.Connection
	channelPool    sync.Pool
	publishMutex   sync.Mutex // 保护发布操作
	cfg            *config.RabbitMQConfig
	publishTimeout time.Duration
	logger         zerolog.Logger
}

// NewRabbitMQ 建立连接并声明交换机、队列与绑定
func NewRabbitMQ(cfg *config.RabbitMQConfig, logger zerolog.Logger) (*RabbitMQ, error) {
	if cfg == nil {
		return nil, fmt.Errorf("RabbitMQ配置不能为空")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("RabbitMQ URL配置不能为空")
	}
	if cfg.ParsedExchange == "" {
		return nil, fmt.Errorf("exchange名称不能为空")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("无法连接到RabbitMQ服务器: %w", err)
	}

	mq := &RabbitMQ{
		conn:           conn,
		cfg:            cfg,
		publishTimeout: config.GetDuration(cfg.PublishTimeout, 5*time.Second),
		logger:         logger,
	}
	mq.channelPool = sync.Pool{
		New: func() any {
			ch, errPool := conn.Channel()
			if errPool != nil {
				logger.Warn().Err(errPool).Msg("创建RabbitMQ通道失败")
				return nil
			}
			return ch
		},
	}

	if err := mq.declareTopology(); err != nil {
		conn.Close()
		return nil, err
	}
	logger.Info().Str("exchange", cfg.ParsedExchange).Str("queue", cfg.ParsedQueue).Msg("成功连接到RabbitMQ服务器")
	return mq, nil
}

// declareTopology 声明 topic 交换机；配置了队列时一并声明并绑定
func (r *RabbitMQ) declareTopology() error {
	ch := r.getChannel()
	if ch == nil {
		return fmt.Errorf("无法获取RabbitMQ通道")
	}
	defer r.putChannel(ch)

	if err := ch.ExchangeDeclare(r.cfg.ParsedExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("声明exchange失败: %w", err)
	}
	if r.cfg.ParsedQueue == "" {
		return nil
	}
	if _, err := ch.QueueDeclare(r.cfg.ParsedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("声明队列失败: %w", err)
	}
	if err := ch.QueueBind(r.cfg.ParsedQueue, r.cfg.ParsedRoutingKey, r.cfg.ParsedExchange, false, nil); err != nil {
		return fmt.Errorf("绑定队列到exchange失败: %w", err)
	}
	return nil
}

// 获取可用通道
func (r *RabbitMQ) getChannel() *amqp.Channel {
	ch := r.channelPool.Get()
	if ch == nil {
		newCh, err := r.conn.Channel()
		if err != nil {
			r.logger.Warn().Err(err).Msg("创建新RabbitMQ通道失败")
			return nil
		}
		return newCh
	}
	return ch.(*amqp.Channel)
}

// 归还通道到池，已关闭的通道直接丢弃
func (r *RabbitMQ) putChannel(ch *amqp.Channel) {
	if ch != nil && !ch.IsClosed() {
		r.channelPool.Put(ch)
	}
}

// PublishParsed 实现 processor.Publisher
func (r *RabbitMQ) PublishParsed(ctx context.Context, event ResumeParsedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("JSON序列化失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.publishTimeout)
	defer cancel()
	return r.PublishMessage(ctx, r.cfg.ParsedExchange, r.cfg.ParsedRoutingKey, body, r.cfg.PersistentMessage)
}

// PublishMessage 发布消息到exchange，追踪上下文写入消息头
func (r *RabbitMQ) PublishMessage(ctx context.Context, exchangeName, routingKey string, message []byte, persistent bool) error {
	r.publishMutex.Lock()
	defer r.publishMutex.Unlock()

	ch := r.getChannel()
	if ch == nil {
		return fmt.Errorf("无法获取RabbitMQ通道")
	}
	defer r.putChannel(ch)

	var deliveryMode uint8 = amqp.Transient
	if persistent {
		deliveryMode = amqp.Persistent
	}

	headers := amqp.Table{}
	otel.GetTextMapPropagator().Inject(ctx, HeaderCarrier(headers))

	return ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		Headers:      headers,
		DeliveryMode: deliveryMode,
		ContentType:  "application/json",
		Body:         message,
		Timestamp:    time.Now(),
	})
}

// Close 关闭连接
func (r *RabbitMQ) Close() error {
	return r.conn.Close()
}

// HeaderCarrier 让 amqp.Table 满足 propagation.TextMapCarrier
type HeaderCarrier amqp.Table

// Get 返回键对应的字符串值
func (c HeaderCarrier) Get(key string) string {
	if v, ok := c[key].(string); ok {
		return v
	}
	return ""
}

// Set 设置键值
func (c HeaderCarrier) Set(key, value string) {
	c[key] = value
}

// Keys 列出所有键
func (c HeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}
