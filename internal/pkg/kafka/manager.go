package kafka

import (
	"ReaView/internal/api/config"
	"context"
	log "log/slog"
	"sync"

	"github.com/IBM/sarama"
)

type consumer struct {
	name    string
	topic   string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
}

// ConsumerManager 持有 activity 与 item 两个 binlog 消费组
type ConsumerManager struct {
	consumers []*consumer
}

func NewConsumerManager(cfg *config.Config, activityHandler *ActivityHandler, itemHandler *ItemHandler) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)
	specs := []struct {
		name    string
		sub     config.KafkaTopicConsumer
		handler sarama.ConsumerGroupHandler
	}{
		{"activity", cfg.KafkaActivityConsumer, activityHandler},
		{"item", cfg.KafkaItemConsumer, itemHandler},
	}

	m := &ConsumerManager{}
	for _, spec := range specs {
		group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, spec.sub.GroupID, saramaCfg)
		if err != nil {
			m.close()
			return nil, err
		}
		m.consumers = append(m.consumers, &consumer{
			name:    spec.name,
			topic:   spec.sub.Topic,
			group:   group,
			handler: spec.handler,
		})
	}
	return m, nil
}

func (c *consumer) run(ctx context.Context) {
	log.Info("kafka consumer started", "consumer", c.name, "topic", c.topic)
	for {
		if err := c.group.Consume(ctx, []string{c.topic}, c.handler); err != nil {
			log.Error("kafka consume failed", "consumer", c.name, "err", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// Return.Errors 开启后必须读取，否则消费组会阻塞
func (c *consumer) drainErrors() {
	for err := range c.group.Errors() {
		log.Warn("kafka consumer error", "consumer", c.name, "err", err)
	}
}

// Start 阻塞到 ctx 取消，随后关闭全部消费组
func (m *ConsumerManager) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, c := range m.consumers {
		wg.Add(2)
		go func() { defer wg.Done(); c.run(ctx) }()
		go func() { defer wg.Done(); c.drainErrors() }()
	}

	<-ctx.Done()
	log.Info("kafka consumers stopping")
	m.close()
	wg.Wait()
	return nil
}

func (m *ConsumerManager) close() {
	for _, c := range m.consumers {
		if err := c.group.Close(); err != nil {
			log.Error("close kafka consumer failed", "consumer", c.name, "err", err)
		}
	}
}
