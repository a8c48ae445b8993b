package kafka

import (
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"
)

const (
	batchSize    = 32
	batchWorkers = 8
	flushEvery   = time.Second
	retryBase    = 100 * time.Millisecond
	retryCap     = 5 * time.Second
)

// ErrSkipMessage 与当前消费者无关的消息，不重试
var ErrSkipMessage = errors.New("skip message")

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 攒满 batchSize 或每隔 flushEvery 处理一次，整批成功后提交最后一条的位点
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	ctx := session.Context()
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		processBatch(ctx, batch, logic)
		// 重试期间会话结束，位点留给下一个持有分区的消费者
		if ctx.Err() == nil {
			session.MarkMessage(batch[len(batch)-1], "")
			session.Commit()
		}
		batch = batch[:0]
	}

	ticker := time.NewTicker(flushEvery)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				flush()
				return nil
			}
			batch = append(batch, msg)
			if len(batch) == batchSize {
				flush()
				ticker.Reset(flushEvery)
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			return nil
		}
	}
}

func processBatch(ctx context.Context, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	p := pool.New().WithMaxGoroutines(batchWorkers)
	for _, m := range messages {
		p.Go(func() { runWithRetry(ctx, m, logic) })
	}
	p.Wait()
}

// runWithRetry 失败后指数退避直到成功或 ctx 结束
func runWithRetry(ctx context.Context, m *sarama.ConsumerMessage, logic LogicFunc) {
	wait := retryBase
	for attempt := 1; ; attempt++ {
		err := logic(ctx, m)
		if err == nil || errors.Is(err, ErrSkipMessage) {
			return
		}
		log.ErrorContext(ctx, "consume message failed",
			"topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "attempt", attempt, "err", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		wait = min(wait*2, retryCap)
	}
}

// ToCanalMessage 将kafka消息转换为canal消息结构体，表名不符、DDL 或空数据返回 ErrSkipMessage
func ToCanalMessage(msg *sarama.ConsumerMessage, tableName string) (*CanalMessage, error) {
	var canalMsg CanalMessage
	if err := json.Unmarshal(msg.Value, &canalMsg); err != nil {
		log.Error("unmarshal canal message error", "err", err)
		return nil, errors.Wrap(ErrSkipMessage, err.Error())
	}

	if canalMsg.IsDDL || canalMsg.Table != tableName {
		return nil, ErrSkipMessage
	}

	if len(canalMsg.Data) == 0 {
		return nil, errors.Wrap(ErrSkipMessage, "data is empty")
	}

	return &canalMsg, nil
}
