package kafka

import (
	"ReaView/internal/api/config"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
)

const clientID = "reaview"

func secondsOr(v, def int) time.Duration {
	if v <= 0 {
		v = def
	}
	return time.Duration(v) * time.Second
}

// newSaramaConfig 手动提交位点，未配置的超时取 sarama 推荐值
func newSaramaConfig(kc config.KafkaConfig) *sarama.Config {
	c := sarama.NewConfig()
	c.ClientID = clientID
	if kc.Version != "" {
		if v, err := sarama.ParseKafkaVersion(kc.Version); err == nil {
			c.Version = v
		} else {
			log.Warn("invalid kafka version, using sarama default", "version", kc.Version, "err", err)
		}
	}

	if kc.Sasl.Enable {
		c.Net.SASL.Enable = true
		c.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		c.Net.SASL.User = kc.Sasl.Username
		c.Net.SASL.Password = kc.Sasl.Password
	}

	cc := kc.Consumer
	c.Consumer.Return.Errors = true
	c.Consumer.Offsets.AutoCommit.Enable = false
	c.Consumer.Offsets.Initial = sarama.OffsetNewest
	if cc.InitialOffset == "oldest" {
		c.Consumer.Offsets.Initial = sarama.OffsetOldest
	}
	c.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategySticky()}
	c.Consumer.Group.Session.Timeout = secondsOr(cc.SessionTimeout, 10)
	c.Consumer.Group.Heartbeat.Interval = secondsOr(cc.HeartbeatInterval, 3)
	c.Consumer.Group.Rebalance.Timeout = secondsOr(cc.RebalanceTimeout, 60)
	c.Consumer.MaxProcessingTime = secondsOr(cc.MaxProcessingTime, 30)
	return c
}
