package kafka

import (
	"github.com/IBM/sarama"
)

type Config struct {
	Addrs         []string `envconfig:"KAFKA_ADDRS"`
	Topic         string   `envconfig:"KAFKA_TOPIC" default:"borrowing.created"`
	ConsumerGroup string   `envconfig:"KAFKA_CONSUMER_GROUP" default:"library-notifier"`
}

// Enabled reports whether a broker list was configured at all.
func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumerGroup(cfg Config) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	return sarama.NewConsumerGroup(cfg.Addrs, cfg.ConsumerGroup, defaultCfg)
}
