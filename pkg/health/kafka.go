package health

import (
	"context"
	"errors"

	"github.com/segmentio/kafka-go"
)

type KafkaChecker struct {
	brokers []string
}

func NewKafkaChecker(brokers []string) *KafkaChecker {
	return &KafkaChecker{brokers: brokers}
}

func (c *KafkaChecker) Name() string { return "kafka" }

// Check succeeds when any broker accepts a connection.
func (c *KafkaChecker) Check(ctx context.Context) Result {
	for _, broker := range c.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			_ = conn.Close()
			return up()
		}
	}
	return down(errors.New("all brokers unreachable"))
}
