package utils

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sandeepk26/orbis-backend/config"
)

var kafkaWriter *kafka.Writer

// InitializeKafka sets up the shared writer for the booking events topic.
// Publishing degrades to a log line when brokers are not configured, so the
// API keeps working in development setups without kafka.
func InitializeKafka(cfg *config.Config) {
	if cfg.KafkaBrokers == "" {
		log.Println("KAFKA_BROKERS not set, event publishing disabled")
		return
	}

	kafkaWriter = &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(cfg.KafkaBrokers, ",")...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	log.Printf("kafka writer ready for topic %s", cfg.KafkaTopic)
}

// PublishEvent sends a JSON payload keyed by key. Errors are logged, never
// propagated: event delivery is best effort and must not fail the request.
func PublishEvent(key string, payload interface{}) {
	if kafkaWriter == nil {
		return
	}

	value, err := json.Marshal(payload)
	if err != nil {
		log.Printf("kafka payload marshal failed: %v", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := kafkaWriter.WriteMessages(ctx, kafka.Message{
			Key:   []byte(key),
			Value: value,
		}); err != nil {
			log.Printf("kafka publish failed for key %s: %v", key, err)
		}
	}()
}

// NewEventReader returns a reader for the booking events topic, used by the
// notification consumer.
func NewEventReader(cfg *config.Config, groupID string) *kafka.Reader {
	if cfg.KafkaBrokers == "" {
		return nil
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  strings.Split(cfg.KafkaBrokers, ","),
		Topic:    cfg.KafkaTopic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// CloseKafka flushes and closes the writer on shutdown.
func CloseKafka() {
	if kafkaWriter != nil {
		_ = kafkaWriter.Close()
	}
}
