// Package publish sends notifications about newly accepted articles to kafka.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/segmentio/kafka-go"

	"github.com/minepenge/minepenge/pkg/config"
	"github.com/minepenge/minepenge/pkg/domain"
)

// EventArticleAccepted is the event header value of published messages
const EventArticleAccepted = "article.accepted"

//go:generate moq -out mocks/message_writer.go -pkg mocks -skip-ensure -fmt goimports . MessageWriter

// MessageWriter is the part of kafka.Writer used by the publisher
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per article, keyed by article id
type KafkaPublisher struct {
	writer MessageWriter
	topic  string
	now    func() time.Time
}

// NewKafkaPublisher makes a publisher writing to the configured brokers and topic
func NewKafkaPublisher(cfg config.KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{}, // same article id always lands in the same partition
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 100 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
	}
	lgr.Printf("[INFO] kafka publisher initialized for %v, topic %s", cfg.Brokers, cfg.Topic)
	return NewPublisher(w, cfg.Topic), nil
}

// NewPublisher makes a publisher over the given writer
func NewPublisher(w MessageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic, now: time.Now}
}

// Publish writes all articles in one batch. Nothing is sent for an empty list.
func (p *KafkaPublisher) Publish(ctx context.Context, articles []domain.Article) error {
	if len(articles) == 0 {
		return nil
	}

	ts := p.now()
	msgs := make([]kafka.Message, 0, len(articles))
	for _, a := range articles {
		value, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("marshal article %d: %w", a.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(strconv.FormatInt(a.ID, 10)),
			Value: value,
			Time:  ts,
			Headers: []kafka.Header{
				{Key: "event", Value: []byte(EventArticleAccepted)},
				{Key: "source", Value: []byte(a.Source)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d messages to %s: %w", len(msgs), p.topic, err)
	}
	lgr.Printf("[INFO] published %d new articles to %s", len(msgs), p.topic)
	return nil
}

// Close flushes pending messages and closes the writer
func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("close kafka writer: %w", err)
	}
	return nil
}
