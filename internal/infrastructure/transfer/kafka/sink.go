// Package kafkatransfer provides a transfer sink that produces every payout
// request as a message on a Kafka topic, keyed by transfer id so that
// redeliveries of the same transfer land on the same partition.
package kafkatransfer

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/transfer"
)

const (
	DefaultTopic = "escrow.transfers"

	kindHeader = "transfer-kind"
)

var (
	ErrMissingBrokers = errors.New("missing kafka brokers")
	ErrMissingWriter  = errors.New("missing kafka writer")
)

// MessageWriter is the subset of *kafka.Writer used by the sink.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type sink struct {
	writer MessageWriter
}

func NewTransferSink(brokers []string, topic string) (ports.TransferSink, error) {
	if len(brokers) <= 0 {
		return nil, ErrMissingBrokers
	}
	if topic == "" {
		topic = DefaultTopic
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            3,
		AllowAutoTopicCreation: true,
	}
	return NewTransferSinkWithWriter(writer)
}

// NewTransferSinkWithWriter returns a sink producing through the given
// writer, whose topic must be already configured.
func NewTransferSinkWithWriter(writer MessageWriter) (ports.TransferSink, error) {
	if writer == nil {
		return nil, ErrMissingWriter
	}
	return &sink{writer}, nil
}

func (s *sink) SendTransfer(ctx context.Context, req ports.TransferRequest) error {
	msg := kafka.Message{
		Key:   []byte(req.GetId()),
		Value: transfer.NewPayload(req).Serialize(),
		Time:  time.Unix(0, req.GetRequestedAt()),
		Headers: []kafka.Header{
			{Key: kindHeader, Value: []byte(req.GetKind())},
		},
	}
	return s.writer.WriteMessages(ctx, msg)
}

func (s *sink) Close() {
	if err := s.writer.Close(); err != nil {
		log.WithError(err).Warn("failed to close kafka writer")
	}
}
