// Package logtransfer provides a transfer sink that only logs the requested
// payouts. It's meant for development and for deployments where payouts are
// settled manually by reading the daemon logs.
package logtransfer

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
)

type sink struct {
	logger log.FieldLogger
}

func NewTransferSink(logger log.FieldLogger) ports.TransferSink {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &sink{logger}
}

func (s *sink) SendTransfer(_ context.Context, req ports.TransferRequest) error {
	s.logger.WithFields(log.Fields{
		"id":        req.GetId(),
		"kind":      req.GetKind(),
		"recipient": req.GetRecipient(),
		"amount":    req.GetAmount(),
		"order_id":  req.GetOrderId(),
	}).Info("transfer requested")
	return nil
}

func (s *sink) Close() {}
