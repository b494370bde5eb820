package application_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
)

// **** TransferSink ****

type mockTransferSink struct {
	mock.Mock
}

func (m *mockTransferSink) SendTransfer(
	ctx context.Context, req ports.TransferRequest,
) error {
	args := m.Called(req.GetRecipient(), req.GetAmount())
	return args.Error(0)
}

func (m *mockTransferSink) Close() {
	m.Called()
}
