package escrow_test

import (
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

// **** Publisher ****

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(topic, message string) error {
	args := m.Called(topic, message)
	return args.Error(0)
}

// **** TransferNotifier ****

type mockNotifier struct {
	lock      sync.Mutex
	transfers []domain.Transfer
}

func (m *mockNotifier) NotifyTransfer(transfer domain.Transfer) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.transfers = append(m.transfers, transfer)
}

func (m *mockNotifier) notified() []domain.Transfer {
	m.lock.Lock()
	defer m.lock.Unlock()

	return append([]domain.Transfer{}, m.transfers...)
}
