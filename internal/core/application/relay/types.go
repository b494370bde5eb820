package relay

import (
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

// transferRequest adapts a domain.Transfer to ports.TransferRequest.
type transferRequest struct {
	domain.Transfer
}

func (t transferRequest) GetId() string {
	return t.Id
}

func (t transferRequest) GetKind() string {
	return string(t.Kind)
}

func (t transferRequest) GetRecipient() string {
	return t.Recipient
}

func (t transferRequest) GetAmount() string {
	return domain.FormatAmount(t.Amount)
}

func (t transferRequest) GetToken() string {
	return t.Token
}

func (t transferRequest) GetOrderId() string {
	return t.OrderId
}

func (t transferRequest) GetRequestedAt() int64 {
	return t.RequestedAt
}
