package ports

import "context"

// TransferRequest is the payout handed to a TransferSink.
type TransferRequest interface {
	GetId() string
	GetKind() string
	GetRecipient() string
	// GetAmount returns the amount in base units as a decimal string.
	GetAmount() string
	GetToken() string
	GetOrderId() string
	GetRequestedAt() int64
}

// TransferSink is the external collaborator that actually moves funds out of
// the escrow. It may be called more than once for the same request, the
// request id can be used to deduplicate deliveries.
type TransferSink interface {
	SendTransfer(ctx context.Context, req TransferRequest) error
	Close()
}
