package domain

import "context"

// TransferRepository is the abstraction for any kind of database intended to
// persist the transfer outbox.
type TransferRepository interface {
	AddTransfer(ctx context.Context, transfer *Transfer) error
	// GetTransfer returns the transfer with the given id or
	// ErrTransferNotFound.
	GetTransfer(ctx context.Context, id string) (*Transfer, error)
	UpdateTransfer(
		ctx context.Context,
		id string,
		updateFn func(t *Transfer) (*Transfer, error),
	) error
	// ListRequestedTransfers returns the not yet dispatched transfers, oldest
	// first.
	ListRequestedTransfers(ctx context.Context) ([]Transfer, error)
	// ListTransfers returns all transfers, newest first. A nil page returns
	// all of them.
	ListTransfers(ctx context.Context, page *Page) ([]Transfer, error)
}
