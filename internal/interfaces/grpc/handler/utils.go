package grpchandler

import (
	"context"
	"errors"
	"math"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/pkg/auth"
	"github.com/tdex-network/tdex-escrow/pkg/escrowrpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errMissingCaller = errors.New("missing caller, a bearer token is required")

func parseCaller(ctx context.Context) (string, error) {
	caller, ok := auth.CallerFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, errMissingCaller.Error())
	}
	return caller, nil
}

func parseAmount(amount string) (decimal.Decimal, error) {
	if len(amount) <= 0 {
		return decimal.Zero, status.Error(codes.InvalidArgument, "missing amount")
	}
	a, err := domain.ParseAmount(amount)
	if err != nil {
		return decimal.Zero, status.Error(codes.InvalidArgument, err.Error())
	}
	return a, nil
}

func parseId(id, name string) (string, error) {
	if len(id) <= 0 {
		return "", status.Errorf(codes.InvalidArgument, "missing %s", name)
	}
	return id, nil
}

func parsePage(page *escrowrpc.Page) *domain.Page {
	if page == nil {
		return nil
	}
	p := domain.NewPage(toInt(page.Number), toInt(page.Size))
	return &p
}

// toInt saturates v to the int range of the platform.
func toInt(v int64) int {
	if v > math.MaxInt {
		return math.MaxInt
	}
	if v < math.MinInt {
		return math.MinInt
	}
	return int(v)
}

func parseOrderFilter(req *escrowrpc.ListOrdersRequest) (domain.OrderFilter, error) {
	filter := domain.OrderFilter{Maker: req.Maker}
	if len(req.Status) > 0 {
		st, err := domain.ParseOrderStatus(req.Status)
		if err != nil {
			return filter, status.Error(codes.InvalidArgument, err.Error())
		}
		filter.Status = &st
	}
	return filter, nil
}

// toStatusError maps the errors returned by the escrow service to gRPC
// status errors.
func toStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	code := codes.Internal
	switch {
	case domain.IsInvalidInput(err),
		errors.Is(err, domain.ErrOrderAmountMismatch):
		code = codes.InvalidArgument
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrTransferNotFound):
		code = codes.NotFound
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrOrderNotPending):
		code = codes.FailedPrecondition
	case errors.Is(err, domain.ErrUnauthorized):
		code = codes.PermissionDenied
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	}
	return status.Error(code, err.Error())
}

func orderInfo(o *domain.Order) *escrowrpc.Order {
	if o == nil {
		return nil
	}
	return &escrowrpc.Order{
		Id:         o.Id,
		Maker:      o.Maker,
		Taker:      o.Taker,
		Amount:     domain.FormatAmount(o.Amount),
		Token:      o.Token,
		Status:     o.Status.String(),
		FailReason: o.FailReason,
		CreatedAt:  o.CreatedAt,
		ExecutedAt: o.ExecutedAt,
	}
}

func ordersInfo(orders []domain.Order) []escrowrpc.Order {
	list := make([]escrowrpc.Order, 0, len(orders))
	for i := range orders {
		list = append(list, *orderInfo(&orders[i]))
	}
	return list
}

func transferInfo(t *domain.Transfer) *escrowrpc.Transfer {
	if t == nil {
		return nil
	}
	return &escrowrpc.Transfer{
		Id:           t.Id,
		Kind:         string(t.Kind),
		Recipient:    t.Recipient,
		Amount:       domain.FormatAmount(t.Amount),
		Token:        t.Token,
		OrderId:      t.OrderId,
		Status:       t.Status.String(),
		RequestedAt:  t.RequestedAt,
		DispatchedAt: t.DispatchedAt,
		Attempts:     t.Attempts,
		LastError:    t.LastError,
	}
}

func transfersInfo(transfers []domain.Transfer) []escrowrpc.Transfer {
	list := make([]escrowrpc.Transfer, 0, len(transfers))
	for i := range transfers {
		list = append(list, *transferInfo(&transfers[i]))
	}
	return list
}

func solversInfo(solvers []domain.Solver) []escrowrpc.Solver {
	list := make([]escrowrpc.Solver, 0, len(solvers))
	for _, s := range solvers {
		list = append(list, escrowrpc.Solver{Id: s.Id, AddedAt: s.AddedAt})
	}
	return list
}

func balancesInfo(balances []domain.TokenBalance) []escrowrpc.TokenBalance {
	list := make([]escrowrpc.TokenBalance, 0, len(balances))
	for _, b := range balances {
		list = append(list, escrowrpc.TokenBalance{
			Token:  b.Token,
			Amount: domain.FormatAmount(b.Amount),
		})
	}
	return list
}

func statsInfo(owner string, stats *escrow.Stats) *escrowrpc.GetStatsResponse {
	ordersByStatus := make(map[string]int)
	for st, count := range stats.OrdersByStatus {
		ordersByStatus[st.String()] = count
	}
	return &escrowrpc.GetStatsResponse{
		Owner:            owner,
		TotalDeposits:    domain.FormatAmount(stats.TotalDeposits),
		NumOfAccounts:    stats.NumOfAccounts,
		OrdersByStatus:   ordersByStatus,
		PendingTransfers: stats.PendingTransfers,
	}
}
