package grpchandler

import (
	"context"

	"github.com/tdex-network/tdex-escrow/internal/core/application"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/pkg/escrowrpc"
)

type escrowHandler struct {
	escrowSvc application.EscrowService
}

// NewEscrowHandler is a constructor function returning an
// escrowrpc.EscrowServiceServer. The caller of restricted methods is
// expected to be in the context, put there by the auth interceptor.
func NewEscrowHandler(
	escrowSvc application.EscrowService,
) escrowrpc.EscrowServiceServer {
	return &escrowHandler{escrowSvc}
}

func (h *escrowHandler) Deposit(
	ctx context.Context, req *escrowrpc.DepositRequest,
) (*escrowrpc.DepositResponse, error) {
	caller, err := parseCaller(ctx)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	balance, err := h.escrowSvc.Deposit(ctx, caller, amount)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &escrowrpc.DepositResponse{
		Balance: domain.FormatAmount(balance),
	}, nil
}

func (h *escrowHandler) Withdraw(
	ctx context.Context, req *escrowrpc.WithdrawRequest,
) (*escrowrpc.WithdrawResponse, error) {
	caller, err := parseCaller(ctx)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	transfer, err := h.escrowSvc.Withdraw(ctx, caller, amount)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &escrowrpc.WithdrawResponse{
		Transfer: transferInfo(transfer),
	}, nil
}

func (h *escrowHandler) CreateOrder(
	ctx context.Context, req *escrowrpc.CreateOrderRequest,
) (*escrowrpc.CreateOrderResponse, error) {
	caller, err := parseCaller(ctx)
	if err != nil {
		return nil, err
	}
	orderId, err := parseId(req.OrderId, "order id")
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	order, err := h.escrowSvc.CreateOrder(ctx, caller, orderId, amount)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &escrowrpc.CreateOrderResponse{
		Order: orderInfo(order),
	}, nil
}

func (h *escrowHandler) ExecuteOrder(
	ctx context.Context, req *escrowrpc.ExecuteOrderRequest,
) (*escrowrpc.ExecuteOrderResponse, error) {
	caller, err := parseCaller(ctx)
	if err != nil {
		return nil, err
	}
	orderId, err := parseId(req.OrderId, "order id")
	if err != nil {
		return nil, err
	}
	taker, err := parseId(req.Taker, "taker")
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	order, transfer, err := h.escrowSvc.ExecuteOrder(
		ctx, caller, orderId, taker, amount,
	)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &escrowrpc.ExecuteOrderResponse{
		Order:    orderInfo(order),
		Transfer: transferInfo(transfer),
	}, nil
}

func (h *escrowHandler) CancelOrder(
	ctx context.Context, req *escrowrpc.CancelOrderRequest,
) (*escrowrpc.CancelOrderResponse, error) {
	caller, err := parseCaller(ctx)
	if err != nil {
		return nil, err
	}
	orderId, err := parseId(req.OrderId, "order id")
	if err != nil {
		return nil, err
	}

	order, err := h.escrowSvc.CancelOrder(ctx, caller, orderId)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &escrowrpc.CancelOrderResponse{
		Order: orderInfo(order),
	}, nil
}

func (h *escrowHandler) FailOrder(
	ctx context.Context, req *escrowrpc.FailOrderRequest,
) (*escrowrpc.FailOrderResponse, error) {
	caller, err := parseCaller(ctx)
	if err != nil {
		return nil, err
	}
	orderId, err := parseId(req.OrderId, "order id")
	if err != nil {
		return nil, err
	}

	order, err := h.escrowSvc.FailOrder(ctx, caller, orderId, req.Reason)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &escrowrpc.FailOrderResponse{
		Order: orderInfo(order),
	}, nil
}

func (h *escrowHandler) AddSolver(
	ctx context.Context, req *escrowrpc.AddSolverRequest,
) (*escrowrpc.AddSolverResponse, error) {
	caller, err := parseCaller(ctx)
	if err != nil {
		return nil, err
	}
	solverId, err := parseId(req.SolverId, "solver id")
	if err != nil {
		return nil, err
	}

	if err := h.escrowSvc.AddSolver(ctx, caller, solverId); err != nil {
		return nil, toStatusError(err)
	}
	return &escrowrpc.AddSolverResponse{}, nil
}

func (h *escrowHandler) RemoveSolver(
	ctx context.Context, req *escrowrpc.RemoveSolverRequest,
) (*escrowrpc.RemoveSolverResponse, error) {
	caller, err := parseCaller(ctx)
	if err != nil {
		return nil, err
	}
	solverId, err := parseId(req.SolverId, "solver id")
	if err != nil {
		return nil, err
	}

	if err := h.escrowSvc.RemoveSolver(ctx, caller, solverId); err != nil {
		return nil, toStatusError(err)
	}
	return &escrowrpc.RemoveSolverResponse{}, nil
}

func (h *escrowHandler) ListSolvers(
	ctx context.Context, _ *escrowrpc.ListSolversRequest,
) (*escrowrpc.ListSolversResponse, error) {
	solvers, err := h.escrowSvc.ListSolvers(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &escrowrpc.ListSolversResponse{
		Solvers: solversInfo(solvers),
	}, nil
}

func (h *escrowHandler) IsAuthorized(
	ctx context.Context, req *escrowrpc.IsAuthorizedRequest,
) (*escrowrpc.IsAuthorizedResponse, error) {
	account, err := parseId(req.Account, "account")
	if err != nil {
		return nil, err
	}

	authorized, err := h.escrowSvc.IsAuthorized(ctx, account)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &escrowrpc.IsAuthorizedResponse{Authorized: authorized}, nil
}

func (h *escrowHandler) GetBalance(
	ctx context.Context, req *escrowrpc.GetBalanceRequest,
) (*escrowrpc.GetBalanceResponse, error) {
	account, err := parseId(req.Account, "account")
	if err != nil {
		return nil, err
	}

	balance, err := h.escrowSvc.GetBalance(ctx, account)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &escrowrpc.GetBalanceResponse{Balance: domain.FormatAmount(balance)}, nil
}

func (h *escrowHandler) GetBalances(
	ctx context.Context, req *escrowrpc.GetBalancesRequest,
) (*escrowrpc.GetBalancesResponse, error) {
	account, err := parseId(req.Account, "account")
	if err != nil {
		return nil, err
	}

	balances, err := h.escrowSvc.GetBalances(ctx, account)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &escrowrpc.GetBalancesResponse{
		Balances: balancesInfo(balances),
	}, nil
}

func (h *escrowHandler) GetOrder(
	ctx context.Context, req *escrowrpc.GetOrderRequest,
) (*escrowrpc.GetOrderResponse, error) {
	orderId, err := parseId(req.OrderId, "order id")
	if err != nil {
		return nil, err
	}

	order, err := h.escrowSvc.GetOrder(ctx, orderId)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &escrowrpc.GetOrderResponse{Order: orderInfo(order)}, nil
}

func (h *escrowHandler) ListOrders(
	ctx context.Context, req *escrowrpc.ListOrdersRequest,
) (*escrowrpc.ListOrdersResponse, error) {
	filter, err := parseOrderFilter(req)
	if err != nil {
		return nil, err
	}

	orders, err := h.escrowSvc.ListOrders(ctx, filter, parsePage(req.Page))
	if err != nil {
		return nil, toStatusError(err)
	}
	return &escrowrpc.ListOrdersResponse{Orders: ordersInfo(orders)}, nil
}

func (h *escrowHandler) GetTotalDeposits(
	ctx context.Context, _ *escrowrpc.GetTotalDepositsRequest,
) (*escrowrpc.GetTotalDepositsResponse, error) {
	total, err := h.escrowSvc.GetTotalDeposits(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &escrowrpc.GetTotalDepositsResponse{
		TotalDeposits: domain.FormatAmount(total),
	}, nil
}

func (h *escrowHandler) ListTransfers(
	ctx context.Context, req *escrowrpc.ListTransfersRequest,
) (*escrowrpc.ListTransfersResponse, error) {
	transfers, err := h.escrowSvc.ListTransfers(ctx, parsePage(req.Page))
	if err != nil {
		return nil, toStatusError(err)
	}
	return &escrowrpc.ListTransfersResponse{
		Transfers: transfersInfo(transfers),
	}, nil
}

func (h *escrowHandler) GetStats(
	ctx context.Context, _ *escrowrpc.GetStatsRequest,
) (*escrowrpc.GetStatsResponse, error) {
	stats, err := h.escrowSvc.GetStats(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	return statsInfo(h.escrowSvc.Owner(), stats), nil
}
