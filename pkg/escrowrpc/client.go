package escrowrpc

import (
	"context"

	"github.com/tdex-network/tdex-escrow/pkg/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client is the client API of the escrow service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc}
}

// Dial connects to the escrow service listening at the given address. If a
// token is given, it's attached to every request as bearer token.
func Dial(address, token string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append(
		[]grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
		},
		opts...,
	)
	if len(token) > 0 {
		opts = append(opts, grpc.WithPerRPCCredentials(
			auth.NewTokenCredential(token, false),
		))
	}
	return grpc.Dial(address, opts...)
}

func (c *Client) Deposit(
	ctx context.Context, in *DepositRequest, opts ...grpc.CallOption,
) (*DepositResponse, error) {
	return invoke[DepositResponse](ctx, c.cc, "Deposit", in, opts)
}

func (c *Client) Withdraw(
	ctx context.Context, in *WithdrawRequest, opts ...grpc.CallOption,
) (*WithdrawResponse, error) {
	return invoke[WithdrawResponse](ctx, c.cc, "Withdraw", in, opts)
}

func (c *Client) CreateOrder(
	ctx context.Context, in *CreateOrderRequest, opts ...grpc.CallOption,
) (*CreateOrderResponse, error) {
	return invoke[CreateOrderResponse](ctx, c.cc, "CreateOrder", in, opts)
}

func (c *Client) ExecuteOrder(
	ctx context.Context, in *ExecuteOrderRequest, opts ...grpc.CallOption,
) (*ExecuteOrderResponse, error) {
	return invoke[ExecuteOrderResponse](ctx, c.cc, "ExecuteOrder", in, opts)
}

func (c *Client) CancelOrder(
	ctx context.Context, in *CancelOrderRequest, opts ...grpc.CallOption,
) (*CancelOrderResponse, error) {
	return invoke[CancelOrderResponse](ctx, c.cc, "CancelOrder", in, opts)
}

func (c *Client) FailOrder(
	ctx context.Context, in *FailOrderRequest, opts ...grpc.CallOption,
) (*FailOrderResponse, error) {
	return invoke[FailOrderResponse](ctx, c.cc, "FailOrder", in, opts)
}

func (c *Client) AddSolver(
	ctx context.Context, in *AddSolverRequest, opts ...grpc.CallOption,
) (*AddSolverResponse, error) {
	return invoke[AddSolverResponse](ctx, c.cc, "AddSolver", in, opts)
}

func (c *Client) RemoveSolver(
	ctx context.Context, in *RemoveSolverRequest, opts ...grpc.CallOption,
) (*RemoveSolverResponse, error) {
	return invoke[RemoveSolverResponse](ctx, c.cc, "RemoveSolver", in, opts)
}

func (c *Client) ListSolvers(
	ctx context.Context, in *ListSolversRequest, opts ...grpc.CallOption,
) (*ListSolversResponse, error) {
	return invoke[ListSolversResponse](ctx, c.cc, "ListSolvers", in, opts)
}

func (c *Client) IsAuthorized(
	ctx context.Context, in *IsAuthorizedRequest, opts ...grpc.CallOption,
) (*IsAuthorizedResponse, error) {
	return invoke[IsAuthorizedResponse](ctx, c.cc, "IsAuthorized", in, opts)
}

func (c *Client) GetBalance(
	ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption,
) (*GetBalanceResponse, error) {
	return invoke[GetBalanceResponse](ctx, c.cc, "GetBalance", in, opts)
}

func (c *Client) GetBalances(
	ctx context.Context, in *GetBalancesRequest, opts ...grpc.CallOption,
) (*GetBalancesResponse, error) {
	return invoke[GetBalancesResponse](ctx, c.cc, "GetBalances", in, opts)
}

func (c *Client) GetOrder(
	ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption,
) (*GetOrderResponse, error) {
	return invoke[GetOrderResponse](ctx, c.cc, "GetOrder", in, opts)
}

func (c *Client) ListOrders(
	ctx context.Context, in *ListOrdersRequest, opts ...grpc.CallOption,
) (*ListOrdersResponse, error) {
	return invoke[ListOrdersResponse](ctx, c.cc, "ListOrders", in, opts)
}

func (c *Client) GetTotalDeposits(
	ctx context.Context, in *GetTotalDepositsRequest, opts ...grpc.CallOption,
) (*GetTotalDepositsResponse, error) {
	return invoke[GetTotalDepositsResponse](ctx, c.cc, "GetTotalDeposits", in, opts)
}

func (c *Client) ListTransfers(
	ctx context.Context, in *ListTransfersRequest, opts ...grpc.CallOption,
) (*ListTransfersResponse, error) {
	return invoke[ListTransfersResponse](ctx, c.cc, "ListTransfers", in, opts)
}

func (c *Client) GetStats(
	ctx context.Context, in *GetStatsRequest, opts ...grpc.CallOption,
) (*GetStatsResponse, error) {
	return invoke[GetStatsResponse](ctx, c.cc, "GetStats", in, opts)
}

func invoke[Res any](
	ctx context.Context, cc grpc.ClientConnInterface,
	method string, in interface{}, opts []grpc.CallOption,
) (*Res, error) {
	out := new(Res)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
