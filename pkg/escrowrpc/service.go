package escrowrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
)

const ServiceName = "escrow.v1.EscrowService"

// EscrowServiceServer is the server API of the escrow service.
type EscrowServiceServer interface {
	Deposit(context.Context, *DepositRequest) (*DepositResponse, error)
	Withdraw(context.Context, *WithdrawRequest) (*WithdrawResponse, error)
	CreateOrder(context.Context, *CreateOrderRequest) (*CreateOrderResponse, error)
	ExecuteOrder(context.Context, *ExecuteOrderRequest) (*ExecuteOrderResponse, error)
	CancelOrder(context.Context, *CancelOrderRequest) (*CancelOrderResponse, error)
	FailOrder(context.Context, *FailOrderRequest) (*FailOrderResponse, error)
	AddSolver(context.Context, *AddSolverRequest) (*AddSolverResponse, error)
	RemoveSolver(context.Context, *RemoveSolverRequest) (*RemoveSolverResponse, error)
	ListSolvers(context.Context, *ListSolversRequest) (*ListSolversResponse, error)
	IsAuthorized(context.Context, *IsAuthorizedRequest) (*IsAuthorizedResponse, error)
	GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error)
	GetBalances(context.Context, *GetBalancesRequest) (*GetBalancesResponse, error)
	GetOrder(context.Context, *GetOrderRequest) (*GetOrderResponse, error)
	ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error)
	GetTotalDeposits(context.Context, *GetTotalDepositsRequest) (*GetTotalDepositsResponse, error)
	ListTransfers(context.Context, *ListTransfersRequest) (*ListTransfersResponse, error)
	GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error)
}

// FullMethod returns the gRPC full method name of the given rpc.
func FullMethod(method string) string {
	return fmt.Sprintf("/%s/%s", ServiceName, method)
}

func RegisterEscrowServiceServer(s grpc.ServiceRegistrar, srv EscrowServiceServer) {
	s.RegisterService(&EscrowService_ServiceDesc, srv)
}

// EscrowService_ServiceDesc is the grpc.ServiceDesc of the escrow service.
var EscrowService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EscrowServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Deposit",
			Handler:    unaryHandler("Deposit", EscrowServiceServer.Deposit),
		},
		{
			MethodName: "Withdraw",
			Handler:    unaryHandler("Withdraw", EscrowServiceServer.Withdraw),
		},
		{
			MethodName: "CreateOrder",
			Handler:    unaryHandler("CreateOrder", EscrowServiceServer.CreateOrder),
		},
		{
			MethodName: "ExecuteOrder",
			Handler:    unaryHandler("ExecuteOrder", EscrowServiceServer.ExecuteOrder),
		},
		{
			MethodName: "CancelOrder",
			Handler:    unaryHandler("CancelOrder", EscrowServiceServer.CancelOrder),
		},
		{
			MethodName: "FailOrder",
			Handler:    unaryHandler("FailOrder", EscrowServiceServer.FailOrder),
		},
		{
			MethodName: "AddSolver",
			Handler:    unaryHandler("AddSolver", EscrowServiceServer.AddSolver),
		},
		{
			MethodName: "RemoveSolver",
			Handler:    unaryHandler("RemoveSolver", EscrowServiceServer.RemoveSolver),
		},
		{
			MethodName: "ListSolvers",
			Handler:    unaryHandler("ListSolvers", EscrowServiceServer.ListSolvers),
		},
		{
			MethodName: "IsAuthorized",
			Handler:    unaryHandler("IsAuthorized", EscrowServiceServer.IsAuthorized),
		},
		{
			MethodName: "GetBalance",
			Handler:    unaryHandler("GetBalance", EscrowServiceServer.GetBalance),
		},
		{
			MethodName: "GetBalances",
			Handler:    unaryHandler("GetBalances", EscrowServiceServer.GetBalances),
		},
		{
			MethodName: "GetOrder",
			Handler:    unaryHandler("GetOrder", EscrowServiceServer.GetOrder),
		},
		{
			MethodName: "ListOrders",
			Handler:    unaryHandler("ListOrders", EscrowServiceServer.ListOrders),
		},
		{
			MethodName: "GetTotalDeposits",
			Handler:    unaryHandler("GetTotalDeposits", EscrowServiceServer.GetTotalDeposits),
		},
		{
			MethodName: "ListTransfers",
			Handler:    unaryHandler("ListTransfers", EscrowServiceServer.ListTransfers),
		},
		{
			MethodName: "GetStats",
			Handler:    unaryHandler("GetStats", EscrowServiceServer.GetStats),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "escrow/v1/service.json",
}

func unaryHandler[Req any, Res any](
	method string,
	call func(EscrowServiceServer, context.Context, *Req) (*Res, error),
) func(
	interface{}, context.Context, func(interface{}) error,
	grpc.UnaryServerInterceptor,
) (interface{}, error) {
	return func(
		srv interface{}, ctx context.Context,
		dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor,
	) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(EscrowServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(EscrowServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
