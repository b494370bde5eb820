package escrowrpc

// Amounts are base unit integers serialized as decimal strings, timestamps
// are unix nanoseconds.

type Page struct {
	Number int64 `json:"number"`
	Size   int64 `json:"size"`
}

type Order struct {
	Id         string `json:"id"`
	Maker      string `json:"maker"`
	Taker      string `json:"taker,omitempty"`
	Amount     string `json:"amount"`
	Token      string `json:"token,omitempty"`
	Status     string `json:"status"`
	FailReason string `json:"fail_reason,omitempty"`
	CreatedAt  int64  `json:"created_at"`
	ExecutedAt int64  `json:"executed_at,omitempty"`
}

type Transfer struct {
	Id           string `json:"id"`
	Kind         string `json:"kind"`
	Recipient    string `json:"recipient"`
	Amount       string `json:"amount"`
	Token        string `json:"token,omitempty"`
	OrderId      string `json:"order_id,omitempty"`
	Status       string `json:"status"`
	RequestedAt  int64  `json:"requested_at"`
	DispatchedAt int64  `json:"dispatched_at,omitempty"`
	Attempts     int    `json:"attempts"`
	LastError    string `json:"last_error,omitempty"`
}

type TokenBalance struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

type Solver struct {
	Id      string `json:"id"`
	AddedAt int64  `json:"added_at"`
}

type DepositRequest struct {
	Amount string `json:"amount"`
}
type DepositResponse struct {
	Balance string `json:"balance"`
}

type WithdrawRequest struct {
	Amount string `json:"amount"`
}
type WithdrawResponse struct {
	Transfer *Transfer `json:"transfer,omitempty"`
}

type CreateOrderRequest struct {
	OrderId string `json:"order_id"`
	Amount  string `json:"amount"`
}
type CreateOrderResponse struct {
	Order *Order `json:"order"`
}

type ExecuteOrderRequest struct {
	OrderId string `json:"order_id"`
	Taker   string `json:"taker"`
	Amount  string `json:"amount"`
}
type ExecuteOrderResponse struct {
	Order    *Order    `json:"order"`
	Transfer *Transfer `json:"transfer,omitempty"`
}

type CancelOrderRequest struct {
	OrderId string `json:"order_id"`
}
type CancelOrderResponse struct {
	Order *Order `json:"order"`
}

type FailOrderRequest struct {
	OrderId string `json:"order_id"`
	Reason  string `json:"reason"`
}
type FailOrderResponse struct {
	Order *Order `json:"order"`
}

type AddSolverRequest struct {
	SolverId string `json:"solver_id"`
}
type AddSolverResponse struct{}

type RemoveSolverRequest struct {
	SolverId string `json:"solver_id"`
}
type RemoveSolverResponse struct{}

type ListSolversRequest struct{}
type ListSolversResponse struct {
	Solvers []Solver `json:"solvers"`
}

type IsAuthorizedRequest struct {
	Account string `json:"account"`
}
type IsAuthorizedResponse struct {
	Authorized bool `json:"authorized"`
}

type GetBalanceRequest struct {
	Account string `json:"account"`
}
type GetBalanceResponse struct {
	Balance string `json:"balance"`
}

type GetBalancesRequest struct {
	Account string `json:"account"`
}
type GetBalancesResponse struct {
	Balances []TokenBalance `json:"balances"`
}

type GetOrderRequest struct {
	OrderId string `json:"order_id"`
}
type GetOrderResponse struct {
	Order *Order `json:"order"`
}

type ListOrdersRequest struct {
	Maker  string `json:"maker,omitempty"`
	Status string `json:"status,omitempty"`
	Page   *Page  `json:"page,omitempty"`
}
type ListOrdersResponse struct {
	Orders []Order `json:"orders"`
}

type GetTotalDepositsRequest struct{}
type GetTotalDepositsResponse struct {
	TotalDeposits string `json:"total_deposits"`
}

type ListTransfersRequest struct {
	Page *Page `json:"page,omitempty"`
}
type ListTransfersResponse struct {
	Transfers []Transfer `json:"transfers"`
}

type GetStatsRequest struct{}
type GetStatsResponse struct {
	Owner            string         `json:"owner"`
	TotalDeposits    string         `json:"total_deposits"`
	NumOfAccounts    int            `json:"num_of_accounts"`
	OrdersByStatus   map[string]int `json:"orders_by_status"`
	PendingTransfers int            `json:"pending_transfers"`
}
