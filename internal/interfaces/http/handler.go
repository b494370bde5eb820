package httpinterface

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tdex-network/tdex-escrow/pkg/escrowrpc"
)

type restHandler struct {
	svc escrowrpc.EscrowServiceServer
}

func (h restHandler) deposit(w http.ResponseWriter, r *http.Request) {
	req := &escrowrpc.DepositRequest{}
	if err := decodeBody(r, req); err != nil {
		respondError(w, err)
		return
	}
	res, err := h.svc.Deposit(r.Context(), req)
	respond(w, res, err)
}

func (h restHandler) withdraw(w http.ResponseWriter, r *http.Request) {
	req := &escrowrpc.WithdrawRequest{}
	if err := decodeBody(r, req); err != nil {
		respondError(w, err)
		return
	}
	res, err := h.svc.Withdraw(r.Context(), req)
	respond(w, res, err)
}

func (h restHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	req := &escrowrpc.CreateOrderRequest{}
	if err := decodeBody(r, req); err != nil {
		respondError(w, err)
		return
	}
	res, err := h.svc.CreateOrder(r.Context(), req)
	respond(w, res, err)
}

func (h restHandler) executeOrder(w http.ResponseWriter, r *http.Request) {
	req := &escrowrpc.ExecuteOrderRequest{}
	if err := decodeBody(r, req); err != nil {
		respondError(w, err)
		return
	}
	req.OrderId = mux.Vars(r)["id"]
	res, err := h.svc.ExecuteOrder(r.Context(), req)
	respond(w, res, err)
}

func (h restHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	req := &escrowrpc.CancelOrderRequest{OrderId: mux.Vars(r)["id"]}
	res, err := h.svc.CancelOrder(r.Context(), req)
	respond(w, res, err)
}

func (h restHandler) failOrder(w http.ResponseWriter, r *http.Request) {
	req := &escrowrpc.FailOrderRequest{}
	if err := decodeBody(r, req); err != nil {
		respondError(w, err)
		return
	}
	req.OrderId = mux.Vars(r)["id"]
	res, err := h.svc.FailOrder(r.Context(), req)
	respond(w, res, err)
}

func (h restHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	req := &escrowrpc.GetOrderRequest{OrderId: mux.Vars(r)["id"]}
	res, err := h.svc.GetOrder(r.Context(), req)
	respond(w, res, err)
}

func (h restHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		respondError(w, err)
		return
	}
	query := r.URL.Query()
	req := &escrowrpc.ListOrdersRequest{
		Maker:  query.Get("maker"),
		Status: query.Get("status"),
		Page:   page,
	}
	res, err := h.svc.ListOrders(r.Context(), req)
	respond(w, res, err)
}

func (h restHandler) addSolver(w http.ResponseWriter, r *http.Request) {
	req := &escrowrpc.AddSolverRequest{}
	if err := decodeBody(r, req); err != nil {
		respondError(w, err)
		return
	}
	res, err := h.svc.AddSolver(r.Context(), req)
	respond(w, res, err)
}

func (h restHandler) removeSolver(w http.ResponseWriter, r *http.Request) {
	req := &escrowrpc.RemoveSolverRequest{SolverId: mux.Vars(r)["id"]}
	res, err := h.svc.RemoveSolver(r.Context(), req)
	respond(w, res, err)
}

func (h restHandler) listSolvers(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListSolvers(r.Context(), &escrowrpc.ListSolversRequest{})
	respond(w, res, err)
}

func (h restHandler) isAuthorized(w http.ResponseWriter, r *http.Request) {
	req := &escrowrpc.IsAuthorizedRequest{Account: mux.Vars(r)["account"]}
	res, err := h.svc.IsAuthorized(r.Context(), req)
	respond(w, res, err)
}

func (h restHandler) getBalance(w http.ResponseWriter, r *http.Request) {
	req := &escrowrpc.GetBalanceRequest{Account: mux.Vars(r)["account"]}
	res, err := h.svc.GetBalance(r.Context(), req)
	respond(w, res, err)
}

func (h restHandler) getBalances(w http.ResponseWriter, r *http.Request) {
	req := &escrowrpc.GetBalancesRequest{Account: mux.Vars(r)["account"]}
	res, err := h.svc.GetBalances(r.Context(), req)
	respond(w, res, err)
}

func (h restHandler) getTotalDeposits(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetTotalDeposits(
		r.Context(), &escrowrpc.GetTotalDepositsRequest{},
	)
	respond(w, res, err)
}

func (h restHandler) listTransfers(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		respondError(w, err)
		return
	}
	res, err := h.svc.ListTransfers(
		r.Context(), &escrowrpc.ListTransfersRequest{Page: page},
	)
	respond(w, res, err)
}

func (h restHandler) getStats(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetStats(r.Context(), &escrowrpc.GetStatsRequest{})
	respond(w, res, err)
}

func health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
