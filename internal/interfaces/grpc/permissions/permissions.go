package permissions

import (
	"fmt"

	"github.com/tdex-network/tdex-escrow/pkg/escrowrpc"
)

const (
	EntityAccount = "account"
	EntityOrder   = "order"
	EntitySolver  = "solver"
	EntityLedger  = "ledger"

	ActionRead  = "read"
	ActionWrite = "write"
)

// Op is an action over an entity of the ledger.
type Op struct {
	Entity string
	Action string
}

// Whitelist returns the list of all methods that can be called without a
// bearer token with the relative entity and action.
func Whitelist() map[string][]Op {
	return map[string][]Op{
		escrowrpc.FullMethod("ListSolvers"): {{
			Entity: EntitySolver,
			Action: ActionRead,
		}},
		escrowrpc.FullMethod("IsAuthorized"): {{
			Entity: EntitySolver,
			Action: ActionRead,
		}},
		escrowrpc.FullMethod("GetBalance"): {{
			Entity: EntityAccount,
			Action: ActionRead,
		}},
		escrowrpc.FullMethod("GetBalances"): {{
			Entity: EntityAccount,
			Action: ActionRead,
		}},
		escrowrpc.FullMethod("GetOrder"): {{
			Entity: EntityOrder,
			Action: ActionRead,
		}},
		escrowrpc.FullMethod("ListOrders"): {{
			Entity: EntityOrder,
			Action: ActionRead,
		}},
		escrowrpc.FullMethod("GetTotalDeposits"): {{
			Entity: EntityLedger,
			Action: ActionRead,
		}},
		escrowrpc.FullMethod("ListTransfers"): {{
			Entity: EntityLedger,
			Action: ActionRead,
		}},
		escrowrpc.FullMethod("GetStats"): {{
			Entity: EntityLedger,
			Action: ActionRead,
		}},
	}
}

// AllPermissionsByMethod returns a mapping of the RPC server calls that
// require an authenticated caller to the permissions they require.
func AllPermissionsByMethod() map[string][]Op {
	return map[string][]Op{
		escrowrpc.FullMethod("Deposit"): {{
			Entity: EntityAccount,
			Action: ActionWrite,
		}},
		escrowrpc.FullMethod("Withdraw"): {{
			Entity: EntityAccount,
			Action: ActionWrite,
		}},
		escrowrpc.FullMethod("CreateOrder"): {{
			Entity: EntityOrder,
			Action: ActionWrite,
		}},
		escrowrpc.FullMethod("ExecuteOrder"): {{
			Entity: EntityOrder,
			Action: ActionWrite,
		}, {
			Entity: EntityAccount,
			Action: ActionWrite,
		}},
		escrowrpc.FullMethod("CancelOrder"): {{
			Entity: EntityOrder,
			Action: ActionWrite,
		}},
		escrowrpc.FullMethod("FailOrder"): {{
			Entity: EntityOrder,
			Action: ActionWrite,
		}},
		escrowrpc.FullMethod("AddSolver"): {{
			Entity: EntitySolver,
			Action: ActionWrite,
		}},
		escrowrpc.FullMethod("RemoveSolver"): {{
			Entity: EntitySolver,
			Action: ActionWrite,
		}},
	}
}

// IsWhitelisted returns whether the given method can be called without
// authentication.
func IsWhitelisted(method string) bool {
	_, ok := Whitelist()[method]
	return ok
}

// Validate makes sure every method of the service is either whitelisted or
// restricted, but not both.
func Validate() error {
	whitelist := Whitelist()
	restricted := AllPermissionsByMethod()

	for method := range whitelist {
		if _, ok := restricted[method]; ok {
			return fmt.Errorf("method %s is both whitelisted and restricted", method)
		}
	}

	for _, m := range escrowrpc.EscrowService_ServiceDesc.Methods {
		method := escrowrpc.FullMethod(m.MethodName)
		_, isWhitelisted := whitelist[method]
		_, isRestricted := restricted[method]
		if !isWhitelisted && !isRestricted {
			return fmt.Errorf("missing permissions for method %s", method)
		}
	}
	return nil
}
