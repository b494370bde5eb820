package inmemory

import "context"

type journalKey struct{}

// journal collects the undo actions of the writes made within a transaction.
type journal struct {
	undo []func()
}

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// recordUndo registers fn to be called if the transaction carried by ctx, if
// any, is rolled back. fn is called without any store lock held.
func recordUndo(ctx context.Context, fn func()) {
	if j, ok := ctx.Value(journalKey{}).(*journal); ok {
		j.undo = append(j.undo, fn)
	}
}
