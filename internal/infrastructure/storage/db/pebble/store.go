package dbpebble

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

var errReadOnlyTx = errors.New("write attempted within a read-only transaction")

type txKey struct{}

// tx is what a transaction carries in the context. batch is nil for
// read-only transactions.
type tx struct {
	reader pebble.Reader
	batch  *pebble.Batch
}

// kvStore gives repositories JSON access to the db, or to the transaction
// found in the context.
type kvStore struct {
	db *pebble.DB
}

func (s *kvStore) reader(ctx context.Context) pebble.Reader {
	if t, ok := ctx.Value(txKey{}).(*tx); ok {
		return t.reader
	}
	return s.db
}

// get decodes the value of the given key into value and returns whether it
// was found.
func (s *kvStore) get(
	ctx context.Context, key []byte, value interface{},
) (bool, error) {
	data, closer, err := s.reader(ctx).Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	defer closer.Close()

	if err := json.Unmarshal(data, value); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (s *kvStore) set(ctx context.Context, key []byte, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if t, ok := ctx.Value(txKey{}).(*tx); ok {
		if t.batch == nil {
			return errReadOnlyTx
		}
		return t.batch.Set(key, data, nil)
	}
	return s.db.Set(key, data, pebble.Sync)
}

func (s *kvStore) delete(ctx context.Context, key []byte) error {
	if t, ok := ctx.Value(txKey{}).(*tx); ok {
		if t.batch == nil {
			return errReadOnlyTx
		}
		return t.batch.Delete(key, nil)
	}
	return s.db.Delete(key, pebble.Sync)
}

// iterate calls fn with the raw value of every key with the given prefix, in
// key order.
func (s *kvStore) iterate(
	ctx context.Context, prefix []byte, fn func(value []byte) error,
) error {
	iter, err := s.reader(ctx).NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

func keyUpperBound(prefix []byte) []byte {
	bound := make([]byte, len(prefix))
	copy(bound, prefix)
	bound[len(bound)-1]++
	return bound
}

const (
	prefixAccount  = "acc:"
	prefixOrder    = "ord:"
	prefixTransfer = "trf:"
	prefixSolver   = "slv:"
	keyStats       = "stats"
)

func accountKey(id string) []byte  { return []byte(prefixAccount + id) }
func orderKey(id string) []byte    { return []byte(prefixOrder + id) }
func transferKey(id string) []byte { return []byte(prefixTransfer + id) }
func solverKey(id string) []byte   { return []byte(prefixSolver + id) }
