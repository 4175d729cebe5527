// Package memory is a process-local credential store. It backs tests and
// DATABASE_DRIVER=memory for local development; data is lost on exit.
package memory

import (
	"context"
	"sync"
	"time"

	"ecommerce-multivendor/internal/domain/address"
	"ecommerce-multivendor/internal/domain/product"
	"ecommerce-multivendor/internal/domain/user"
)

type txKey struct{}

// txState records how to undo every row a transaction wrote.
type txState struct {
	undo []func()
}

// Store holds every table. Records are stored by value and references are
// kept as ids, so callers never share memory with the store.
type Store struct {
	mu        sync.RWMutex
	users     map[uint]user.User
	addresses map[uint]address.Address
	products  map[uint]product.Product

	// Ids are never handed out twice, even after a rollback.
	nextUserID    uint
	nextAddressID uint
	nextProductID uint

	// txMu serialises transactions. Writes outside a transaction do not
	// take it.
	txMu sync.Mutex

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:     make(map[uint]user.User),
		addresses: make(map[uint]address.Address),
		products:  make(map[uint]product.Product),
		now:       time.Now,
	}
}

// WithinTransaction runs fn while holding the transaction lock. When fn fails
// only the rows written through its ctx are put back; writes made by anyone
// else in the meantime survive. Nested calls join the outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &txState{}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		s.mu.Lock()
		tx.rollback()
		s.mu.Unlock()
		return err
	}

	return nil
}

// batch makes a multi-row write all-or-nothing. Inside a transaction it
// returns ctx unchanged. Callers hold the write lock and call the returned
// function when the batch fails.
func batch(ctx context.Context) (context.Context, func()) {
	if txFrom(ctx) != nil {
		return ctx, func() {}
	}

	tx := &txState{}
	return context.WithValue(ctx, txKey{}, tx), tx.rollback
}

func txFrom(ctx context.Context) *txState {
	tx, _ := ctx.Value(txKey{}).(*txState)
	return tx
}

func (tx *txState) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

// remember records the current value of table[id] so the transaction bound
// to ctx can restore it. Callers hold the write lock.
func remember[V any](ctx context.Context, table map[uint]V, id uint) {
	tx := txFrom(ctx)
	if tx == nil {
		return
	}

	prev, existed := table[id]
	tx.undo = append(tx.undo, func() {
		if existed {
			table[id] = prev
		} else {
			delete(table, id)
		}
	})
}

// Health always succeeds; it mirrors the postgres connection check.
func (s *Store) Health() error {
	return nil
}

// Counts reports how many users, addresses and products are stored.
func (s *Store) Counts() (users, addresses, products int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users), len(s.addresses), len(s.products)
}

func copyUint(v *uint) *uint {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
