// Package db provides database utilities including transaction management and query scopes.
package db

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// txKey is the context key for storing transaction.
type txKey struct{}

type txState struct {
	tx *gorm.DB

	mu          sync.Mutex
	afterCommit []func(ctx context.Context)
}

// TransactionManager manages database transactions.
type TransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a new TransactionManager.
func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction executes fn within a database transaction. Repositories
// called with the derived context join the transaction through GetTxFromContext.
// A nested call reuses the outer transaction. Hooks registered with AfterCommit
// run with the caller's context once the outermost transaction has committed.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return fn(ctx)
	}

	state := &txState{}
	err := tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state.tx = tx
		return fn(context.WithValue(ctx, txKey{}, state))
	})
	if err != nil {
		return err
	}

	state.mu.Lock()
	hooks := state.afterCommit
	state.mu.Unlock()
	for _, hook := range hooks {
		hook(ctx)
	}
	return nil
}

// GetTxFromContext returns the transaction from context if available.
func GetTxFromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if state, ok := ctx.Value(txKey{}).(*txState); ok && state.tx != nil {
		return state.tx
	}
	return defaultDB.WithContext(ctx)
}

// InTransaction reports whether ctx carries a transaction.
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*txState)
	return ok
}

// AfterCommit schedules fn to run after the transaction carried by ctx commits.
// It returns false, without scheduling, when ctx carries no transaction.
// Hooks are dropped on rollback.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) bool {
	state, ok := ctx.Value(txKey{}).(*txState)
	if !ok {
		return false
	}
	state.mu.Lock()
	state.afterCommit = append(state.afterCommit, fn)
	state.mu.Unlock()
	return true
}
