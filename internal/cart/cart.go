// Package cart tracks which jobs are queued for delivery. The remote store is
// authoritative; the ledger holds only the last confirmed snapshot and
// reconciles it by re-reading after every mutation.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/jobdeck/jobdeck/pkg/models"
)

// OperationError reports a failed cart mutation. The ledger keeps the last
// confirmed snapshot when an operation fails.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("cart: %s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// Remote is the slice of the catalog cart API the ledger needs.
type Remote interface {
	CartItems(ctx context.Context) ([]models.CartItem, error)
	AddCartItem(ctx context.Context, jobID int64) error
	RemoveCartItem(ctx context.Context, jobID int64) error
	ClearCart(ctx context.Context) error
}

// Ledger is safe for concurrent use; mutations are serialized so interleaved
// add/remove pairs cannot leave a stale snapshot behind.
type Ledger struct {
	remote Remote

	mu     sync.Mutex
	jobIDs []int64
}

func NewLedger(remote Remote) *Ledger {
	return &Ledger{remote: remote}
}

// Refresh re-reads the cart from the remote store.
func (l *Ledger) Refresh(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reload(ctx, "refresh")
}

// Add queues a job for delivery. Adding a job already present is a no-op on
// the remote side; either way the snapshot is reconciled by re-reading.
func (l *Ledger) Add(ctx context.Context, jobID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.remote.AddCartItem(ctx, jobID); err != nil {
		return &OperationError{Op: fmt.Sprintf("add job %d", jobID), Err: err}
	}

	return l.reload(ctx, "add")
}

func (l *Ledger) Remove(ctx context.Context, jobID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.remote.RemoveCartItem(ctx, jobID); err != nil {
		return &OperationError{Op: fmt.Sprintf("remove job %d", jobID), Err: err}
	}

	return l.reload(ctx, "remove")
}

func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.remote.ClearCart(ctx); err != nil {
		return &OperationError{Op: "clear", Err: err}
	}

	return l.reload(ctx, "clear")
}

// JobIDs returns the last confirmed cart contents in remote order.
func (l *Ledger) JobIDs() []int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]int64, len(l.jobIDs))
	copy(out, l.jobIDs)
	return out
}

// Count returns the size of the last confirmed snapshot.
func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.jobIDs)
}

func (l *Ledger) Contains(jobID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range l.jobIDs {
		if id == jobID {
			return true
		}
	}
	return false
}

// reload must be called with the lock held. A failed re-read keeps the
// previous snapshot.
func (l *Ledger) reload(ctx context.Context, op string) error {
	items, err := l.remote.CartItems(ctx)
	if err != nil {
		return &OperationError{Op: op + ": reconcile re-read", Err: err}
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.JobID)
	}
	l.jobIDs = ids

	return nil
}
