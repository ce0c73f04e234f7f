package domain

import (
	"context"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/Identilink/identilink/internal/domain ContactStore,ContactTx
//go:generate mockgen -destination=mocks/mock_reconcile_service.go -package=mocks github.com/Identilink/identilink/internal/domain ReconcileService

// ContactStore is the narrow south-bound contract the reconciler speaks to.
// Begin opens a serializable transaction; the store enforces the configured
// wait-for-start and total-runtime bounds.
type ContactStore interface {
	Begin(ctx context.Context) (ContactTx, error)
	// Ping is a trivial round-trip used by health checks, never by the
	// reconciler itself.
	Ping(ctx context.Context) error
}

// ContactTx is one serializable transaction over the contact graph. All
// reads exclude soft-deleted rows.
type ContactTx interface {
	// FindLiveMatching returns contacts whose email or phone equals the
	// given values (disjunctive; absent fields drop their disjunct),
	// ordered by created_at ascending.
	FindLiveMatching(ctx context.Context, email, phone *string) ([]*Contact, error)

	// FindLiveByIDs returns the contacts with the given ids, ordered by
	// created_at ascending, ties broken by ascending id.
	FindLiveByIDs(ctx context.Context, ids []int64) ([]*Contact, error)

	// FindLiveGroup returns the primary plus all secondaries whose
	// linked_id equals primaryID, ordered by created_at ascending.
	FindLiveGroup(ctx context.Context, primaryID int64) ([]*Contact, error)

	// InsertContact inserts a row and returns it with store-assigned id
	// and timestamps. May fail with *ErrUniqueConflict.
	InsertContact(ctx context.Context, email, phone *string, linkedID *int64, precedence LinkPrecedence) (*Contact, error)

	// Demote flips a primary to secondary and points it at linkedID.
	// Fails with *ErrInvariantBroken if the target row is not live.
	Demote(ctx context.Context, id, linkedID int64) error

	// RelinkChildren re-parents every live secondary of fromLinkedID to
	// toLinkedID and returns the number of rows updated.
	RelinkChildren(ctx context.Context, fromLinkedID, toLinkedID int64) (int64, error)

	Commit() error
	Rollback() error
}

// ReconcileService is the north-bound contract of the reconciliation engine.
type ReconcileService interface {
	// Reconcile runs one full pass for an already-validated request and
	// returns the consolidated view of the matching identity group.
	Reconcile(ctx context.Context, req *IdentifyRequest) (*ConsolidatedContact, error)
}
