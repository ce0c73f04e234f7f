package service

import (
	"context"
	"fmt"

	"github.com/Identilink/identilink/internal/domain"
	"github.com/Identilink/identilink/pkg/logger"
)

// ReconcileService is the reconciliation engine. Each call runs inside one
// serializable transaction; concurrent writers racing on creation,
// attachment, or merge are resolved by the store aborting one side, which
// triggers a single full re-run from a fresh snapshot.
type ReconcileService struct {
	store       domain.ContactStore
	logger      logger.Logger
	maxAttempts int
}

func NewReconcileService(store domain.ContactStore, logger logger.Logger, maxAttempts int) *ReconcileService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &ReconcileService{
		store:       store,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

// Reconcile consolidates the identity group matching the request, creating a
// new primary, attaching a secondary, or merging previously independent
// groups as needed. The request must carry at least one of email or phone;
// fields are expected to be already normalized and format-validated.
func (s *ReconcileService) Reconcile(ctx context.Context, req *domain.IdentifyRequest) (*domain.ConsolidatedContact, error) {
	if req == nil || (req.Email == nil && req.Phone == nil) {
		return nil, domain.NewValidationError("at least one of email or phoneNumber is required")
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		result, err := s.reconcileOnce(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !domain.IsRetryable(err) || attempt == s.maxAttempts {
			break
		}
		s.logger.WithField("attempt", attempt).Warn(fmt.Sprintf("Reconcile attempt aborted, retrying from a fresh snapshot: %v", err))
	}

	s.logger.Error(fmt.Sprintf("Reconcile failed: %v", lastErr))
	return nil, lastErr
}

// reconcileOnce runs the five-stage pipeline inside one transaction:
// match, resolve roots, merge, attach, respond.
func (s *ReconcileService) reconcileOnce(ctx context.Context, req *domain.IdentifyRequest) (*domain.ConsolidatedContact, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin reconciliation: %w", err)
	}
	defer tx.Rollback()

	matches, err := tx.FindLiveMatching(ctx, req.Email, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to match contacts: %w", err)
	}

	if len(matches) == 0 {
		created, err := tx.InsertContact(ctx, req.Email, req.Phone, nil, domain.LinkPrecedencePrimary)
		if err != nil {
			return nil, fmt.Errorf("failed to create primary contact: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return domain.NewConsolidatedContact(created, nil), nil
	}

	survivor, err := s.resolveSurvivor(ctx, tx, matches)
	if err != nil {
		return nil, err
	}

	group, err := tx.FindLiveGroup(ctx, survivor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read group of %d: %w", survivor.ID, err)
	}

	attached, err := s.maybeAttach(ctx, tx, req, survivor, group)
	if err != nil {
		return nil, err
	}
	if attached != nil {
		group = append(group, attached)
	}

	primary, secondaries, err := splitGroup(survivor.ID, group)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return domain.NewConsolidatedContact(primary, secondaries), nil
}

// resolveSurvivor projects the matches to their root primaries, picks the
// survivor by seniority, and merges every other root under it.
func (s *ReconcileService) resolveSurvivor(ctx context.Context, tx domain.ContactTx, matches []*domain.Contact) (*domain.Contact, error) {
	rootIDs := rootIDSet(matches)

	primaries, err := tx.FindLiveByIDs(ctx, rootIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch root primaries: %w", err)
	}
	if len(primaries) != len(rootIDs) {
		return nil, &domain.ErrInvariantBroken{
			Reason: fmt.Sprintf("expected %d live root contacts, found %d", len(rootIDs), len(primaries)),
		}
	}
	for _, p := range primaries {
		if !p.IsPrimary() || p.LinkedID != nil {
			return nil, &domain.ErrInvariantBroken{
				Reason: fmt.Sprintf("contact %d is referenced as a root but is not a primary", p.ID),
			}
		}
	}

	// FindLiveByIDs orders by (created_at ASC, id ASC): the head is the
	// oldest root and survives the merge.
	survivor := primaries[0]
	for _, loser := range primaries[1:] {
		if err := tx.Demote(ctx, loser.ID, survivor.ID); err != nil {
			return nil, fmt.Errorf("failed to demote contact %d: %w", loser.ID, err)
		}
		relinked, err := tx.RelinkChildren(ctx, loser.ID, survivor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to re-parent children of %d: %w", loser.ID, err)
		}
		if relinked > 0 {
			s.logger.WithFields(map[string]interface{}{
				"survivor": survivor.ID,
				"loser":    loser.ID,
				"relinked": relinked,
			}).Debug("Re-parented secondaries during merge")
		}
	}

	return survivor, nil
}

// maybeAttach inserts a new secondary when the request carries an email or
// phone the group does not know yet. An exact duplicate of an existing
// (email, phone) pair is never attached.
func (s *ReconcileService) maybeAttach(ctx context.Context, tx domain.ContactTx, req *domain.IdentifyRequest, survivor *domain.Contact, group []*domain.Contact) (*domain.Contact, error) {
	knownEmails := make(map[string]bool)
	knownPhones := make(map[string]bool)
	for _, c := range group {
		if c.Email != nil {
			knownEmails[*c.Email] = true
		}
		if c.Phone != nil {
			knownPhones[*c.Phone] = true
		}
		if c.Matches(req.Email, req.Phone) {
			return nil, nil
		}
	}

	newEmail := req.Email != nil && !knownEmails[*req.Email]
	newPhone := req.Phone != nil && !knownPhones[*req.Phone]
	if !newEmail && !newPhone {
		return nil, nil
	}

	attached, err := tx.InsertContact(ctx, req.Email, req.Phone, &survivor.ID, domain.LinkPrecedenceSecondary)
	if err != nil {
		return nil, fmt.Errorf("failed to attach secondary contact: %w", err)
	}
	return attached, nil
}

// rootIDSet maps each match to its root primary id, preserving first-seen
// order: a primary contributes its own id, a secondary its linked_id.
func rootIDSet(matches []*domain.Contact) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, m := range matches {
		id := m.ID
		if m.LinkedID != nil {
			id = *m.LinkedID
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func splitGroup(survivorID int64, group []*domain.Contact) (*domain.Contact, []*domain.Contact, error) {
	var primary *domain.Contact
	secondaries := make([]*domain.Contact, 0, len(group))
	for _, c := range group {
		if c.ID == survivorID {
			primary = c
			continue
		}
		secondaries = append(secondaries, c)
	}
	if primary == nil {
		return nil, nil, &domain.ErrInvariantBroken{
			Reason: fmt.Sprintf("group read did not return its primary %d", survivorID),
		}
	}
	return primary, secondaries, nil
}
