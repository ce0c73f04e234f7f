package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/Identilink/identilink/internal/domain"
)

// Postgres error codes the reconciler cares about.
const (
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

var contactColumns = []string{
	"id", "email", "phone", "linked_id", "link_precedence",
	"created_at", "updated_at", "deleted_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type contactStore struct {
	db        *sql.DB
	txMaxWait time.Duration
	txTimeout time.Duration
}

// NewContactStore creates a PostgreSQL-backed contact store. txMaxWait
// bounds the wait for a connection before a transaction starts; txTimeout
// bounds the total runtime of one transaction.
func NewContactStore(db *sql.DB, txMaxWait, txTimeout time.Duration) domain.ContactStore {
	return &contactStore{
		db:        db,
		txMaxWait: txMaxWait,
		txTimeout: txTimeout,
	}
}

func (s *contactStore) Begin(ctx context.Context) (domain.ContactTx, error) {
	// Acquire the connection under the wait-for-start bound; the
	// transaction itself lives under the total-runtime bound.
	waitCtx, waitCancel := context.WithTimeout(ctx, s.txMaxWait)
	conn, err := s.db.Conn(waitCtx)
	waitCancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &domain.ErrTxTimeout{Phase: "begin", Err: err}
		}
		return nil, mapStoreError(fmt.Errorf("failed to acquire connection: %w", err))
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	tx, err := conn.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		cancel()
		conn.Close()
		return nil, mapStoreError(fmt.Errorf("failed to begin transaction: %w", err))
	}

	return &contactTx{tx: tx, conn: conn, cancel: cancel}, nil
}

func (s *contactStore) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return &domain.ErrStoreUnavailable{Err: err}
	}
	return nil
}

type contactTx struct {
	tx     *sql.Tx
	conn   *sql.Conn
	cancel context.CancelFunc
	done   bool
}

func (c *contactTx) finish() {
	c.done = true
	c.cancel()
	c.conn.Close()
}

func (c *contactTx) Commit() error {
	if c.done {
		return sql.ErrTxDone
	}
	err := c.tx.Commit()
	c.finish()
	if err != nil {
		return mapStoreError(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

func (c *contactTx) Rollback() error {
	if c.done {
		return nil
	}
	err := c.tx.Rollback()
	c.finish()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (c *contactTx) FindLiveMatching(ctx context.Context, email, phone *string) ([]*domain.Contact, error) {
	match := sq.Or{}
	if email != nil {
		match = append(match, sq.Eq{"email": *email})
	}
	if phone != nil {
		match = append(match, sq.Eq{"phone": *phone})
	}
	if len(match) == 0 {
		return nil, domain.NewValidationError("at least one of email or phone is required to match")
	}

	query, args, err := psql.Select(contactColumns...).
		From("contacts").
		Where(sq.Eq{"deleted_at": nil}).
		Where(match).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build match query: %w", err)
	}

	return c.queryContacts(ctx, query, args...)
}

func (c *contactTx) FindLiveByIDs(ctx context.Context, ids []int64) ([]*domain.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := psql.Select(contactColumns...).
		From("contacts").
		Where(sq.Eq{"deleted_at": nil}).
		Where(sq.Eq{"id": ids}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build ids query: %w", err)
	}

	return c.queryContacts(ctx, query, args...)
}

func (c *contactTx) FindLiveGroup(ctx context.Context, primaryID int64) ([]*domain.Contact, error) {
	query, args, err := psql.Select(contactColumns...).
		From("contacts").
		Where(sq.Eq{"deleted_at": nil}).
		Where(sq.Or{
			sq.Eq{"id": primaryID},
			sq.Eq{"linked_id": primaryID},
		}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build group query: %w", err)
	}

	return c.queryContacts(ctx, query, args...)
}

func (c *contactTx) InsertContact(ctx context.Context, email, phone *string, linkedID *int64, precedence domain.LinkPrecedence) (*domain.Contact, error) {
	query, args, err := psql.Insert("contacts").
		Columns("email", "phone", "linked_id", "link_precedence").
		Values(email, phone, linkedID, string(precedence)).
		Suffix("RETURNING " + strings.Join(contactColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	contact, err := domain.ScanContact(c.tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapStoreError(fmt.Errorf("failed to insert contact: %w", err))
	}
	return contact, nil
}

func (c *contactTx) Demote(ctx context.Context, id, linkedID int64) error {
	query, args, err := psql.Update("contacts").
		Set("link_precedence", string(domain.LinkPrecedenceSecondary)).
		Set("linked_id", linkedID).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build demote query: %w", err)
	}

	result, err := c.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return mapStoreError(fmt.Errorf("failed to demote contact %d: %w", id, err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return &domain.ErrInvariantBroken{Reason: fmt.Sprintf("demote target %d is not a live contact", id)}
	}
	return nil
}

func (c *contactTx) RelinkChildren(ctx context.Context, fromLinkedID, toLinkedID int64) (int64, error) {
	query, args, err := psql.Update("contacts").
		Set("linked_id", toLinkedID).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"linked_id": fromLinkedID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build relink query: %w", err)
	}

	result, err := c.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapStoreError(fmt.Errorf("failed to relink children of %d: %w", fromLinkedID, err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected, nil
}

func (c *contactTx) queryContacts(ctx context.Context, query string, args ...interface{}) ([]*domain.Contact, error) {
	rows, err := c.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapStoreError(fmt.Errorf("failed to query contacts: %w", err))
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		contact, err := domain.ScanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, mapStoreError(fmt.Errorf("error iterating contacts rows: %w", err))
	}

	return contacts, nil
}

// mapStoreError translates driver-level failures into the domain error
// vocabulary so the reconciler can classify retryability.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return &domain.ErrUniqueConflict{Constraint: pqErr.Constraint, Err: err}
		case pqSerializationFailure, pqDeadlockDetected:
			return &domain.ErrSerialization{Err: err}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.ErrTxTimeout{Phase: "run", Err: err}
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return &domain.ErrStoreUnavailable{Err: err}
	}

	return err
}
