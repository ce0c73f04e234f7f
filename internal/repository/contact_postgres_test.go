package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Identilink/identilink/internal/domain"
	"github.com/Identilink/identilink/internal/repository/testutil"
)

var contactRows = []string{
	"id", "email", "phone", "linked_id", "link_precedence",
	"created_at", "updated_at", "deleted_at",
}

func strPtr(s string) *string {
	return &s
}

func beginTestTx(t *testing.T, mock sqlmock.Sqlmock, store domain.ContactStore) domain.ContactTx {
	mock.ExpectBegin()
	tx, err := store.Begin(context.Background())
	require.NoError(t, err)
	return tx
}

func newTestStore(t *testing.T) (domain.ContactStore, sqlmock.Sqlmock, func()) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	store := NewContactStore(db, time.Second, 5*time.Second)
	return store, mock, cleanup
}

func TestFindLiveMatching(t *testing.T) {
	t.Run("email and phone", func(t *testing.T) {
		store, mock, cleanup := newTestStore(t)
		defer cleanup()

		now := time.Now().UTC()
		tx := beginTestTx(t, mock, store)

		mock.ExpectQuery(`SELECT id, email, phone, linked_id, link_precedence, created_at, updated_at, deleted_at FROM contacts WHERE deleted_at IS NULL AND \(email = \$1 OR phone = \$2\) ORDER BY created_at ASC, id ASC`).
			WithArgs("doc@hv.edu", "555-0100").
			WillReturnRows(sqlmock.NewRows(contactRows).
				AddRow(1, "doc@hv.edu", "555-0100", nil, "primary", now, now, nil).
				AddRow(2, "marty@hv.edu", "555-0100", 1, "secondary", now.Add(time.Minute), now.Add(time.Minute), nil))

		contacts, err := tx.FindLiveMatching(context.Background(), strPtr("doc@hv.edu"), strPtr("555-0100"))
		require.NoError(t, err)
		require.Len(t, contacts, 2)

		assert.Equal(t, int64(1), contacts[0].ID)
		assert.True(t, contacts[0].IsPrimary())
		assert.Nil(t, contacts[0].LinkedID)

		assert.Equal(t, int64(2), contacts[1].ID)
		require.NotNil(t, contacts[1].LinkedID)
		assert.Equal(t, int64(1), *contacts[1].LinkedID)

		mock.ExpectRollback()
		require.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("email only drops the phone disjunct", func(t *testing.T) {
		store, mock, cleanup := newTestStore(t)
		defer cleanup()

		tx := beginTestTx(t, mock, store)

		mock.ExpectQuery(`WHERE deleted_at IS NULL AND \(email = \$1\) ORDER BY created_at ASC, id ASC`).
			WithArgs("doc@hv.edu").
			WillReturnRows(sqlmock.NewRows(contactRows))

		contacts, err := tx.FindLiveMatching(context.Background(), strPtr("doc@hv.edu"), nil)
		require.NoError(t, err)
		assert.Empty(t, contacts)

		mock.ExpectRollback()
		require.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("both absent rejected", func(t *testing.T) {
		store, mock, cleanup := newTestStore(t)
		defer cleanup()

		tx := beginTestTx(t, mock, store)

		_, err := tx.FindLiveMatching(context.Background(), nil, nil)
		require.Error(t, err)

		mock.ExpectRollback()
		require.NoError(t, tx.Rollback())
	})
}

func TestFindLiveByIDs(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()

	now := time.Now().UTC()
	tx := beginTestTx(t, mock, store)

	mock.ExpectQuery(`WHERE deleted_at IS NULL AND id IN \(\$1,\$2\) ORDER BY created_at ASC, id ASC`).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows(contactRows).
			AddRow(1, "george@hv.edu", "919191", nil, "primary", now, now, nil).
			AddRow(2, "biff@hv.edu", "717171", nil, "primary", now.Add(time.Minute), now.Add(time.Minute), nil))

	contacts, err := tx.FindLiveByIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, int64(1), contacts[0].ID)
	assert.Equal(t, int64(2), contacts[1].ID)

	mock.ExpectRollback()
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLiveByIDs_EmptyInputSkipsQuery(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()

	tx := beginTestTx(t, mock, store)

	contacts, err := tx.FindLiveByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, contacts)

	mock.ExpectRollback()
	require.NoError(t, tx.Rollback())
}

func TestFindLiveGroup(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()

	now := time.Now().UTC()
	tx := beginTestTx(t, mock, store)

	mock.ExpectQuery(`WHERE deleted_at IS NULL AND \(id = \$1 OR linked_id = \$2\) ORDER BY created_at ASC, id ASC`).
		WithArgs(int64(1), int64(1)).
		WillReturnRows(sqlmock.NewRows(contactRows).
			AddRow(1, "doc@hv.edu", "555-0100", nil, "primary", now, now, nil).
			AddRow(2, "marty@hv.edu", "555-0100", 1, "secondary", now.Add(time.Minute), now.Add(time.Minute), nil))

	group, err := tx.FindLiveGroup(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, group, 2)

	mock.ExpectRollback()
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertContact(t *testing.T) {
	t.Run("primary", func(t *testing.T) {
		store, mock, cleanup := newTestStore(t)
		defer cleanup()

		now := time.Now().UTC()
		tx := beginTestTx(t, mock, store)

		mock.ExpectQuery(`INSERT INTO contacts \(email,phone,linked_id,link_precedence\) VALUES \(\$1,\$2,\$3,\$4\) RETURNING id, email, phone, linked_id, link_precedence, created_at, updated_at, deleted_at`).
			WithArgs("doc@hv.edu", "555-0100", nil, "primary").
			WillReturnRows(sqlmock.NewRows(contactRows).
				AddRow(1, "doc@hv.edu", "555-0100", nil, "primary", now, now, nil))

		contact, err := tx.InsertContact(context.Background(), strPtr("doc@hv.edu"), strPtr("555-0100"), nil, domain.LinkPrecedencePrimary)
		require.NoError(t, err)
		assert.Equal(t, int64(1), contact.ID)
		assert.True(t, contact.IsPrimary())

		mock.ExpectCommit()
		require.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrUniqueConflict", func(t *testing.T) {
		store, mock, cleanup := newTestStore(t)
		defer cleanup()

		tx := beginTestTx(t, mock, store)

		mock.ExpectQuery(`INSERT INTO contacts`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "idx_contacts_identity"})

		_, err := tx.InsertContact(context.Background(), strPtr("doc@hv.edu"), nil, nil, domain.LinkPrecedencePrimary)
		require.Error(t, err)

		var conflict *domain.ErrUniqueConflict
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "idx_contacts_identity", conflict.Constraint)
		assert.True(t, domain.IsRetryable(err))

		mock.ExpectRollback()
		require.NoError(t, tx.Rollback())
	})
}

func TestDemote(t *testing.T) {
	t.Run("live target", func(t *testing.T) {
		store, mock, cleanup := newTestStore(t)
		defer cleanup()

		tx := beginTestTx(t, mock, store)

		mock.ExpectExec(`UPDATE contacts SET link_precedence = \$1, linked_id = \$2, updated_at = CURRENT_TIMESTAMP WHERE deleted_at IS NULL AND id = \$3`).
			WithArgs("secondary", int64(1), int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, tx.Demote(context.Background(), 2, 1))

		mock.ExpectCommit()
		require.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing target breaks the invariant", func(t *testing.T) {
		store, mock, cleanup := newTestStore(t)
		defer cleanup()

		tx := beginTestTx(t, mock, store)

		mock.ExpectExec(`UPDATE contacts SET link_precedence`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := tx.Demote(context.Background(), 99, 1)
		require.Error(t, err)

		var broken *domain.ErrInvariantBroken
		assert.ErrorAs(t, err, &broken)
		assert.False(t, domain.IsRetryable(err))

		mock.ExpectRollback()
		require.NoError(t, tx.Rollback())
	})
}

func TestRelinkChildren(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()

	tx := beginTestTx(t, mock, store)

	mock.ExpectExec(`UPDATE contacts SET linked_id = \$1, updated_at = CURRENT_TIMESTAMP WHERE deleted_at IS NULL AND linked_id = \$2`).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := tx.RelinkChildren(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	mock.ExpectCommit()
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitSerializationFailure(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()

	tx := beginTestTx(t, mock, store)

	mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})

	err := tx.Commit()
	require.Error(t, err)

	var serialization *domain.ErrSerialization
	assert.ErrorAs(t, err, &serialization)
	assert.True(t, domain.IsRetryable(err))

	// The transaction is already finished; Rollback is a no-op.
	require.NoError(t, tx.Rollback())
}

func TestPing(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		store, mock, cleanup := newTestStore(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT 1`).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		assert.NoError(t, store.Ping(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		store, mock, cleanup := newTestStore(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT 1`).WillReturnError(assert.AnError)

		err := store.Ping(context.Background())
		require.Error(t, err)

		var unavailable *domain.ErrStoreUnavailable
		assert.ErrorAs(t, err, &unavailable)
	})
}
