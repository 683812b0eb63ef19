package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockCustomerRepository creates a GormCustomerRepository with a mocked SQL connection
func newMockCustomerRepository(t *testing.T) (*GormCustomerRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCustomerRepository(gormDB), mock, mockDB
}

func TestGormCustomerRepository_FindByRemoteID(t *testing.T) {
	t.Run("finds linked customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "name", "remote_id", "active"}).
			AddRow(customerID, "Acme Ltd", "C-100", true)

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE remote_id = \$1.*LIMIT .*`).
			WithArgs("C-100", 1).
			WillReturnRows(rows)

		customer, err := repo.FindByRemoteID(context.Background(), "C-100")

		require.NoError(t, err)
		assert.Equal(t, customerID, customer.ID)
		assert.True(t, customer.IsLinked())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for unknown remote id", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE remote_id = \$1.*LIMIT .*`).
			WithArgs("C-404", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		customer, err := repo.FindByRemoteID(context.Background(), "C-404")

		assert.Nil(t, customer)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_FindUnlinkedByName(t *testing.T) {
	t.Run("query is restricted to unlinked rows", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		newer := uuid.New()
		older := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "name", "remote_id", "created_at"}).
			AddRow(newer, "Acme Ltd", nil, now).
			AddRow(older, "Acme Ltd", nil, now.Add(-time.Hour))

		// The remote_id IS NULL guard must be part of the SQL itself
		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE remote_id IS NULL AND name = \$1 ORDER BY created_at DESC`).
			WithArgs("Acme Ltd").
			WillReturnRows(rows)

		customers, err := repo.FindUnlinkedByName(context.Background(), "Acme Ltd")

		require.NoError(t, err)
		require.Len(t, customers, 2)
		assert.Equal(t, newer, customers[0].ID)
		assert.False(t, customers[0].IsLinked())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no unlinked match", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE remote_id IS NULL AND name = \$1 ORDER BY created_at DESC`).
			WithArgs("Acme Ltd").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "remote_id"}))

		customers, err := repo.FindUnlinkedByName(context.Background(), "Acme Ltd")

		require.NoError(t, err)
		assert.Empty(t, customers)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_FindUnlinkedByEmail(t *testing.T) {
	repo, mock, mockDB := newMockCustomerRepository(t)
	defer mockDB.Close()

	customerID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "remote_id"}).
		AddRow(customerID, "Acme Ltd", "accounts@acme.example", nil)

	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE remote_id IS NULL AND email = \$1 ORDER BY created_at DESC`).
		WithArgs("accounts@acme.example").
		WillReturnRows(rows)

	customers, err := repo.FindUnlinkedByEmail(context.Background(), "accounts@acme.example")

	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, customerID, customers[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCustomerRepository_ClaimRemoteID(t *testing.T) {
	t.Run("claims an unlinked customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()
		mock.ExpectExec(`UPDATE "customers" SET "remote_id"=\$1.* WHERE id = \$\d+ AND remote_id IS NULL`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ClaimRemoteID(context.Background(), customerID, "C-100")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loses against a concurrent claim", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()
		mock.ExpectExec(`UPDATE "customers" SET "remote_id"=\$1.* WHERE id = \$\d+ AND remote_id IS NULL`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ClaimRemoteID(context.Background(), customerID, "C-100")

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects empty remote id", func(t *testing.T) {
		repo, _, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		err := repo.ClaimRemoteID(context.Background(), uuid.New(), "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}
