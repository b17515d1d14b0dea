package storage

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testStore *PostgresStore

// TestMain sets up the test database container and runs the tests.
func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:14-alpine"),
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpassword"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}

	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Fatalf("could not terminate postgres container: %s", err)
		}
	}()

	connString, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("could not get connection string: %s", err)
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		log.Fatalf("could not connect to test database: %s", err)
	}
	defer pool.Close()

	testStore = &PostgresStore{db: pool}
	if err := testStore.initSchema(ctx); err != nil {
		log.Fatalf("could not initialize schema: %s", err)
	}

	os.Exit(m.Run())
}

// truncateTables clears the snapshot tables between tests to ensure isolation.
func truncateTables(t *testing.T, ctx context.Context) {
	t.Helper()
	_, err := testStore.db.Exec(ctx, "TRUNCATE TABLE transactions, accounts, bank_state")
	require.NoError(t, err, "failed to truncate tables")
}

func TestPostgresRoundTrip(t *testing.T) {
	ctx := context.Background()
	truncateTables(t, ctx)

	orig := sampleSnapshot()
	require.NoError(t, testStore.Save(ctx, orig))

	loaded, err := testStore.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, orig.BankName, loaded.BankName)
	assert.Equal(t, orig.NextAccountNumber, loaded.NextAccountNumber)
	require.Len(t, loaded.Accounts, 2)

	// Creation order is preserved.
	assert.Equal(t, "1001", loaded.Accounts[0].AccountNumber)
	assert.Equal(t, "1002", loaded.Accounts[1].AccountNumber)

	alice := loaded.Accounts[0]
	assert.Equal(t, "Alice", alice.AccountHolder)
	assert.True(t, orig.Accounts[0].Balance.Equal(alice.Balance))
	assert.True(t, alice.IsActive)
	require.Len(t, alice.Transactions, 1)
	rec := alice.Transactions[0]
	assert.Equal(t, "tx-1", rec.ID)
	assert.Equal(t, "INITIAL", rec.Kind)
	assert.Equal(t, "Account opened", rec.Description)
	assert.True(t, orig.Accounts[0].Transactions[0].Amount.Equal(rec.Amount))
	assert.True(t, orig.Accounts[0].Transactions[0].Timestamp.Equal(rec.Timestamp))

	assert.False(t, loaded.Accounts[1].IsActive)
	assert.Empty(t, loaded.Accounts[1].Transactions)
}

func TestPostgresSaveReplacesPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	truncateTables(t, ctx)

	require.NoError(t, testStore.Save(ctx, sampleSnapshot()))

	updated := Snapshot{
		BankName:          "RenamedBank",
		NextAccountNumber: 1002,
		Accounts: []SnapshotAccount{
			{
				AccountNumber: "1001",
				AccountHolder: "Alice",
				Balance:       decimal.NewFromInt(999),
				IsActive:      true,
			},
		},
	}
	require.NoError(t, testStore.Save(ctx, updated))

	loaded, err := testStore.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "RenamedBank", loaded.BankName)
	assert.Equal(t, int64(1002), loaded.NextAccountNumber)
	require.Len(t, loaded.Accounts, 1)
	assert.True(t, decimal.NewFromInt(999).Equal(loaded.Accounts[0].Balance))
	assert.Empty(t, loaded.Accounts[0].Transactions)
}

func TestPostgresLoadEmptyDatabase(t *testing.T) {
	ctx := context.Background()
	truncateTables(t, ctx)

	_, err := testStore.Load(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestPostgresSaveEmptySnapshot(t *testing.T) {
	ctx := context.Background()
	truncateTables(t, ctx)

	require.NoError(t, testStore.Save(ctx, Snapshot{BankName: "Empty", NextAccountNumber: 1001}))

	loaded, err := testStore.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Empty", loaded.BankName)
	assert.Empty(t, loaded.Accounts)
}
