package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists snapshots to PostgreSQL. Save replaces the stored
// state inside one database transaction, so a reader never observes a
// half-written snapshot.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore connects to the database and initializes the schema. The
// connection is retried for a few seconds to ride out container startup.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	var pool *pgxpool.Pool
	var err error

	for i := 0; i < 5; i++ {
		pool, err = pgxpool.New(ctx, connString)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: could not connect after retries: %v", ErrPersistence, err)
	}

	store := &PostgresStore{db: pool}
	if err := store.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("%w: could not initialize schema: %v", ErrPersistence, err)
	}
	return store, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.db.Close()
}

// initSchema creates the snapshot tables if they don't exist.
func (s *PostgresStore) initSchema(ctx context.Context) error {
	query := `
    CREATE TABLE IF NOT EXISTS bank_state (
        id INT PRIMARY KEY CHECK (id = 1),
        bank_name TEXT NOT NULL,
        next_account_number BIGINT NOT NULL
    );
    CREATE TABLE IF NOT EXISTS accounts (
        account_number TEXT PRIMARY KEY,
        account_holder TEXT NOT NULL,
        balance NUMERIC(19, 5) NOT NULL,
        is_active BOOLEAN NOT NULL,
        position BIGINT NOT NULL
    );
    CREATE TABLE IF NOT EXISTS transactions (
        id TEXT PRIMARY KEY,
        account_number TEXT NOT NULL REFERENCES accounts(account_number) ON DELETE CASCADE,
        kind TEXT NOT NULL,
        amount NUMERIC(19, 5) NOT NULL,
        balance_after NUMERIC(19, 5) NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ NOT NULL,
        position BIGINT NOT NULL
    );`
	_, err := s.db.Exec(ctx, query)
	return err
}

// Save replaces the stored snapshot within a database transaction.
func (s *PostgresStore) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: could not begin transaction: %v", ErrPersistence, err)
	}
	defer tx.Rollback(ctx) // Rollback is a no-op if the transaction has been committed.

	upsert := `
		INSERT INTO bank_state (id, bank_name, next_account_number)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET bank_name = $1, next_account_number = $2`
	if _, err := tx.Exec(ctx, upsert, snap.BankName, snap.NextAccountNumber); err != nil {
		return fmt.Errorf("%w: could not store bank state: %v", ErrPersistence, err)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM transactions"); err != nil {
		return fmt.Errorf("%w: could not clear transactions: %v", ErrPersistence, err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM accounts"); err != nil {
		return fmt.Errorf("%w: could not clear accounts: %v", ErrPersistence, err)
	}

	insertAccount := `
		INSERT INTO accounts (account_number, account_holder, balance, is_active, position)
		VALUES ($1, $2, $3, $4, $5)`
	insertTransaction := `
		INSERT INTO transactions (id, account_number, kind, amount, balance_after, description, created_at, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for i, acc := range snap.Accounts {
		if _, err := tx.Exec(ctx, insertAccount,
			acc.AccountNumber, acc.AccountHolder, acc.Balance, acc.IsActive, i); err != nil {
			return fmt.Errorf("%w: could not store account %s: %v", ErrPersistence, acc.AccountNumber, err)
		}
		for j, rec := range acc.Transactions {
			if _, err := tx.Exec(ctx, insertTransaction,
				rec.ID, acc.AccountNumber, rec.Kind, rec.Amount, rec.BalanceAfter,
				rec.Description, rec.Timestamp, j); err != nil {
				return fmt.Errorf("%w: could not store transaction %s: %v", ErrPersistence, rec.ID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: could not commit snapshot: %v", ErrPersistence, err)
	}
	return nil
}

// Load reads the stored snapshot. It fails with a wrapped ErrPersistence when
// no snapshot has been saved yet.
func (s *PostgresStore) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	query := "SELECT bank_name, next_account_number FROM bank_state WHERE id = 1"
	err := s.db.QueryRow(ctx, query).Scan(&snap.BankName, &snap.NextAccountNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return snap, fmt.Errorf("%w: no snapshot stored", ErrPersistence)
		}
		return snap, fmt.Errorf("%w: could not read bank state: %v", ErrPersistence, err)
	}

	rows, err := s.db.Query(ctx,
		"SELECT account_number, account_holder, balance, is_active FROM accounts ORDER BY position")
	if err != nil {
		return snap, fmt.Errorf("%w: could not read accounts: %v", ErrPersistence, err)
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var acc SnapshotAccount
		if err := rows.Scan(&acc.AccountNumber, &acc.AccountHolder, &acc.Balance, &acc.IsActive); err != nil {
			return snap, fmt.Errorf("%w: could not scan account row: %v", ErrPersistence, err)
		}
		index[acc.AccountNumber] = len(snap.Accounts)
		snap.Accounts = append(snap.Accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("%w: account rows: %v", ErrPersistence, err)
	}

	txRows, err := s.db.Query(ctx, `
		SELECT id, account_number, kind, amount, balance_after, description, created_at
		FROM transactions ORDER BY account_number, position`)
	if err != nil {
		return snap, fmt.Errorf("%w: could not read transactions: %v", ErrPersistence, err)
	}
	defer txRows.Close()

	for txRows.Next() {
		var rec SnapshotTransaction
		var accountNumber string
		if err := txRows.Scan(&rec.ID, &accountNumber, &rec.Kind, &rec.Amount,
			&rec.BalanceAfter, &rec.Description, &rec.Timestamp); err != nil {
			return snap, fmt.Errorf("%w: could not scan transaction row: %v", ErrPersistence, err)
		}
		if i, ok := index[accountNumber]; ok {
			snap.Accounts[i].Transactions = append(snap.Accounts[i].Transactions, rec)
		}
	}
	if err := txRows.Err(); err != nil {
		return snap, fmt.Errorf("%w: transaction rows: %v", ErrPersistence, err)
	}

	return snap, nil
}
