package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ChaLconner/purrfect-spots-sub001/internal/domain/model"
)

type TreatRepo struct {
	pool *pgxpool.Pool
}

// TransferOutcome is the result reported by the store-side give_treats
// function. The debit, credit and ledger append happen inside that function
// in a single transaction; callers never see a partial transfer.
type TransferOutcome struct {
	Success    bool
	NewBalance int64
	Reason     string
}

func NewTreatRepo(pool *pgxpool.Pool) *TreatRepo {
	return &TreatRepo{pool: pool}
}

func (r *TreatRepo) Transfer(ctx context.Context, fromUserID, photoID, amount int64) (TransferOutcome, error) {
	if fromUserID <= 0 || photoID <= 0 || amount <= 0 {
		return TransferOutcome{}, fmt.Errorf("invalid treat transfer payload")
	}
	if r.pool == nil {
		return TransferOutcome{}, fmt.Errorf("postgres pool is nil")
	}

	var (
		success    bool
		newBalance *int64
		reason     *string
	)
	err := r.pool.QueryRow(ctx, `
SELECT success, new_balance, error_message
FROM give_treats($1, $2, $3)
`, fromUserID, photoID, amount).Scan(&success, &newBalance, &reason)
	if err != nil {
		return TransferOutcome{}, fmt.Errorf("call give_treats: %w", err)
	}

	outcome := TransferOutcome{Success: success}
	if newBalance != nil {
		outcome.NewBalance = *newBalance
	}
	if reason != nil {
		outcome.Reason = *reason
	}

	return outcome, nil
}

func (r *TreatRepo) Balance(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var balance int64
	err := r.pool.QueryRow(ctx, `
SELECT treat_balance
FROM users
WHERE id = $1
LIMIT 1
`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("get treat balance: %w", err)
	}

	return balance, nil
}

func (r *TreatRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]model.TreatTransaction, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if r.pool == nil {
		return []model.TreatTransaction{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, amount, transaction_type, from_user_id, to_user_id, photo_id, created_at
FROM treat_transactions
WHERE from_user_id = $1 OR to_user_id = $1
ORDER BY created_at DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list treat transactions: %w", err)
	}
	defer rows.Close()

	items := make([]model.TreatTransaction, 0)
	for rows.Next() {
		var tx model.TreatTransaction
		if err := rows.Scan(&tx.ID, &tx.Amount, &tx.TransactionType, &tx.FromUserID, &tx.ToUserID, &tx.PhotoID, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan treat transaction row: %w", err)
		}
		items = append(items, tx)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate treat transaction rows: %w", rows.Err())
	}

	return items, nil
}
