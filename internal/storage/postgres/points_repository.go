package postgres

import (
	"context"
	"fmt"
)

func (r *PointRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

// Insert appends one transaction-log row. The ammount column name is a
// legacy misspelling carried over from the live schema.
func (r *PointRepository) Insert(ctx context.Context, studentID int64, amount int64, reason string, teacherID int64) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO transaction_log (student_id, ammount, reason, teacher_id)
VALUES ($1, $2, $3, $4)`, studentID, amount, reason, teacherID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *PointRepository) DeleteByStudent(ctx context.Context, studentID int64) error {
	if _, err := r.queryer().Exec(ctx, `DELETE FROM transaction_log WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	return nil
}

func (r *PointRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.queryer().Exec(ctx, `DELETE FROM transaction_log`); err != nil {
		return fmt.Errorf("delete all transactions: %w", err)
	}
	return nil
}
