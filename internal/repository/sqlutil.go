package repository

import (
	"context"
	"database/sql"
	"strings"
)

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// assignments collects the SET clause of a partial UPDATE.
type assignments struct {
	cols []string
	args []any
}

func (a *assignments) add(col string, v any) {
	a.cols = append(a.cols, col+" = ?")
	a.args = append(a.args, v)
}

// set adds col only when v is non-nil.
func set[T any](a *assignments, col string, v *T) {
	if v != nil {
		a.add(col, *v)
	}
}

// clause renders the SET list and always bumps updated_at.
func (a *assignments) clause() string {
	return strings.Join(append(append([]string(nil), a.cols...), "updated_at = CURRENT_TIMESTAMP"), ", ")
}

// withTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	return fn(tx)
}

// affectedOrNotFound converts a zero-row result into ErrNotFound.
func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
