package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // register the sqlite3 driver

	regerrors "github.com/telicent-oss/go-json-register/errors"
)

// sqliteDialect runs the get-or-insert contract as an upsert followed by a
// select. SQLite cannot host a data-modifying CTE, so the two statements
// stay separate; rows are never deleted, so the select after an upsert is
// race safe without a surrounding transaction.
type sqliteDialect struct {
	insertStmt string
	selectStmt string
	ddl        string
}

func newSQLiteDialect(n names) *sqliteDialect {
	return &sqliteDialect{
		insertStmt: fmt.Sprintf(
			`INSERT INTO %[1]s (%[3]s) VALUES (?) ON CONFLICT (%[3]s) DO NOTHING`,
			n.table, n.idCol, n.valCol),
		selectStmt: fmt.Sprintf(
			`SELECT %[2]s FROM %[1]s WHERE %[3]s = ?`,
			n.table, n.idCol, n.valCol),
		ddl: fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %[1]s (%[2]s INTEGER PRIMARY KEY AUTOINCREMENT, %[3]s TEXT NOT NULL UNIQUE)`,
			n.table, n.idCol, n.valCol),
	}
}

func (d *sqliteDialect) driverName() string { return "sqlite3" }

// poolLimits pins the pool to one connection: SQLite supports a single
// writer, and a one-connection pool also keeps ":memory:" databases alive
// across operations.
func (d *sqliteDialect) poolLimits(int) (int, int) { return 1, 1 }

func (d *sqliteDialect) schemaDDL() string { return d.ddl }

func (d *sqliteDialect) getOrInsert(ctx context.Context, db *sql.DB, canonical string) (int64, error) {
	if _, err := db.ExecContext(ctx, d.insertStmt, canonical); err != nil {
		return 0, regerrors.NewConnectionError("get-or-insert", err)
	}

	var id int64
	err := db.QueryRowContext(ctx, d.selectStmt, canonical).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &regerrors.InvalidResponseError{Reason: "no row after upsert"}
	}
	if err != nil {
		return 0, regerrors.NewConnectionError("get-or-insert", err)
	}
	return id, nil
}

func (d *sqliteDialect) getOrInsertBatch(ctx context.Context, db *sql.DB, canonicals []string) ([]int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, regerrors.NewConnectionError("begin batch", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ids := make([]int64, len(canonicals))
	for i, canonical := range canonicals {
		if _, err := tx.ExecContext(ctx, d.insertStmt, canonical); err != nil {
			return nil, regerrors.NewConnectionError("batch register", err)
		}

		err := tx.QueryRowContext(ctx, d.selectStmt, canonical).Scan(&ids[i])
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &regerrors.InvalidResponseError{
				Reason: fmt.Sprintf("no id resolved for batch element %d", i),
			}
		}
		if err != nil {
			return nil, regerrors.NewConnectionError("batch register", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, regerrors.NewConnectionError("commit batch", err)
	}
	committed = true
	return ids, nil
}
