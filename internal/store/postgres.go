package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	regerrors "github.com/telicent-oss/go-json-register/errors"
)

// postgresDialect issues single-round-trip statements against a JSONB value
// column. Statements are built once from the validated identifiers.
type postgresDialect struct {
	registerQuery string
	batchQuery    string
	selectQuery   string
	ddl           string
}

func newPostgresDialect(n names) *postgresDialect {
	return &postgresDialect{
		// Insert wins or loses against the uniqueness constraint in one
		// statement; losers read the winner's row via the UNION branch.
		registerQuery: fmt.Sprintf(`
			WITH inserted AS (
				INSERT INTO %[1]s (%[3]s)
				VALUES ($1::jsonb)
				ON CONFLICT (%[3]s) DO NOTHING
				RETURNING %[2]s
			)
			SELECT %[2]s FROM inserted
			UNION ALL
			SELECT %[2]s FROM %[1]s
			WHERE %[3]s = $2::jsonb
			  AND NOT EXISTS (SELECT 1 FROM inserted)
			LIMIT 1
		`, n.table, n.idCol, n.valCol),

		// Unnest keeps input order via ordinality; the final join maps every
		// input position to either its freshly inserted id or the existing
		// row's id. Inserted and existing are built from the distinct values
		// so each resolves to at most one row per value. Joining repeated
		// input occurrences directly would multiply the result rows.
		batchQuery: fmt.Sprintf(`
			WITH input_objects AS (
				SELECT ord AS original_order, value::jsonb AS json_value
				FROM unnest($1::text[]) WITH ORDINALITY AS t(value, ord)
			),
			distinct_objects AS (
				SELECT DISTINCT json_value FROM input_objects
			),
			inserted AS (
				INSERT INTO %[1]s (%[3]s)
				SELECT json_value FROM distinct_objects
				ON CONFLICT (%[3]s) DO NOTHING
				RETURNING %[2]s, %[3]s
			),
			existing AS (
				SELECT t.%[2]s, t.%[3]s
				FROM %[1]s t
				JOIN distinct_objects d ON t.%[3]s = d.json_value
			)
			SELECT COALESCE(i.%[2]s, e.%[2]s) AS %[2]s, io.original_order
			FROM input_objects io
			LEFT JOIN inserted i ON io.json_value = i.%[3]s
			LEFT JOIN existing e ON io.json_value = e.%[3]s
			ORDER BY io.original_order
		`, n.table, n.idCol, n.valCol),

		selectQuery: fmt.Sprintf(
			`SELECT %[2]s FROM %[1]s WHERE %[3]s = $1::jsonb`,
			n.table, n.idCol, n.valCol),

		ddl: fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %[1]s (%[2]s BIGSERIAL PRIMARY KEY, %[3]s JSONB NOT NULL UNIQUE)`,
			n.table, n.idCol, n.valCol),
	}
}

func (d *postgresDialect) driverName() string { return "pgx" }

func (d *postgresDialect) poolLimits(poolSize int) (int, int) {
	return poolSize, poolSize
}

func (d *postgresDialect) schemaDDL() string { return d.ddl }

func (d *postgresDialect) getOrInsert(ctx context.Context, db *sql.DB, canonical string) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, d.registerQuery, canonical, canonical).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &regerrors.InvalidResponseError{Reason: "get-or-insert returned no rows"}
	}
	if err != nil {
		return 0, regerrors.NewConnectionError("get-or-insert", err)
	}
	return id, nil
}

func (d *postgresDialect) getOrInsertBatch(ctx context.Context, db *sql.DB, canonicals []string) ([]int64, error) {
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

	ids, err := d.queryBatch(ctx, tx, canonicals)
	if err != nil {
		return nil, err
	}

	out := make([]int64, len(ids))
	for i, id := range ids {
		if id.Valid {
			out[i] = id.Int64
			continue
		}
		// A row committed by a concurrent transaction after our insert
		// attempt but before the join-back snapshot shows up as NULL under
		// READ COMMITTED. Re-check inside the same transaction before
		// declaring the response invalid.
		var recheck int64
		err := tx.QueryRowContext(ctx, d.selectQuery, canonicals[i]).Scan(&recheck)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &regerrors.InvalidResponseError{
				Reason: fmt.Sprintf("no id resolved for batch element %d", i),
			}
		}
		if err != nil {
			return nil, regerrors.NewConnectionError("batch re-check", err)
		}
		out[i] = recheck
	}

	if err := tx.Commit(); err != nil {
		return nil, regerrors.NewConnectionError("commit batch", err)
	}
	committed = true
	return out, nil
}

func (d *postgresDialect) queryBatch(ctx context.Context, tx *sql.Tx, canonicals []string) ([]sql.NullInt64, error) {
	rows, err := tx.QueryContext(ctx, d.batchQuery, canonicals)
	if err != nil {
		return nil, regerrors.NewConnectionError("batch register", err)
	}
	defer rows.Close()

	ids := make([]sql.NullInt64, 0, len(canonicals))
	for rows.Next() {
		var id sql.NullInt64
		var order int64
		if err := rows.Scan(&id, &order); err != nil {
			return nil, regerrors.NewConnectionError("batch register scan", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, regerrors.NewConnectionError("batch register", err)
	}

	if len(ids) != len(canonicals) {
		return nil, &regerrors.InvalidResponseError{
			Expected: len(canonicals),
			Got:      len(ids),
			Reason:   "batch register row count mismatch",
		}
	}
	return ids, nil
}
