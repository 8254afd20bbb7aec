package tablestore

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"data-curator/core/reconcile"
	"data-curator/core/rowset"
	"data-curator/core/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// RowIDColumn holds the stable row identifier.
	RowIDColumn = "row_id"
	// RowVersionColumn holds the per-row version, bumped on every update.
	RowVersionColumn = "row_version"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// Store reads and writes versioned tables in the backing database.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// New creates a store over an open database handle.
func New(db *gorm.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log}
}

// Snapshot reads the full contents of a table into a rowset.Table. The
// row_id and row_version columns become per-row identity; the remaining
// columns keep their SQL order, with kinds mapped from the SQL column
// types.
func (s *Store) Snapshot(ctx context.Context, table string) (*rowset.Table, error) {
	if err := checkIdent(table); err != nil {
		return nil, err
	}
	rows, err := s.db.WithContext(ctx).Raw("SELECT * FROM " + quoteIdent(table)).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to inspect columns of %s: %w", table, err)
	}

	idIdx, versionIdx := -1, -1
	dataCols := make([]string, 0, len(colTypes))
	kinds := make([]rowset.Kind, 0, len(colTypes))
	dataIdx := make([]int, 0, len(colTypes))
	for i, ct := range colTypes {
		switch ct.Name() {
		case RowIDColumn:
			idIdx = i
		case RowVersionColumn:
			versionIdx = i
		default:
			dataCols = append(dataCols, ct.Name())
			kinds = append(kinds, kindForSQLType(ct.DatabaseTypeName()))
			dataIdx = append(dataIdx, i)
		}
	}
	if idIdx < 0 || versionIdx < 0 {
		return nil, fmt.Errorf("table %s does not expose %s/%s identity columns", table, RowIDColumn, RowVersionColumn)
	}

	out, err := rowset.NewTable(dataCols...)
	if err != nil {
		return nil, err
	}

	raw := make([]any, len(colTypes))
	ptrs := make([]any, len(colTypes))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", table, err)
		}
		if raw[idIdx] == nil || raw[versionIdx] == nil {
			return nil, fmt.Errorf("table %s has a row with null identity", table)
		}
		id := rowset.Identity{
			ID:      utils.ToString(raw[idIdx]),
			Version: utils.ToString(raw[versionIdx]),
		}
		values := make([]rowset.Value, len(dataCols))
		for j, i := range dataIdx {
			values[j] = scanValue(raw[i], kinds[j])
		}
		if err := out.AppendIdentifiedRow(id, values...); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}

	s.log.Debug("table snapshot loaded", zap.String("table", table), zap.Int("rows", out.Len()))
	return out, nil
}

// Apply writes a reconciliation batch to a table in one transaction:
// deletes first, then inserts, then version-checked updates. An update
// whose row version no longer matches aborts the whole batch, so a racing
// writer cannot be silently overwritten.
func (s *Store) Apply(ctx context.Context, table string, batch *reconcile.Batch) error {
	if err := checkIdent(table); err != nil {
		return err
	}
	for _, c := range batch.Columns {
		if err := checkIdent(c); err != nil {
			return err
		}
	}
	if batch.Empty() {
		s.log.Info("no changes to apply", zap.String("table", table))
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range batch.Deletes {
			del := tx.Exec(
				fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND %s = ?",
					quoteIdent(table), quoteIdent(RowIDColumn), quoteIdent(RowVersionColumn)),
				id.ID, id.Version,
			)
			if del.Error != nil {
				return fmt.Errorf("failed to delete row %s: %w", id.Locator(), del.Error)
			}
		}

		insertSQL := insertStatement(table, batch.Columns)
		updateSQL := updateStatement(table, batch.Columns)
		for _, row := range batch.Rows {
			args := make([]any, 0, len(row.Values)+2)
			for _, v := range row.Values {
				args = append(args, v)
			}
			if row.Identity == nil {
				if res := tx.Exec(insertSQL, args...); res.Error != nil {
					return fmt.Errorf("failed to insert into %s: %w", table, res.Error)
				}
				continue
			}
			args = append(args, row.Identity.ID, row.Identity.Version)
			res := tx.Exec(updateSQL, args...)
			if res.Error != nil {
				return fmt.Errorf("failed to update row %s: %w", row.Identity.Locator(), res.Error)
			}
			if res.RowsAffected != 1 {
				return fmt.Errorf("row %s changed concurrently, aborting batch", row.Identity.Locator())
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("batch applied",
		zap.String("table", table),
		zap.Int("appends", batch.Appends()),
		zap.Int("updates", batch.Updates()),
		zap.Int("deletes", len(batch.Deletes)),
	)
	return nil
}

func insertStatement(table string, cols []string) string {
	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
}

func updateStatement(table string, cols []string) string {
	assignments := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		assignments = append(assignments, quoteIdent(c)+" = ?")
	}
	assignments = append(assignments,
		fmt.Sprintf("%s = %s + 1", quoteIdent(RowVersionColumn), quoteIdent(RowVersionColumn)))
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = ? AND %s = ?",
		quoteIdent(table), strings.Join(assignments, ", "),
		quoteIdent(RowIDColumn), quoteIdent(RowVersionColumn))
}

func checkIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

func quoteIdent(name string) string {
	return "`" + name + "`"
}

// kindForSQLType maps a SQL column type name to a value kind. Unknown
// types fall back to string, which is always safe for diffing.
func kindForSQLType(dbType string) rowset.Kind {
	t := strings.ToUpper(dbType)
	switch {
	case strings.Contains(t, "INT"):
		return rowset.KindInt
	case strings.Contains(t, "FLOAT"), strings.Contains(t, "DOUBLE"),
		strings.Contains(t, "DECIMAL"), strings.Contains(t, "NUMERIC"),
		strings.Contains(t, "REAL"):
		return rowset.KindFloat
	default:
		return rowset.KindString
	}
}

func scanValue(raw any, kind rowset.Kind) rowset.Value {
	if raw == nil {
		return rowset.Null()
	}
	switch kind {
	case rowset.KindInt:
		return rowset.Int(utils.ToInt64(raw))
	case rowset.KindFloat:
		return rowset.Float(utils.ToFloat64(raw))
	default:
		return rowset.String(utils.ToString(raw))
	}
}
