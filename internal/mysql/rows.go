package mysql

import (
	"database/sql"

	"github.com/koustreak/sqlgate/internal/jsonutil"
)

// ScanRows reads all rows from the result set and returns each row as an
// ordered object, column name → Go-native value. Keys follow the result
// set's column order, so row JSON comes out the way the query projected it
// instead of alphabetically.
//
// The returned slice is always non-nil (empty on zero rows). ScanRows always
// closes the rows, even on error.
func ScanRows(rows *sql.Rows) ([]*jsonutil.Object, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, mapError(err, "failed to read column names")
	}

	result := make([]*jsonutil.Object, 0)

	for rows.Next() {
		// Scan targets are *any so the driver can write any type.
		dest := make([]any, len(columns))
		destPtrs := make([]any, len(columns))
		for i := range dest {
			destPtrs[i] = &dest[i]
		}

		if err := rows.Scan(destPtrs...); err != nil {
			return nil, mapError(err, "failed to scan row")
		}

		row := jsonutil.NewObject()
		for i, col := range columns {
			row.Set(col, normalize(dest[i]))
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error during row iteration")
	}

	return result, nil
}

// normalize converts driver byte slices to strings so that results marshal
// as text instead of base64.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
