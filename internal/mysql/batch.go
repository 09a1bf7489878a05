package mysql

import (
	"context"
	"fmt"
	"strings"
)

// Batch report status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Report is the aggregated outcome of one statement batch. Results and
// Errors are position-aligned with the input statements: exactly one entry
// each per statement, nil where there is nothing to report.
type Report struct {
	Results []any     `json:"results"`
	Errors  []*string `json:"errors"`
	Status  string    `json:"status"`
}

// AffectedRows is the outcome of a statement that was executed without
// fetching rows.
type AffectedRows struct {
	AffectedRows int64 `json:"affected_rows"`
}

// FailedReport builds the report for a batch that never ran: a connection
// could not be established (or the transaction could not be committed), so
// every result slot is nil and every error slot carries the same message.
func FailedReport(n int, err error) Report {
	msg := fmt.Sprintf("mysql connection error: %v", err)
	report := Report{
		Results: make([]any, n),
		Errors:  make([]*string, n),
		Status:  StatusError,
	}
	for i := range report.Errors {
		report.Errors[i] = &msg
	}
	return report
}

// RunBatch executes stmts in order on conn under a single transaction.
//
// Each statement is classified independently: a fetched read query yields
// its rows, anything else yields an affected-row count, and a failing
// statement records its error without stopping the statements after it.
//
// The transaction is committed after the loop even when some statements
// failed, so every successful statement in the batch persists together.
// A failing statement therefore does not roll back earlier successes; only
// a begin or commit failure aborts the whole batch. That asymmetry is
// intentional, best-effort batch behavior.
func RunBatch(ctx context.Context, conn *Conn, stmts []string, fetch bool) Report {
	results := make([]any, 0, len(stmts))
	errMsgs := make([]*string, 0, len(stmts))
	status := StatusSuccess

	tx, err := conn.BeginTx(ctx)
	if err != nil {
		return FailedReport(len(stmts), err)
	}

	for i, stmt := range stmts {
		if fetch && isSelect(stmt) {
			rows, err := tx.QueryContext(ctx, stmt)
			if err != nil {
				results, errMsgs = recordFailure(results, errMsgs, i, err)
				status = StatusError
				continue
			}
			mapped, err := ScanRows(rows)
			if err != nil {
				results, errMsgs = recordFailure(results, errMsgs, i, err)
				status = StatusError
				continue
			}
			results = append(results, mapped)
			errMsgs = append(errMsgs, nil)
			continue
		}

		res, err := tx.ExecContext(ctx, stmt)
		if err != nil {
			results, errMsgs = recordFailure(results, errMsgs, i, err)
			status = StatusError
			continue
		}
		affected, err := res.RowsAffected()
		if err != nil {
			results, errMsgs = recordFailure(results, errMsgs, i, err)
			status = StatusError
			continue
		}
		results = append(results, AffectedRows{AffectedRows: affected})
		errMsgs = append(errMsgs, nil)
	}

	// A failed commit has already finished the transaction; database/sql
	// marks the Tx done either way, so there is nothing left to roll back.
	if err := tx.Commit(); err != nil {
		return FailedReport(len(stmts), err)
	}

	return Report{Results: results, Errors: errMsgs, Status: status}
}

// recordFailure appends a nil result and the positional error message for
// statement i.
func recordFailure(results []any, errMsgs []*string, i int, err error) ([]any, []*string) {
	msg := fmt.Sprintf("statement error (index %d): %v", i, err)
	return append(results, nil), append(errMsgs, &msg)
}

// isSelect reports whether stmt looks like a read query. This is a
// documented heuristic, not a parser: trim whitespace, compare the prefix
// case-insensitively.
func isSelect(stmt string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(stmt)), "SELECT")
}
