/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sweeper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/netip"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/mfreeman451/reachscan/pkg/logger"
	"github.com/mfreeman451/reachscan/pkg/models"
)

const (
	dbOperationTimeout = 5 * time.Second

	createTablesSQL = `
	CREATE TABLE IF NOT EXISTS scan_results (
		ip TEXT NOT NULL,
		port INTEGER NOT NULL,
		hostname TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		rtt_ns INTEGER,
		completed_at INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (ip, port)
	);

	CREATE TABLE IF NOT EXISTS scan_summaries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at INTEGER NOT NULL,
		elapsed_ns INTEGER NOT NULL,
		planned INTEGER NOT NULL,
		submitted INTEGER NOT NULL,
		completed INTEGER NOT NULL,
		open_count INTEGER NOT NULL,
		closed_count INTEGER NOT NULL,
		unreachable_count INTEGER NOT NULL,
		with_hostnames INTEGER NOT NULL,
		cancelled BOOLEAN NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_scan_results_completed
		ON scan_results(completed_at);
	CREATE INDEX IF NOT EXISTS idx_scan_results_status
		ON scan_results(status);
	`
)

// SQLiteStore keeps scan history in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger logger.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string, log logger.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errOpenDB, err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", errOpenDB, err)
	}

	if _, err := db.Exec(createTablesSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", errInitSchema, err)
	}

	if log == nil {
		log = logger.Nop()
	}

	return &SQLiteStore{db: db, logger: log}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveResult(ctx context.Context, result *models.ScanResult) error {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	const query = `
        INSERT INTO scan_results (
            ip, port, hostname, status, rtt_ns, completed_at, error
        ) VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(ip, port) DO UPDATE SET
            hostname = excluded.hostname,
            status = excluded.status,
            rtt_ns = excluded.rtt_ns,
            completed_at = excluded.completed_at,
            error = excluded.error
    `

	var rtt sql.NullInt64
	if result.RTT != nil {
		rtt = sql.NullInt64{Int64: result.RTT.Nanoseconds(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		result.Address.String(), result.Port, result.Hostname, string(result.Status),
		rtt, result.CompletedAt.UnixNano(), result.Error,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", errSaveResult, err)
	}

	return nil
}

// queryBuilder helps construct SQL queries with parameters.
type queryBuilder struct {
	query string
	args  []interface{}
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		query: `
            SELECT ip, port, hostname, status, rtt_ns, completed_at, error
            FROM scan_results
            WHERE 1=1
        `,
		args: make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addAddressFilter(addr netip.Addr) {
	if addr.IsValid() {
		qb.query += " AND ip = ?"
		qb.args = append(qb.args, addr.String())
	}
}

func (qb *queryBuilder) addPortFilter(port int) {
	if port != 0 {
		qb.query += " AND port = ?"
		qb.args = append(qb.args, port)
	}
}

func (qb *queryBuilder) addStatusFilter(status models.Status) {
	if status != "" {
		qb.query += " AND status = ?"
		qb.args = append(qb.args, string(status))
	}
}

func (qb *queryBuilder) addTimeRangeFilter(startTime, endTime time.Time) {
	if !startTime.IsZero() {
		qb.query += " AND completed_at >= ?"
		qb.args = append(qb.args, startTime.UnixNano())
	}

	if !endTime.IsZero() {
		qb.query += " AND completed_at <= ?"
		qb.args = append(qb.args, endTime.UnixNano())
	}
}

func (qb *queryBuilder) finalize() (queryString string, queryArgs []interface{}) {
	qb.query += " ORDER BY completed_at DESC"
	return qb.query, qb.args
}

func scanRow(rows *sql.Rows) (*models.ScanResult, error) {
	var (
		r         models.ScanResult
		ip        string
		status    string
		rtt       sql.NullInt64
		completed int64
	)

	if err := rows.Scan(&ip, &r.Port, &r.Hostname, &status, &rtt, &completed, &r.Error); err != nil {
		return nil, fmt.Errorf("%w: %w", errScanRow, err)
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errScanRow, err)
	}

	r.Address = addr
	r.Status = models.Status(status)
	r.CompletedAt = time.Unix(0, completed).UTC()

	if rtt.Valid {
		d := time.Duration(rtt.Int64)
		r.RTT = &d
	}

	return &r, nil
}

func (s *SQLiteStore) GetResults(ctx context.Context, filter *models.ResultFilter) ([]models.ScanResult, error) {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	if filter == nil {
		filter = &models.ResultFilter{}
	}

	qb := newQueryBuilder()
	qb.addAddressFilter(filter.Address)
	qb.addPortFilter(filter.Port)
	qb.addStatusFilter(filter.Status)
	qb.addTimeRangeFilter(filter.StartTime, filter.EndTime)
	query, args := qb.finalize()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errQueryResults, err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Error closing rows")
		}
	}(rows)

	var results []models.ScanResult

	for rows.Next() {
		result, err := scanRow(rows)
		if err != nil {
			return nil, err
		}

		results = append(results, *result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errGetResults, err)
	}

	return results, nil
}

func (s *SQLiteStore) SaveSummary(ctx context.Context, summary *models.ScanSummary) error {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	const query = `
        INSERT INTO scan_summaries (
            started_at, elapsed_ns, planned, submitted, completed,
            open_count, closed_count, unreachable_count, with_hostnames, cancelled
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	_, err := s.db.ExecContext(ctx, query,
		summary.StartedAt.UnixNano(), summary.Elapsed.Nanoseconds(),
		int64(summary.Planned), summary.Submitted, summary.Completed,
		summary.Count(models.StatusOpen), summary.Count(models.StatusClosed),
		summary.Count(models.StatusUnreachable), summary.WithHostnames, summary.Cancelled,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", errSaveSummary, err)
	}

	return nil
}

func (s *SQLiteStore) GetLatestSummary(ctx context.Context) (*models.ScanSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	const query = `
        SELECT started_at, elapsed_ns, planned, submitted, completed,
               open_count, closed_count, unreachable_count, with_hostnames, cancelled
        FROM scan_summaries
        ORDER BY id DESC
        LIMIT 1
    `

	var (
		summary                 models.ScanSummary
		startedAt, elapsed      int64
		planned                 int64
		open, closed, unreached int
	)

	err := s.db.QueryRowContext(ctx, query).Scan(
		&startedAt, &elapsed, &planned, &summary.Submitted, &summary.Completed,
		&open, &closed, &unreached, &summary.WithHostnames, &summary.Cancelled,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNoSummary
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", errQueryResults, err)
	}

	summary.StartedAt = time.Unix(0, startedAt).UTC()
	summary.Elapsed = time.Duration(elapsed)
	summary.Planned = uint64(planned)
	summary.StatusCounts = map[models.Status]int{
		models.StatusOpen:        open,
		models.StatusClosed:      closed,
		models.StatusUnreachable: unreached,
	}

	return &summary, nil
}

// PruneResults removes results older than the given age.
func (s *SQLiteStore) PruneResults(ctx context.Context, age time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, dbOperationTimeout)
	defer cancel()

	cutoff := time.Now().Add(-age)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", errBeginTx, err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Warn().Err(rbErr).Msg("Error rolling back transaction")
			}
		}
	}()

	_, err = tx.ExecContext(ctx, "DELETE FROM scan_results WHERE completed_at < ?", cutoff.UnixNano())
	if err != nil {
		return fmt.Errorf("%w: %w", errPruneResults, err)
	}

	err = tx.Commit()

	return err
}
