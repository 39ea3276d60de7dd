package db

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
)

// Instrumented times every statement sent through the wrapped DBTX. A query is
// observed once its rows are drained or closed, so streaming and scanning count.
type Instrumented struct {
	DBTX
	duration *prometheus.HistogramVec
}

// Instrument wraps conn so each call is observed on duration, labeled by SQL verb.
func Instrument(conn DBTX, duration *prometheus.HistogramVec) *Instrumented {
	return &Instrumented{DBTX: conn, duration: duration}
}

func (i *Instrumented) observe(sql string, start time.Time) {
	i.duration.WithLabelValues(statement(sql)).Observe(time.Since(start).Seconds())
}

func (i *Instrumented) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	defer i.observe(sql, time.Now())
	return i.DBTX.Exec(ctx, sql, args...)
}

func (i *Instrumented) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	start := time.Now()
	rows, err := i.DBTX.Query(ctx, sql, args...)
	if err != nil {
		i.observe(sql, start)
		return nil, err
	}
	return &timedRows{Rows: rows, done: func() { i.observe(sql, start) }}, nil
}

func (i *Instrumented) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	start := time.Now()
	row := i.DBTX.QueryRow(ctx, sql, args...)
	return &timedRow{row: row, done: func() { i.observe(sql, start) }}
}

type timedRows struct {
	pgx.Rows
	once sync.Once
	done func()
}

func (r *timedRows) Next() bool {
	if r.Rows.Next() {
		return true
	}
	r.once.Do(r.done)
	return false
}

func (r *timedRows) Close() {
	r.Rows.Close()
	r.once.Do(r.done)
}

type timedRow struct {
	row  pgx.Row
	done func()
}

func (r *timedRow) Scan(dest ...any) error {
	defer r.done()
	return r.row.Scan(dest...)
}

func statement(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "other"
	}
	switch verb := strings.ToLower(fields[0]); verb {
	case "select", "insert", "update", "delete", "with":
		if verb == "with" {
			return "select"
		}
		return verb
	default:
		return "other"
	}
}
