package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"SentiPulse/internal/domain/models"
	pkgch "SentiPulse/pkg/clickhouse"
	applogger "SentiPulse/pkg/logger"
)

// CHHistoryStore implements HistoryStore backed by ClickHouse.
type CHHistoryStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHHistoryStore(ch *pkgch.Client) *CHHistoryStore {
	return &CHHistoryStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHHistoryStore) SetLogger(l *applogger.Logger) { s.l = l }

const historyColumns = `trading_date, score, status, indicators, details, created_at`

func (s *CHHistoryStore) Append(ctx context.Context, rec *models.SentimentHistoryRecord) error {
	start := time.Now()
	const q = `
        INSERT INTO sentipulse.sentiment_history
        (` + historyColumns + `)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	if _, err := s.db.ExecContext(ctx, q,
		rec.TradingDate, int32(rec.Score), string(rec.Status),
		rec.Indicators, rec.Details, rec.CreatedAt,
	); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse append_history error",
				applogger.String("trading_date", rec.TradingDate),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("append history: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse append_history ok",
			applogger.String("trading_date", rec.TradingDate),
			applogger.Int("score", rec.Score),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHHistoryStore) ListSince(ctx context.Context, since time.Time) ([]models.SentimentHistoryRecord, error) {
	const q = `
        SELECT ` + historyColumns + `
        FROM sentipulse.sentiment_history
        WHERE created_at > ?
        ORDER BY created_at ASC
    `
	return s.list(ctx, q, since)
}

func (s *CHHistoryStore) ListRange(ctx context.Context, start, end time.Time) ([]models.SentimentHistoryRecord, error) {
	const q = `
        SELECT ` + historyColumns + `
        FROM sentipulse.sentiment_history
        WHERE created_at >= ? AND created_at <= ?
        ORDER BY created_at ASC
    `
	return s.list(ctx, q, start, end)
}

func (s *CHHistoryStore) list(ctx context.Context, q string, args ...interface{}) ([]models.SentimentHistoryRecord, error) {
	begin := time.Now()
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse history query error", applogger.Error(err))
		}
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	out := make([]models.SentimentHistoryRecord, 0, 64)
	for rows.Next() {
		var (
			rec    models.SentimentHistoryRecord
			score  int32
			status string
		)
		if err := rows.Scan(&rec.TradingDate, &score, &status,
			&rec.Indicators, &rec.Details, &rec.CreatedAt); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse history scan error", applogger.Error(err))
			}
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.Score = int(score)
		rec.Status = models.Status(status)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse history ok",
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(begin)),
		)
	}
	return out, nil
}
