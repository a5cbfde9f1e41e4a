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

// CHIndicatorStore implements MarketDataStore backed by ClickHouse.
type CHIndicatorStore struct {
	ch *pkgch.Client
	db *sql.DB
	l  *applogger.Logger
}

func NewCHIndicatorStore(ch *pkgch.Client) *CHIndicatorStore {
	return &CHIndicatorStore{ch: ch, db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHIndicatorStore) SetLogger(l *applogger.Logger) { s.l = l }

const readingColumns = `type, raw_value, normalized, source, trading_date, captured_at, valid, error`

func (s *CHIndicatorStore) Store(ctx context.Context, r *models.IndicatorReading) error {
	const q = `
        INSERT INTO sentipulse.indicator_readings
        (` + readingColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	valid := uint8(0)
	if r.Valid {
		valid = 1
	}
	if _, err := s.db.ExecContext(ctx, q,
		string(r.Type), r.RawValue, r.Normalized, r.Source,
		r.TradingDate, r.CapturedAt, valid, r.ErrorMsg,
	); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store_reading error",
				applogger.String("type", string(r.Type)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store reading: %w", err)
	}
	return nil
}

// GetLatestValid returns the freshest valid reading for one indicator inside
// the window, or (nil, nil) when none exists.
func (s *CHIndicatorStore) GetLatestValid(ctx context.Context, t models.IndicatorType, window time.Duration) (*models.IndicatorReading, error) {
	start := time.Now()
	const q = `
        SELECT ` + readingColumns + `
        FROM sentipulse.indicator_readings
        WHERE type = ? AND valid = 1 AND captured_at >= ?
        ORDER BY captured_at DESC
        LIMIT 1
    `
	since := time.Now().UTC().Add(-window)
	row := s.db.QueryRowContext(ctx, q, string(t), since)

	r, err := scanReading(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if s.l != nil {
			s.l.Error("clickhouse latest_valid query error",
				applogger.String("type", string(t)),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("latest valid reading: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse latest_valid ok",
			applogger.String("type", string(t)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return r, nil
}

// GetLatestValidBatch returns the freshest valid reading per indicator type
// inside the window. Indicators without a fresh valid reading are absent
// from the map.
func (s *CHIndicatorStore) GetLatestValidBatch(ctx context.Context, window time.Duration) (map[models.IndicatorType]models.IndicatorReading, error) {
	start := time.Now()
	const q = `
        SELECT ` + readingColumns + `
        FROM sentipulse.indicator_readings
        WHERE valid = 1 AND captured_at >= ?
        ORDER BY captured_at DESC
        LIMIT 1 BY type
    `
	since := time.Now().UTC().Add(-window)
	rows, err := s.db.QueryContext(ctx, q, since)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_batch query error", applogger.Error(err))
		}
		return nil, fmt.Errorf("latest valid batch: %w", err)
	}
	defer rows.Close()

	out := make(map[models.IndicatorType]models.IndicatorReading, len(models.AllIndicators()))
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			if s.l != nil {
				s.l.Error("clickhouse latest_batch scan error", applogger.Error(err))
			}
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		out[r.Type] = *r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse latest_batch ok",
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHIndicatorStore) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReading(row rowScanner) (*models.IndicatorReading, error) {
	var (
		r     models.IndicatorReading
		typ   string
		valid uint8
	)
	if err := row.Scan(&typ, &r.RawValue, &r.Normalized, &r.Source,
		&r.TradingDate, &r.CapturedAt, &valid, &r.ErrorMsg); err != nil {
		return nil, err
	}
	r.Type = models.IndicatorType(typ)
	r.Valid = valid == 1
	return &r, nil
}
