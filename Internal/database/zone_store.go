package datafeed

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fazecat/zonewatch/Internal/types"
)

// ZoneRecord is a persisted zone row.
type ZoneRecord struct {
	ID               int64            `json:"id"`
	Ticker           string           `json:"ticker"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
	CandleCount      int              `json:"candle_count"`
	Score            float64          `json:"score"`
	ScoreChange      float64          `json:"score_change"`
	TotalDiffPercent float64          `json:"total_diff_percent"`
	AvgRSI           float64          `json:"avg_rsi"`
	HighestBody      float64          `json:"highest_body"`
	LowestBody       float64          `json:"lowest_body"`
	Status           types.ZoneStatus `json:"status"`
	LastUpdated      time.Time        `json:"last_updated"`
	CreatedAt        time.Time        `json:"created_at"`
}

// ScoreHistoryEntry is one day of a zone's score time series.
type ScoreHistoryEntry struct {
	ID          int64     `json:"id"`
	ZoneID      int64     `json:"zone_id"`
	Date        time.Time `json:"date"`
	Score       float64   `json:"score"`
	ScoreChange float64   `json:"score_change"`
	CandleCount int       `json:"candle_count"`
}

// ScanLog records one scan execution.
type ScanLog struct {
	ID               int64     `json:"id"`
	ScanDate         time.Time `json:"scan_date"`
	TotalTickers     int       `json:"total_tickers"`
	ActiveZonesFound int       `json:"active_zones_found"`
	CompletedZones   int       `json:"completed_zones"`
	Errors           string    `json:"errors"`
	DurationSeconds  float64   `json:"duration_seconds"`
}

// SaveZone inserts a detected zone, or updates the existing active zone with
// the same ticker and start date, then appends today's score history entry.
func SaveZone(ctx context.Context, z types.Zone) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	highest := decimal.NewFromFloat(z.HighestBody).Round(4).String()
	lowest := decimal.NewFromFloat(z.LowestBody).Round(4).String()

	var zoneID int64
	err := DB.QueryRowContext(ctx,
		`SELECT id FROM zones WHERE ticker = $1 AND start_date = $2 AND status = 'active'`,
		z.Ticker, z.StartDate).Scan(&zoneID)

	switch {
	case err == sql.ErrNoRows:
		err = DB.QueryRowContext(ctx,
			`INSERT INTO zones (ticker, start_date, end_date, candle_count, score,
			                    highest_body, lowest_body, total_diff_percent, avg_rsi, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 RETURNING id`,
			z.Ticker, z.StartDate, z.EndDate, z.CandleCount, z.Score,
			highest, lowest, z.TotalDiffPercent, z.AvgRSI, string(z.Status)).Scan(&zoneID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert zone: %w", err)
		}
	case err != nil:
		return 0, fmt.Errorf("failed to look up zone: %w", err)
	default:
		_, err = DB.ExecContext(ctx,
			`UPDATE zones
			 SET end_date = $1, candle_count = $2, score = $3, highest_body = $4,
			     lowest_body = $5, total_diff_percent = $6, avg_rsi = $7, status = $8,
			     last_updated = CURRENT_TIMESTAMP
			 WHERE id = $9`,
			z.EndDate, z.CandleCount, z.Score, highest, lowest,
			z.TotalDiffPercent, z.AvgRSI, string(z.Status), zoneID)
		if err != nil {
			return 0, fmt.Errorf("failed to update zone: %w", err)
		}
	}

	if err := addScoreHistory(ctx, zoneID, z.Score, z.CandleCount); err != nil {
		log.Printf("Error adding score history for zone %d: %v", zoneID, err)
	}

	return zoneID, nil
}

// addScoreHistory upserts today's entry, computing the change against the
// previous recorded score.
func addScoreHistory(ctx context.Context, zoneID int64, score float64, candleCount int) error {
	today := time.Now().Format("2006-01-02")

	var historyID int64
	var oldScore float64
	err := DB.QueryRowContext(ctx,
		`SELECT id, score FROM score_history WHERE zone_id = $1 AND date = $2`,
		zoneID, today).Scan(&historyID, &oldScore)

	if err == nil {
		_, err = DB.ExecContext(ctx,
			`UPDATE score_history SET score = $1, score_change = $2, candle_count = $3 WHERE id = $4`,
			score, score-oldScore, candleCount, historyID)
		return err
	}
	if err != sql.ErrNoRows {
		return err
	}

	scoreChange := 0.0
	var prevScore float64
	err = DB.QueryRowContext(ctx,
		`SELECT score FROM score_history WHERE zone_id = $1 ORDER BY date DESC LIMIT 1`,
		zoneID).Scan(&prevScore)
	if err == nil {
		scoreChange = score - prevScore
	} else if err != sql.ErrNoRows {
		return err
	}

	_, err = DB.ExecContext(ctx,
		`INSERT INTO score_history (zone_id, date, score, score_change, candle_count)
		 VALUES ($1, $2, $3, $4, $5)`,
		zoneID, today, score, scoreChange, candleCount)
	return err
}

// MarkZonesBroken flips every active zone for a ticker to broken. Called when
// a fresh scan produced no active zone for that ticker.
func MarkZonesBroken(ctx context.Context, ticker string) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	res, err := DB.ExecContext(ctx,
		`UPDATE zones SET status = 'broken', last_updated = CURRENT_TIMESTAMP
		 WHERE ticker = $1 AND status = 'active'`, ticker)
	if err != nil {
		return 0, fmt.Errorf("failed to mark zones broken: %w", err)
	}
	return res.RowsAffected()
}

// CleanupOldZones deletes completed/broken zones whose end date is older than
// the retention window. Score history rows cascade.
func CleanupOldZones(ctx context.Context, days int) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	cutoff := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
	res, err := DB.ExecContext(ctx,
		`DELETE FROM zones WHERE status IN ('completed', 'broken') AND end_date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up old zones: %w", err)
	}
	return res.RowsAffected()
}

// GetActiveZones returns active zones ordered by score, each carrying its
// latest score change.
func GetActiveZones(ctx context.Context) ([]ZoneRecord, error) {
	rows, err := DB.QueryContext(ctx,
		zoneSelect+` WHERE status = 'active' ORDER BY score DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active zones: %w", err)
	}
	defer rows.Close()

	zones, err := scanZoneRows(rows)
	if err != nil {
		return nil, err
	}

	for i := range zones {
		zones[i].ScoreChange, _ = GetZoneScoreChange(ctx, zones[i].ID)
	}
	return zones, nil
}

// GetCompletedZones returns completed/broken zones that ended within the last
// N days. Only zones that scored at least 50 are worth surfacing.
func GetCompletedZones(ctx context.Context, days int) ([]ZoneRecord, error) {
	cutoff := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
	rows, err := DB.QueryContext(ctx,
		zoneSelect+` WHERE status IN ('completed', 'broken') AND end_date >= $1 AND score >= 50
		 ORDER BY end_date DESC`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch completed zones: %w", err)
	}
	defer rows.Close()

	return scanZoneRows(rows)
}

// GetZoneWithHistory returns one zone and its full score history.
func GetZoneWithHistory(ctx context.Context, zoneID int64) (*ZoneRecord, []ScoreHistoryEntry, error) {
	row := DB.QueryRowContext(ctx, zoneSelect+` WHERE id = $1`, zoneID)
	zone, err := scanZoneRow(row)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch zone %d: %w", zoneID, err)
	}

	rows, err := DB.QueryContext(ctx,
		`SELECT id, zone_id, date, score, score_change, candle_count
		 FROM score_history WHERE zone_id = $1 ORDER BY date`, zoneID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch score history: %w", err)
	}
	defer rows.Close()

	var history []ScoreHistoryEntry
	for rows.Next() {
		var h ScoreHistoryEntry
		if err := rows.Scan(&h.ID, &h.ZoneID, &h.Date, &h.Score, &h.ScoreChange, &h.CandleCount); err != nil {
			return nil, nil, err
		}
		history = append(history, h)
	}
	return zone, history, rows.Err()
}

// GetZoneScoreChange returns the most recent score change for a zone.
func GetZoneScoreChange(ctx context.Context, zoneID int64) (float64, error) {
	var change float64
	err := DB.QueryRowContext(ctx,
		`SELECT score_change FROM score_history WHERE zone_id = $1 ORDER BY date DESC LIMIT 1`,
		zoneID).Scan(&change)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return change, err
}

// SaveScanLog records one scan execution.
func SaveScanLog(ctx context.Context, totalTickers, activeZones, completedZones int, errors string, duration time.Duration) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	_, err := DB.ExecContext(ctx,
		`INSERT INTO scan_logs (total_tickers, active_zones_found, completed_zones, errors, duration_seconds)
		 VALUES ($1, $2, $3, $4, $5)`,
		totalTickers, activeZones, completedZones, errors, duration.Seconds())
	if err != nil {
		return fmt.Errorf("failed to save scan log: %w", err)
	}
	return nil
}

// GetLatestScanLog returns the most recent scan log, or nil when no scan ran yet.
func GetLatestScanLog(ctx context.Context) (*ScanLog, error) {
	var sl ScanLog
	var errs sql.NullString
	err := DB.QueryRowContext(ctx,
		`SELECT id, scan_date, total_tickers, active_zones_found, completed_zones, errors, duration_seconds
		 FROM scan_logs ORDER BY scan_date DESC LIMIT 1`).
		Scan(&sl.ID, &sl.ScanDate, &sl.TotalTickers, &sl.ActiveZonesFound, &sl.CompletedZones, &errs, &sl.DurationSeconds)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scan log: %w", err)
	}
	sl.Errors = errs.String
	return &sl, nil
}

const zoneSelect = `SELECT id, ticker, start_date, end_date, candle_count, score,
	highest_body, lowest_body, total_diff_percent, avg_rsi, status, last_updated, created_at
	FROM zones`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanZoneRow(row rowScanner) (*ZoneRecord, error) {
	var z ZoneRecord
	var status, highest, lowest string
	err := row.Scan(&z.ID, &z.Ticker, &z.StartDate, &z.EndDate, &z.CandleCount, &z.Score,
		&highest, &lowest, &z.TotalDiffPercent, &z.AvgRSI, &status, &z.LastUpdated, &z.CreatedAt)
	if err != nil {
		return nil, err
	}

	z.Status = types.ZoneStatus(status)
	if d, err := decimal.NewFromString(highest); err == nil {
		z.HighestBody, _ = d.Float64()
	}
	if d, err := decimal.NewFromString(lowest); err == nil {
		z.LowestBody, _ = d.Float64()
	}
	return &z, nil
}

func scanZoneRows(rows *sql.Rows) ([]ZoneRecord, error) {
	var zones []ZoneRecord
	for rows.Next() {
		z, err := scanZoneRow(rows)
		if err != nil {
			return nil, err
		}
		zones = append(zones, *z)
	}
	return zones, rows.Err()
}
