package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/farmbook/internal/config"
	"github.com/mamadbah2/farmbook/internal/domain/models"
)

// SnapshotHeader names the exported columns, in row order.
var SnapshotHeader = []interface{}{
	"Date", "Income", "Expense", "Profit",
	"Eggs produced", "Eggs sold", "Egg stock", "Egg stock warning",
	"Chickens", "Chicken warning", "Eggs today", "Dead today",
	"Avg eggs 7d", "Hen-day %", "Mortality 7d %", "Ponds",
}

// SnapshotExporter appends dashboard snapshots to a spreadsheet.
type SnapshotExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	sheetRange    string
	logger        *zap.Logger
}

// NewSnapshotExporter builds a Google Sheets backed exporter.
func NewSnapshotExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*SnapshotExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &SnapshotExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetRange:    cfg.SnapshotRange,
		logger:        logger,
	}, nil
}

// AppendSnapshot writes the snapshot as one row.
func (e *SnapshotExporter) AppendSnapshot(ctx context.Context, snap models.DashboardSnapshot) error {
	if e.sheetRange == "" {
		return fmt.Errorf("sheet range must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{SnapshotRow(snap)}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, e.sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append snapshot into range %s: %w", e.sheetRange, err)
	}

	e.logger.Debug("snapshot appended to sheet", zap.String("range", e.sheetRange), zap.String("date", snap.Date))
	return nil
}

// SnapshotRow flattens a snapshot into cells matching SnapshotHeader. Ponds
// collapse into one "name current/capacity" cell.
func SnapshotRow(snap models.DashboardSnapshot) []interface{} {
	ponds := make([]string, 0, len(snap.Ponds))
	for _, p := range snap.Ponds {
		ponds = append(ponds, fmt.Sprintf("%s %d/%d", p.Name, p.Current, p.Capacity))
	}

	return []interface{}{
		snap.Date,
		snap.Income,
		snap.Expense,
		snap.Profit,
		snap.EggsProduced,
		snap.EggsSold,
		snap.EggsStock,
		snap.EggStockWarning,
		snap.Chickens,
		snap.ChickenWarning,
		snap.EggsToday,
		snap.DeadToday,
		snap.AvgEggs7d,
		snap.HenDayPct,
		snap.Mortality7dPct,
		strings.Join(ponds, "; "),
	}
}
