package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/branchpulse/branchpulse/internal/config"
	"github.com/branchpulse/branchpulse/internal/domain/models"
)

// Roster columns expected in the configured sheet: id, name, category,
// optional region. The first row is a header and is skipped.
const rosterRange = "Roster!A2:D"

// RosterSource reads the branch roster maintained by the network team.
type RosterSource interface {
	ReadRoster(ctx context.Context) ([]models.Location, error)
}

// GoogleSheetRoster implements RosterSource using the official Sheets API.
type GoogleSheetRoster struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRoster builds a Google Sheets backed roster source.
func NewGoogleSheetRoster(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (RosterSource, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRoster{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// ReadRoster fetches and parses the roster rows. Rows with a missing id or
// an unknown category are skipped with a debug log rather than failing the
// whole import.
func (r *GoogleSheetRoster) ReadRoster(ctx context.Context) ([]models.Location, error) {
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, rosterRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read roster range %s: %w", rosterRange, err)
	}

	locations := make([]models.Location, 0, len(resp.Values))
	for i, row := range resp.Values {
		if len(row) < 3 {
			continue
		}

		id := strings.TrimSpace(fmt.Sprint(row[0]))
		name := strings.TrimSpace(fmt.Sprint(row[1]))
		if id == "" {
			r.logger.Debug("skip roster row without id", zap.Int("row", i+2))
			continue
		}

		category, ok := models.ParseCategory(strings.ToUpper(strings.TrimSpace(fmt.Sprint(row[2]))))
		if !ok {
			r.logger.Debug("skip roster row with unknown category",
				zap.Int("row", i+2), zap.Any("value", row[2]))
			continue
		}

		location := models.Location{ID: id, Name: name, Category: category}
		if len(row) > 3 {
			location.Region = strings.TrimSpace(fmt.Sprint(row[3]))
		}
		locations = append(locations, location)
	}

	r.logger.Debug("roster rows read", zap.Int("count", len(locations)))
	return locations, nil
}
