package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/xuri/excelize/v2"
)

// DefaultBaseURL is the Google Sheets API endpoint.
const DefaultBaseURL = "https://sheets.googleapis.com"

// GoogleConfig configures a GoogleClient.
type GoogleConfig struct {
	BaseURL       string
	SpreadsheetID string
	Range         string
	APIKey        string
	AccessToken   string
	Timeout       time.Duration
}

// GoogleClient talks to the Google Sheets v4 values API.
type GoogleClient struct {
	client        *resty.Client
	spreadsheetID string
	valuesRange   string
}

type valueRange struct {
	Range          string     `json:"range,omitempty"`
	MajorDimension string     `json:"majorDimension,omitempty"`
	Values         [][]string `json:"values"`
}

// NewGoogleClient creates a GoogleClient. Reads work with an API key; writes need an access token.
func NewGoogleClient(cfg GoogleConfig) (*GoogleClient, error) {
	if cfg.SpreadsheetID == "" {
		return nil, ErrNotConfigured
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Range == "" {
		cfg.Range = DefaultRange
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetPathParam("spreadsheetId", cfg.SpreadsheetID)
	if cfg.AccessToken != "" {
		client.SetAuthToken(cfg.AccessToken)
	}
	if cfg.APIKey != "" {
		client.SetQueryParam("key", cfg.APIKey)
	}

	return &GoogleClient{client: client, spreadsheetID: cfg.SpreadsheetID, valuesRange: cfg.Range}, nil
}

// GetAllRows returns every row of the configured range, headers included.
func (c *GoogleClient) GetAllRows(ctx context.Context) ([][]string, error) {
	var result valueRange
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("range", c.valuesRange).
		SetResult(&result).
		Get("/v4/spreadsheets/{spreadsheetId}/values/{range}")
	if err != nil {
		return nil, fmt.Errorf("%w: get rows: %w", ErrRemote, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: get rows: %s: %s", ErrRemote, resp.Status(), resp.String())
	}

	slog.Debug("fetched sheet rows", slog.String("spreadsheet_id", c.spreadsheetID), slog.Int("rows", len(result.Values)))
	if result.Values == nil {
		return [][]string{}, nil
	}
	return result.Values, nil
}

// AppendRow adds a row after the last non-empty row of the range.
func (c *GoogleClient) AppendRow(ctx context.Context, values []string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("range", c.valuesRange).
		SetQueryParams(map[string]string{
			"valueInputOption": "RAW",
			"insertDataOption": "INSERT_ROWS",
		}).
		SetBody(valueRange{Values: [][]string{values}}).
		Post("/v4/spreadsheets/{spreadsheetId}/values/{range}:append")
	if err != nil {
		return fmt.Errorf("%w: append row: %w", ErrRemote, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: append row: %s: %s", ErrRemote, resp.Status(), resp.String())
	}
	return nil
}

// UpdateRow overwrites the cells of one sheet row starting at column A.
func (c *GoogleClient) UpdateRow(ctx context.Context, rowIndex int, values []string) error {
	rowRange, err := RowRange(SheetName(c.valuesRange), rowIndex, len(values))
	if err != nil {
		return err
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("range", rowRange).
		SetQueryParam("valueInputOption", "RAW").
		SetBody(valueRange{Range: rowRange, MajorDimension: "ROWS", Values: [][]string{values}}).
		Put("/v4/spreadsheets/{spreadsheetId}/values/{range}")
	if err != nil {
		return fmt.Errorf("%w: update row %d: %w", ErrRemote, rowIndex, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: update row %d: %s: %s", ErrRemote, rowIndex, resp.Status(), resp.String())
	}
	return nil
}

// RowRange builds the A1 range of a single row, e.g. "Sheet1!A5:K5".
func RowRange(sheet string, rowIndex, width int) (string, error) {
	if rowIndex < 1 {
		return "", fmt.Errorf("%w: %d", ErrInvalidRow, rowIndex)
	}
	if width < 1 {
		width = 1
	}
	last, err := excelize.ColumnNumberToName(width)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s!A%d:%s%d", sheet, rowIndex, last, rowIndex), nil
}
