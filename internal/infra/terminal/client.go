// Package terminal implements the market-data fetch adapter against the
// terminal gateway's HTTP reference-data API. The gateway mirrors the
// terminal's native service: historical requests carry at most 25 fields,
// report invalid mnemonics as field exceptions, and return yearly points
// per security.
package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lisquant/valuation/internal/domain/marketdata"
)

// maxFieldsPerRequest is the gateway's hard limit per historical request.
const maxFieldsPerRequest = 25

// naInvalidField marks points whose mnemonic the gateway rejected.
const naInvalidField = "N/A (Invalid Field)"

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	StartYear  int
	EndYear    int
}

// New builds a gateway client. timeout bounds each historical request.
func New(host string, port int, timeout time.Duration, startYear, endYear int) *Client {
	return &Client{
		BaseURL:    fmt.Sprintf("http://%s:%d", host, port),
		HTTPClient: &http.Client{Timeout: timeout},
		StartYear:  startYear,
		EndYear:    endYear,
	}
}

type historicalRequest struct {
	Security    string   `json:"security"`
	Fields      []string `json:"fields"`
	Periodicity string   `json:"periodicity"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Overrides   []struct {
		FieldID string `json:"field_id"`
		Value   string `json:"value"`
	} `json:"overrides"`
}

type fieldException struct {
	FieldID string `json:"field_id"`
	Message string `json:"message"`
}

type fieldData struct {
	Date   string             `json:"date"` // yyyy-mm-dd
	Values map[string]float64 `json:"values"`
}

type historicalResponse struct {
	ResponseError   string           `json:"response_error,omitempty"`
	FieldExceptions []fieldException `json:"field_exceptions,omitempty"`
	FieldData       []fieldData      `json:"field_data"`
}

// FetchFundamentals fetches the whole valuation field set for one ticker,
// statement by statement, and appends the locally derived metrics. All
// values are requested in USD via the currency override.
func (c *Client) FetchFundamentals(ctx context.Context, ticker string) (marketdata.Fundamentals, error) {
	out := make(marketdata.Fundamentals)

	for _, stmt := range []marketdata.Statement{
		marketdata.StatementIncome,
		marketdata.StatementBalance,
		marketdata.StatementCashFlow,
	} {
		fields := marketdata.TerminalFields(stmt)
		for _, batch := range batchFields(fields, maxFieldsPerRequest) {
			got, err := c.fetchBatch(ctx, ticker, batch)
			if err != nil {
				return nil, fmt.Errorf("statement %s: %w", stmt, err)
			}
			out.Merge(got)
		}
	}

	out.Merge(marketdata.Derive(out, c.StartYear, c.EndYear))
	return out, nil
}

func (c *Client) fetchBatch(ctx context.Context, ticker string, fields []marketdata.FieldCode) (marketdata.Fundamentals, error) {
	if len(fields) == 0 {
		return marketdata.Fundamentals{}, nil
	}
	if len(fields) > maxFieldsPerRequest {
		return nil, fmt.Errorf("too many fields (%d); gateway limit is %d per request", len(fields), maxFieldsPerRequest)
	}

	reqBody := historicalRequest{
		Security:    ticker + " Equity",
		Periodicity: "YEARLY",
		StartDate:   fmt.Sprintf("%d0101", c.StartYear),
		EndDate:     fmt.Sprintf("%d1231", c.EndYear),
	}
	for _, f := range fields {
		reqBody.Fields = append(reqBody.Fields, string(f))
	}
	reqBody.Overrides = append(reqBody.Overrides, struct {
		FieldID string `json:"field_id"`
		Value   string `json:"value"`
	}{FieldID: "EQY_FUND_CRNCY", Value: "USD"})

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/refdata/historical", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("terminal gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("terminal gateway returned %s", resp.Status)
	}

	var body historicalResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding gateway response: %w", err)
	}
	if body.ResponseError != "" {
		return nil, fmt.Errorf("terminal error: %s", body.ResponseError)
	}

	out := make(marketdata.Fundamentals, len(fields))
	invalid := make(map[marketdata.FieldCode]bool, len(body.FieldExceptions))
	for _, exc := range body.FieldExceptions {
		invalid[marketdata.FieldCode(exc.FieldID)] = true
	}

	// Rejected mnemonics get an N/A marker for every year in range so the
	// workbook shows the gap instead of a silent zero.
	for _, f := range fields {
		if invalid[f] {
			s := make(marketdata.Series)
			for year := c.StartYear; year <= c.EndYear; year++ {
				s[year] = marketdata.NotAvailable(naInvalidField)
			}
			out[f] = s
		}
	}

	for _, datum := range body.FieldData {
		year, err := yearOf(datum.Date)
		if err != nil {
			continue
		}
		for code, value := range datum.Values {
			field := marketdata.FieldCode(code)
			if invalid[field] {
				continue
			}
			s, ok := out[field]
			if !ok {
				s = make(marketdata.Series)
				out[field] = s
			}
			s[year] = marketdata.Number(value)
		}
	}

	return out, nil
}

func yearOf(date string) (int, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, err
	}
	return t.Year(), nil
}
