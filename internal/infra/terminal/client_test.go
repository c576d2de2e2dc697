package terminal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/lisquant/valuation/internal/domain/marketdata"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	c := New(u.Hostname(), 0, 5*time.Second, 2014, 2024)
	c.BaseURL = srv.URL
	return c
}

func TestFetchFundamentals_BatchesAndOverride(t *testing.T) {
	var requests []historicalRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/refdata/historical" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req historicalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		requests = append(requests, req)
		json.NewEncoder(w).Encode(historicalResponse{
			FieldData: []fieldData{{Date: "2020-12-31", Values: map[string]float64{"SALES_REV_TURN": 1000}}},
		})
	})

	f, err := c.FetchFundamentals(context.Background(), "AAPL US")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(requests) == 0 {
		t.Fatalf("no requests made")
	}
	for _, req := range requests {
		if len(req.Fields) == 0 || len(req.Fields) > maxFieldsPerRequest {
			t.Fatalf("batch size %d out of bounds", len(req.Fields))
		}
		if req.Security != "AAPL US Equity" {
			t.Fatalf("security = %q", req.Security)
		}
		if req.Periodicity != "YEARLY" || req.StartDate != "20140101" || req.EndDate != "20241231" {
			t.Fatalf("unexpected range: %+v", req)
		}
		if len(req.Overrides) != 1 || req.Overrides[0].FieldID != "EQY_FUND_CRNCY" || req.Overrides[0].Value != "USD" {
			t.Fatalf("missing USD override: %+v", req.Overrides)
		}
	}

	if got := f.Get("SALES_REV_TURN", 2020, -1); got != 1000 {
		t.Fatalf("revenue 2020 = %v, want 1000", got)
	}
	// Derived metrics ride along with the fetch.
	if _, ok := f[marketdata.FieldDSO]; !ok {
		t.Fatalf("derived DSO series missing")
	}
}

func TestFetchBatch_InvalidFieldsMarkedNA(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(historicalResponse{
			FieldExceptions: []fieldException{{FieldID: "BOGUS_FIELD", Message: "unknown mnemonic"}},
			FieldData: []fieldData{{
				Date:   "2019-12-31",
				Values: map[string]float64{"NET_INCOME": 55, "BOGUS_FIELD": 1},
			}},
		})
	})

	got, err := c.fetchBatch(context.Background(), "IBM", []marketdata.FieldCode{"NET_INCOME", "BOGUS_FIELD"})
	if err != nil {
		t.Fatalf("fetch batch: %v", err)
	}

	if v := got["NET_INCOME"][2019]; !v.Numeric || v.Num != 55 {
		t.Fatalf("net income = %+v", v)
	}
	// Every year in range carries the N/A marker; the numeric value the
	// gateway still sent for the rejected field is ignored.
	for year := 2014; year <= 2024; year++ {
		v, ok := got["BOGUS_FIELD"][year]
		if !ok || v.Numeric || v.Note != naInvalidField {
			t.Fatalf("year %d: want N/A marker, got %+v (ok=%v)", year, v, ok)
		}
	}
}

func TestFetchBatch_GatewayErrors(t *testing.T) {
	t.Run("response error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(historicalResponse{ResponseError: "session terminated"})
		})
		if _, err := c.fetchBatch(context.Background(), "IBM", []marketdata.FieldCode{"NET_INCOME"}); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("http error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gateway down", http.StatusBadGateway)
		})
		if _, err := c.fetchBatch(context.Background(), "IBM", []marketdata.FieldCode{"NET_INCOME"}); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("too many fields", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		var fields []marketdata.FieldCode
		for i := 0; i < maxFieldsPerRequest+1; i++ {
			fields = append(fields, marketdata.FieldCode(rune('A'+i)))
		}
		if _, err := c.fetchBatch(context.Background(), "IBM", fields); err == nil {
			t.Fatalf("expected error")
		}
	})
}
