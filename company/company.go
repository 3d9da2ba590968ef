// Copyright 2023 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package company implements the per-symbol FMP endpoints: financial
// statements, company profile, price history, analyses and event feeds. Every
// operation returns a table with one row per reporting period, trading day or
// event, in the order the vendor returned them.
package company

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fmp"
	"github.com/stockparfait/fmp/table"
	"github.com/stockparfait/logging"
)

// endpoints is the static registry of the per-symbol operations. The v3 paths
// take the symbol in the path, the v4 ones as a query parameter.
var endpoints = map[string]string{
	"income-statements":        "v3/income-statement/{symbol}",
	"balance-sheet-statements": "v3/balance-sheet-statement/{symbol}",
	"cash-flow-statements":     "v3/cash-flow-statement/{symbol}",
	"profile":                  "v3/profile/{symbol}",
	"daily-prices":             "v3/historical-price-full/{symbol}",
	"split-history":            "v3/historical-price-full/stock_split/{symbol}",
	"financial-ratios":         "v3/ratios/{symbol}",
	"enterprise-values":        "v3/enterprise-values/{symbol}",
	"key-metrics":              "v3/key-metrics/{symbol}",
	"rating":                   "v3/historical-rating/{symbol}",
	"dcf":                      "v3/historical-daily-discounted-cash-flow/{symbol}",
	"esg-scores":               "v4/esg-environmental-social-governance-data",
	"esg-risk-ratings":         "v4/esg-environmental-social-governance-data-ratings",
	"upgrades-downgrades":      "v4/upgrades-downgrades-consensus",
	"insider-trading":          "v4/insider-trading",
}

func endpoint(name string) fmp.Endpoint {
	return fmp.Endpoint{Name: name, Path: endpoints[name]}
}

// historyLimit is the row limit used for the daily rating and DCF histories.
const historyLimit = 50000

// periodQuery assembles the period/limit query parameters.
func periodQuery(period fmp.Period, limit int) url.Values {
	q := make(url.Values)
	if period != fmp.PeriodDefault && period != fmp.PeriodAuto {
		q.Set("period", string(period))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

// fetchByPeriod fetches a statement-like endpoint. PeriodAuto tries quarterly
// reports first and falls back to annual when the vendor has none.
func fetchByPeriod(ctx context.Context, op, symbol string, period fmp.Period, limit int) (*table.Table, error) {
	if period == fmp.PeriodAuto {
		t, err := fetchByPeriod(ctx, op, symbol, fmp.PeriodQuarterly, limit)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, fmp.ErrNoData) {
			return nil, err
		}
		logging.Infof(ctx, "%s: no quarterly data for %s, falling back to annual",
			op, symbol)
		return fetchByPeriod(ctx, op, symbol, fmp.PeriodAnnual, limit)
	}
	return endpoint(op).FetchTable(ctx, symbol, periodQuery(period, limit))
}

// IncomeStatements returns the filed income statements of the symbol, one row
// per reporting period.
func IncomeStatements(ctx context.Context, symbol string, period fmp.Period, limit int) (*table.Table, error) {
	logging.Infof(ctx, "fetching income statements for %s", symbol)
	return fetchByPeriod(ctx, "income-statements", symbol, period, limit)
}

// BalanceSheetStatements returns the balance sheet statements of the symbol.
func BalanceSheetStatements(ctx context.Context, symbol string, period fmp.Period, limit int) (*table.Table, error) {
	logging.Infof(ctx, "fetching balance sheet statements for %s", symbol)
	return fetchByPeriod(ctx, "balance-sheet-statements", symbol, period, limit)
}

// CashFlowStatements returns the cash flow statements of the symbol.
func CashFlowStatements(ctx context.Context, symbol string, period fmp.Period, limit int) (*table.Table, error) {
	logging.Infof(ctx, "fetching cash flow statements for %s", symbol)
	return fetchByPeriod(ctx, "cash-flow-statements", symbol, period, limit)
}

// FinancialRatios returns the financial ratios of the symbol.
func FinancialRatios(ctx context.Context, symbol string, period fmp.Period, limit int) (*table.Table, error) {
	logging.Infof(ctx, "fetching financial ratios for %s", symbol)
	return fetchByPeriod(ctx, "financial-ratios", symbol, period, limit)
}

// EnterpriseValues returns the enterprise value history of the symbol.
func EnterpriseValues(ctx context.Context, symbol string, period fmp.Period, limit int) (*table.Table, error) {
	logging.Infof(ctx, "fetching enterprise values for %s", symbol)
	return fetchByPeriod(ctx, "enterprise-values", symbol, period, limit)
}

// KeyMetrics returns the key metrics history of the symbol.
func KeyMetrics(ctx context.Context, symbol string, period fmp.Period, limit int) (*table.Table, error) {
	logging.Infof(ctx, "fetching key metrics for %s", symbol)
	return fetchByPeriod(ctx, "key-metrics", symbol, period, limit)
}

// Profile returns the company profile and meta-data as a one-row table.
func Profile(ctx context.Context, symbol string) (*table.Table, error) {
	logging.Infof(ctx, "fetching profile for %s", symbol)
	return endpoint("profile").FetchTable(ctx, symbol, nil)
}

// DailyPrices returns the daily price history of the symbol within the
// inclusive date range. A zero date leaves the corresponding bound at the
// vendor default.
func DailyPrices(ctx context.Context, symbol string, from, to fmp.Date) (*table.Table, error) {
	logging.Infof(ctx, "fetching daily prices for %s", symbol)
	q := make(url.Values)
	if !from.IsZero() {
		q.Set("from", from.String())
	}
	if !to.IsZero() {
		q.Set("to", to.String())
	}
	return fetchHistorical(ctx, "daily-prices", symbol, q)
}

// SplitHistory returns the stock split history of the symbol.
func SplitHistory(ctx context.Context, symbol string) (*table.Table, error) {
	logging.Infof(ctx, "fetching split history for %s", symbol)
	return fetchHistorical(ctx, "split-history", symbol, nil)
}

// fetchHistorical handles the endpoints wrapping their rows into the
// {"symbol": ..., "historical": [...]} envelope.
func fetchHistorical(ctx context.Context, op, symbol string, query url.Values) (*table.Table, error) {
	raw, err := endpoint(op).Fetch(ctx, symbol, query)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Symbol     string          `json:"symbol"`
		Historical json.RawMessage `json:"historical"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &fmp.RequestError{Op: op, Status: http.StatusOK, Err: err}
	}
	if len(envelope.Historical) == 0 {
		return nil, &fmp.RequestError{Op: op, Status: http.StatusOK, Err: fmp.ErrNoData}
	}
	tbl, err := fmp.Tabulate(envelope.Historical)
	if err != nil {
		return nil, &fmp.RequestError{Op: op, Status: http.StatusOK, Err: err}
	}
	if tbl.NumRows() == 0 {
		return nil, &fmp.RequestError{Op: op, Status: http.StatusOK, Err: fmp.ErrNoData}
	}
	return tbl, nil
}

// Rating returns the daily FMP company rating history.
func Rating(ctx context.Context, symbol string) (*table.Table, error) {
	logging.Infof(ctx, "fetching rating history for %s", symbol)
	q := make(url.Values)
	q.Set("limit", strconv.Itoa(historyLimit))
	return endpoint("rating").FetchTable(ctx, symbol, q)
}

// DiscountedCashFlow returns the daily discounted cash flow history.
func DiscountedCashFlow(ctx context.Context, symbol string) (*table.Table, error) {
	logging.Infof(ctx, "fetching discounted cash flow history for %s", symbol)
	q := make(url.Values)
	q.Set("limit", strconv.Itoa(historyLimit))
	return endpoint("dcf").FetchTable(ctx, symbol, q)
}

// symbolQuery is the query for the v4 endpoints taking the symbol as a
// parameter.
func symbolQuery(symbol string) url.Values {
	q := make(url.Values)
	q.Set("symbol", symbol)
	return q
}

// ESGScores returns the environmental, social and governance score history.
func ESGScores(ctx context.Context, symbol string) (*table.Table, error) {
	logging.Infof(ctx, "fetching ESG scores for %s", symbol)
	return endpoint("esg-scores").FetchTable(ctx, "", symbolQuery(symbol))
}

// ESGRiskRatings returns the annual ESG risk rating history.
func ESGRiskRatings(ctx context.Context, symbol string) (*table.Table, error) {
	logging.Infof(ctx, "fetching ESG risk ratings for %s", symbol)
	return endpoint("esg-risk-ratings").FetchTable(ctx, "", symbolQuery(symbol))
}

// UpgradesDowngrades returns the current analyst upgrade/downgrade consensus.
func UpgradesDowngrades(ctx context.Context, symbol string) (*table.Table, error) {
	logging.Infof(ctx, "fetching upgrades/downgrades for %s", symbol)
	return endpoint("upgrades-downgrades").FetchTable(ctx, "", symbolQuery(symbol))
}

// InsiderTrading returns up to the given number of pages of insider trading
// reports concatenated into a single table. One page costs one API call;
// fetching stops early when the vendor runs out of pages.
func InsiderTrading(ctx context.Context, symbol string, pages int) (*table.Table, error) {
	if pages <= 0 {
		pages = 1
	}
	logging.Infof(ctx, "fetching %d page(s) of insider trading data for %s",
		pages, symbol)
	var all []json.RawMessage
	for page := 0; page < pages; page++ {
		q := symbolQuery(symbol)
		q.Set("page", strconv.Itoa(page))
		raw, err := endpoint("insider-trading").Fetch(ctx, "", q)
		if err != nil {
			if page > 0 && errors.Is(err, fmp.ErrNoData) {
				break // no more pages
			}
			return nil, err
		}
		var rows []json.RawMessage
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, &fmp.RequestError{Op: "insider-trading", Status: http.StatusOK, Err: err}
		}
		all = append(all, rows...)
	}
	joined, err := json.Marshal(all)
	if err != nil {
		return nil, errors.Annotate(err, "failed to join insider trading pages")
	}
	tbl, err := fmp.Tabulate(joined)
	if err != nil {
		return nil, &fmp.RequestError{Op: "insider-trading", Status: http.StatusOK, Err: err}
	}
	return tbl, nil
}
