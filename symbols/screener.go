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

package symbols

import (
	"context"
	"net/url"
	"strconv"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fmp"
	"github.com/stockparfait/fmp/table"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"
)

// ScreenerQuery is a query builder for the stock screener. Building methods
// are nondestructive: each returns a modified copy of the original query,
// which itself remains intact. Thus, queries can be used as templates for
// other queries.
type ScreenerQuery struct {
	params map[string]string
}

// NewScreenerQuery creates an empty screener query matching every stock.
func NewScreenerQuery() *ScreenerQuery {
	return &ScreenerQuery{params: make(map[string]string)}
}

// Copy the query. Building methods use it to create modified copies.
func (q *ScreenerQuery) Copy() *ScreenerQuery {
	q2 := NewScreenerQuery()
	for k, v := range q.params {
		q2.params[k] = v
	}
	return q2
}

func (q *ScreenerQuery) with(param, value string) *ScreenerQuery {
	q2 := q.Copy()
	q2.params[param] = value
	return q2
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MarketCapOver keeps stocks with the market cap above the value.
func (q *ScreenerQuery) MarketCapOver(v float64) *ScreenerQuery {
	return q.with("marketCapMoreThan", formatNumber(v))
}

// MarketCapUnder keeps stocks with the market cap below the value.
func (q *ScreenerQuery) MarketCapUnder(v float64) *ScreenerQuery {
	return q.with("marketCapLowerThan", formatNumber(v))
}

// PriceOver keeps stocks priced above the value.
func (q *ScreenerQuery) PriceOver(v float64) *ScreenerQuery {
	return q.with("priceMoreThan", formatNumber(v))
}

// PriceUnder keeps stocks priced below the value.
func (q *ScreenerQuery) PriceUnder(v float64) *ScreenerQuery {
	return q.with("priceLowerThan", formatNumber(v))
}

// BetaOver keeps stocks with beta above the value.
func (q *ScreenerQuery) BetaOver(v float64) *ScreenerQuery {
	return q.with("betaMoreThan", formatNumber(v))
}

// BetaUnder keeps stocks with beta below the value.
func (q *ScreenerQuery) BetaUnder(v float64) *ScreenerQuery {
	return q.with("betaLowerThan", formatNumber(v))
}

// VolumeOver keeps stocks with the trading volume above the value.
func (q *ScreenerQuery) VolumeOver(v float64) *ScreenerQuery {
	return q.with("volumeMoreThan", formatNumber(v))
}

// VolumeUnder keeps stocks with the trading volume below the value.
func (q *ScreenerQuery) VolumeUnder(v float64) *ScreenerQuery {
	return q.with("volumeLowerThan", formatNumber(v))
}

// DividendOver keeps stocks with the dividend above the value.
func (q *ScreenerQuery) DividendOver(v float64) *ScreenerQuery {
	return q.with("dividendMoreThan", formatNumber(v))
}

// DividendUnder keeps stocks with the dividend below the value.
func (q *ScreenerQuery) DividendUnder(v float64) *ScreenerQuery {
	return q.with("dividendLowerThan", formatNumber(v))
}

// IsETF keeps only ETFs (true) or only non-ETFs (false).
func (q *ScreenerQuery) IsETF(v bool) *ScreenerQuery {
	return q.with("isEtf", strconv.FormatBool(v))
}

// IsActivelyTrading keeps only actively trading stocks (true), or only the
// delisted ones (false).
func (q *ScreenerQuery) IsActivelyTrading(v bool) *ScreenerQuery {
	return q.with("isActivelyTrading", strconv.FormatBool(v))
}

// Sector keeps stocks from the given sector; see Sectors for valid values.
func (q *ScreenerQuery) Sector(v string) *ScreenerQuery {
	return q.with("sector", v)
}

// Industry keeps stocks from the given industry.
func (q *ScreenerQuery) Industry(v string) *ScreenerQuery {
	return q.with("industry", v)
}

// Country keeps stocks from the given country, e.g. "US".
func (q *ScreenerQuery) Country(v string) *ScreenerQuery {
	return q.with("country", v)
}

// Exchange keeps stocks from the given exchange, e.g. "nasdaq".
func (q *ScreenerQuery) Exchange(v string) *ScreenerQuery {
	return q.with("exchange", v)
}

// Limit caps the number of results.
func (q *ScreenerQuery) Limit(v int) *ScreenerQuery {
	return q.with("limit", strconv.Itoa(v))
}

// Values converts the query into URL query parameters.
func (q *ScreenerQuery) Values() url.Values {
	v := make(url.Values)
	for param, value := range q.params {
		v.Set(param, value)
	}
	return v
}

// Screen runs the stock screener and returns the matching stocks, one row per
// stock.
func Screen(ctx context.Context, q *ScreenerQuery) (*table.Table, error) {
	logging.Infof(ctx, "running the stock screener")
	return endpoint("stock-screener").FetchTable(ctx, "", q.Values())
}

// ScreenSymbols runs the stock screener and returns only the matching
// tickers.
func ScreenSymbols(ctx context.Context, q *ScreenerQuery) ([]string, error) {
	tbl, err := Screen(ctx, q)
	if err != nil {
		return nil, err
	}
	return symbolColumn(tbl)
}

// Sectors are the valid values of ScreenerQuery.Sector.
var Sectors = []string{
	"Consumer Cyclical",
	"Energy",
	"Technology",
	"Industrials",
	"Financial Services",
	"Basic Materials",
	"Communication Services",
	"Consumer Defensive",
	"Healthcare",
	"Real Estate",
	"Utilities",
	"Industrial Goods",
	"Financial",
	"Services",
	"Conglomerates",
}

// maxSectorResults is effectively unlimited, no sector comes close.
const maxSectorResults = 1000000

// PerSector counts the actively trading stocks in each sector, one screener
// call per sector. The resulting table has a "sector" and a "symbols" column,
// in the Sectors order.
func PerSector(ctx context.Context) (*table.Table, error) {
	type sectorCount struct {
		Sector string
		Count  int
	}
	counts := make([]sectorCount, 0, len(Sectors))
	for _, s := range Sectors {
		logging.Infof(ctx, "counting symbols in sector %q", s)
		q := NewScreenerQuery().Sector(s).Limit(maxSectorResults)
		found, err := ScreenSymbols(ctx, q)
		if err != nil {
			if errors.Is(err, fmp.ErrNoData) {
				counts = append(counts, sectorCount{Sector: s})
				continue
			}
			return nil, errors.Annotate(err, "failed to screen sector %q", s)
		}
		counts = append(counts, sectorCount{Sector: s, Count: len(found)})
	}
	rows := iterator.Reduce[sectorCount, []table.Row](
		iterator.FromSlice(counts), []table.Row{},
		func(c sectorCount, rows []table.Row) []table.Row {
			return append(rows, table.Row{c.Sector, float64(c.Count)})
		})
	tbl := table.New("sector", "symbols")
	tbl.AddRow(rows...)
	return tbl, nil
}
