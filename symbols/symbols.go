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

// Package symbols implements symbol discovery: the universe of symbols with
// financial statements, index constituents, exchange listings, random
// sampling, and the stock screener.
package symbols

import (
	"context"
	"math/rand"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fmp"
	"github.com/stockparfait/fmp/table"
	"github.com/stockparfait/logging"
)

var endpoints = map[string]string{
	"symbols-with-statements": "v3/financial-statement-symbol-lists",
	"stock-screener":          "v3/stock-screener",
	"sp500-constituents":      "v3/sp500_constituent",
	"nasdaq100-constituents":  "v3/nasdaq_constituent",
	"dowjones-constituents":   "v3/dowjones_constituent",
	"euronext-symbols":        "v3/symbol/available-euronext",
	"tsx-symbols":             "v3/symbol/available-tsx",
	"etf-list":                "v3/etf/list",
}

func endpoint(name string) fmp.Endpoint {
	return fmp.Endpoint{Name: name, Path: endpoints[name]}
}

// Index identifies a market index or an exchange listing with a constituents
// endpoint.
type Index string

// Values of Index.
const (
	SP500     Index = "sp500"
	Nasdaq100 Index = "nasdaq100"
	DowJones  Index = "dowjones"
	Euronext  Index = "euronext"
	TSX       Index = "tsx"
	ETF       Index = "etf"
)

var index2endpoint = map[Index]string{
	SP500:     "sp500-constituents",
	Nasdaq100: "nasdaq100-constituents",
	DowJones:  "dowjones-constituents",
	Euronext:  "euronext-symbols",
	TSX:       "tsx-symbols",
	ETF:       "etf-list",
}

// Constituents returns the current member symbols of the given index or
// listing.
func Constituents(ctx context.Context, index Index) ([]string, error) {
	name, ok := index2endpoint[index]
	if !ok {
		return nil, errors.Reason("unknown index: %q", index)
	}
	logging.Infof(ctx, "fetching %s constituents", index)
	tbl, err := endpoint(name).FetchTable(ctx, "", nil)
	if err != nil {
		return nil, errors.Annotate(err, "failed to fetch %s constituents", index)
	}
	return symbolColumn(tbl)
}

// ConstituentsTable returns the full constituents table of the given index,
// including the columns beyond the ticker (name, sector, date added).
func ConstituentsTable(ctx context.Context, index Index) (*table.Table, error) {
	name, ok := index2endpoint[index]
	if !ok {
		return nil, errors.Reason("unknown index: %q", index)
	}
	logging.Infof(ctx, "fetching %s constituents", index)
	return endpoint(name).FetchTable(ctx, "", nil)
}

// symbolColumn extracts the "symbol" column as a string slice.
func symbolColumn(tbl *table.Table) ([]string, error) {
	col, ok := tbl.Column("symbol")
	if !ok {
		return nil, errors.Reason(`response has no "symbol" column`)
	}
	res := make([]string, len(col))
	for i, v := range col {
		s, ok := v.(string)
		if !ok {
			return nil, errors.Reason("symbol %d is not a string: %v", i, v)
		}
		res[i] = s
	}
	return res, nil
}

// WithStatements returns the universe of symbols with financial statements
// available from FMP. This is a large list, over 25K symbols.
func WithStatements(ctx context.Context) ([]string, error) {
	logging.Infof(ctx, "fetching the symbol universe")
	return endpoint("symbols-with-statements").FetchStrings(ctx, nil)
}

// Random returns a single symbol sampled uniformly from the universe of
// symbols with financial statements. It costs one API call.
func Random(ctx context.Context) (string, error) {
	s, err := SampleN(ctx, 1)
	if err != nil {
		return "", err
	}
	return s[0], nil
}

// SampleN returns n distinct symbols sampled uniformly from the universe of
// symbols with financial statements. It costs one API call.
func SampleN(ctx context.Context, n int) ([]string, error) {
	universe, err := WithStatements(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "failed to fetch the symbol universe")
	}
	if n <= 0 || n > len(universe) {
		return nil, errors.Reason(
			"sample size %d is out of range [1..%d]", n, len(universe))
	}
	res := make([]string, n)
	for i, j := range rand.Perm(len(universe))[:n] {
		res[i] = universe[j]
	}
	return res, nil
}
