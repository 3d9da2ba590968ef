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

package company

import (
	"context"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fmp"
	"github.com/stockparfait/fmp/table"
	"github.com/stockparfait/logging"
)

type section struct {
	Name  string
	Fetch func(ctx context.Context, symbol string, period fmp.Period) (*table.Table, error)
}

// pricesStart is the lower bound for the price history in AllData, early
// enough to cover the entire history of any listed company.
var pricesStart = fmp.NewDate(1900, 1, 1)

// sections of AllData in their fetch order.
var sections = []section{
	{"prices", func(ctx context.Context, symbol string, _ fmp.Period) (*table.Table, error) {
		return DailyPrices(ctx, symbol, pricesStart, fmp.Date{})
	}},
	{"profile", func(ctx context.Context, symbol string, _ fmp.Period) (*table.Table, error) {
		return Profile(ctx, symbol)
	}},
	{"income", func(ctx context.Context, symbol string, period fmp.Period) (*table.Table, error) {
		return IncomeStatements(ctx, symbol, period, 0)
	}},
	{"balance", func(ctx context.Context, symbol string, period fmp.Period) (*table.Table, error) {
		return BalanceSheetStatements(ctx, symbol, period, 0)
	}},
	{"cash_flow", func(ctx context.Context, symbol string, period fmp.Period) (*table.Table, error) {
		return CashFlowStatements(ctx, symbol, period, 0)
	}},
	{"ratios", func(ctx context.Context, symbol string, period fmp.Period) (*table.Table, error) {
		return FinancialRatios(ctx, symbol, period, 0)
	}},
	{"enterprise_value", func(ctx context.Context, symbol string, period fmp.Period) (*table.Table, error) {
		return EnterpriseValues(ctx, symbol, period, 0)
	}},
	{"rating", func(ctx context.Context, symbol string, _ fmp.Period) (*table.Table, error) {
		return Rating(ctx, symbol)
	}},
	{"key_metrics", func(ctx context.Context, symbol string, period fmp.Period) (*table.Table, error) {
		return KeyMetrics(ctx, symbol, period, 0)
	}},
	{"dcf", func(ctx context.Context, symbol string, _ fmp.Period) (*table.Table, error) {
		return DiscountedCashFlow(ctx, symbol)
	}},
}

// Sections lists the names of the AllData categories in their fetch order.
func Sections() []string {
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.Name
	}
	return names
}

// AllData fetches every data category for the symbol, keyed by the section
// name. The categories are fetched strictly sequentially in the Sections
// order, one API call at a time, and the first failed category aborts the
// entire batch.
func AllData(ctx context.Context, symbol string, period fmp.Period) (map[string]*table.Table, error) {
	logging.Infof(ctx, "fetching all data for %s", symbol)
	res := make(map[string]*table.Table, len(sections))
	for _, s := range sections {
		tbl, err := s.Fetch(ctx, symbol, period)
		if err != nil {
			return nil, errors.Annotate(err, "failed to fetch %s for %s", s.Name, symbol)
		}
		res[s.Name] = tbl
	}
	return res, nil
}
