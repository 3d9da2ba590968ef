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

// Package macro implements the US macroeconomic indicator endpoints: single
// series, and the prejoined financial and housing indicator tables.
package macro

import (
	"context"
	"net/url"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fmp"
	"github.com/stockparfait/fmp/table"
	"github.com/stockparfait/logging"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Indicator identifies a macroeconomic series of the economic indicator
// endpoint.
type Indicator string

// Values of Indicator.
const (
	RetailMoneyFunds Indicator = "retailMoneyFunds"
	FederalFunds     Indicator = "federalFunds"
	CDRates3Month    Indicator = "3MonthOr90DayRatesAndYieldsCertificatesOfDeposit"
	CreditCardRates  Indicator = "commercialBankInterestRateOnCreditCardPlansAllAccounts"
	MortgageRates15Y Indicator = "15YearFixedRateMortgageAverage"
	MortgageRates30Y Indicator = "30YearFixedRateMortgageAverage"
	NewHousingUnits  Indicator = "newPrivatelyOwnedHousingUnitsStartedTotalUnits"
)

var economic = fmp.Endpoint{Name: "economic-indicator", Path: "v4/economic"}

// EconomicIndicator fetches a single macroeconomic series as a table with a
// "date" and a "value" column, newest first.
func EconomicIndicator(ctx context.Context, indicator Indicator) (*table.Table, error) {
	logging.Infof(ctx, "fetching economic indicator %s", indicator)
	q := make(url.Values)
	q.Set("name", string(indicator))
	return economic.FetchTable(ctx, "", q)
}

// namedSeries binds an indicator to its column name in a joined table.
type namedSeries struct {
	Column    string
	Indicator Indicator
}

var financialSeries = []namedSeries{
	{"retailMoneyFunds", RetailMoneyFunds},
	{"federalFunds", FederalFunds},
	{"cd3MonthRate", CDRates3Month},
	{"creditCardRate", CreditCardRates},
}

var housingSeries = []namedSeries{
	{"mortgage15Y", MortgageRates15Y},
	{"mortgage30Y", MortgageRates30Y},
	{"newHousingUnits", NewHousingUnits},
}

// FinancialIndicators fetches the US financial indicators (retail money
// funds, federal funds rate, 3-month CD rates and credit card interest rates)
// joined on date into a single table, newest date first. Dates missing from a
// series leave a nil cell.
func FinancialIndicators(ctx context.Context) (*table.Table, error) {
	return joined(ctx, financialSeries)
}

// HousingIndicators fetches the US housing market indicators (15 and 30 year
// fixed mortgage rates and new housing starts) joined on date into a single
// table, newest date first.
func HousingIndicators(ctx context.Context) (*table.Table, error) {
	return joined(ctx, housingSeries)
}

// joined outer-joins the series on their "date" column.
func joined(ctx context.Context, series []namedSeries) (*table.Table, error) {
	columns := []string{"date"}
	byDate := make([]map[string]table.Value, len(series))
	for i, s := range series {
		tbl, err := EconomicIndicator(ctx, s.Indicator)
		if err != nil {
			return nil, errors.Annotate(err, "failed to fetch %s", s.Indicator)
		}
		m, err := seriesByDate(tbl)
		if err != nil {
			return nil, errors.Annotate(err, "unexpected shape of %s", s.Indicator)
		}
		byDate[i] = m
		columns = append(columns, s.Column)
	}
	seen := make(map[string]struct{})
	for _, m := range byDate {
		for d := range m {
			seen[d] = struct{}{}
		}
	}
	dates := maps.Keys(seen)
	slices.SortFunc(dates, func(a, b string) bool { return a > b }) // newest first
	tbl := table.New(columns...)
	for _, d := range dates {
		row := make(table.Row, len(columns))
		row[0] = d
		for i, m := range byDate {
			row[i+1] = m[d]
		}
		tbl.AddRow(row)
	}
	return tbl, nil
}

// seriesByDate indexes a single-series table by its date strings.
func seriesByDate(tbl *table.Table) (map[string]table.Value, error) {
	dates, ok := tbl.Column("date")
	if !ok {
		return nil, errors.Reason(`series has no "date" column`)
	}
	values, ok := tbl.Column("value")
	if !ok {
		return nil, errors.Reason(`series has no "value" column`)
	}
	res := make(map[string]table.Value, len(dates))
	for i, d := range dates {
		s, ok := d.(string)
		if !ok {
			return nil, errors.Reason("date %d is not a string: %v", i, d)
		}
		res[s] = values[i]
	}
	return res, nil
}
