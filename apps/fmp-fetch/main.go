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

// fmp-fetch is a command line tool for downloading and printing data from the
// Financial Modeling Prep API.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fmp"
	"github.com/stockparfait/fmp/company"
	"github.com/stockparfait/fmp/macro"
	"github.com/stockparfait/fmp/stats"
	"github.com/stockparfait/fmp/symbols"
	"github.com/stockparfait/fmp/table"
	"github.com/stockparfait/logging"

	toml "github.com/pelletier/go-toml/v2"
)

// dataKinds are the valid values of the -data flag.
var dataKinds = []string{
	"profile", "prices", "splits", "income", "balance", "cashflow", "ratios",
	"enterprise", "metrics", "rating", "dcf", "esg", "esgrisk", "upgrades",
	"insider", "all", "sectors", "random", "financial", "housing",
}

// symbolFree are the data kinds not requiring the -symbol flag.
var symbolFree = map[string]bool{
	"sectors":   true,
	"random":    true,
	"financial": true,
	"housing":   true,
}

type Flags struct {
	Conf     string // default: ~/.stockparfait/fmp.toml
	Symbol   string
	Data     string
	Period   fmp.Period
	Limit    int
	From     fmp.Date
	To       fmp.Date
	Pages    int
	CSV      bool
	Stats    bool
	LogLevel logging.Level
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	var period, from, to string
	fs := flag.NewFlagSet("fmp-fetch", flag.ExitOnError)
	fs.StringVar(&flags.Conf, "conf",
		filepath.Join(os.Getenv("HOME"), ".stockparfait", "fmp.toml"),
		"TOML config file with the API key")
	fs.StringVar(&flags.Symbol, "symbol", "", "stock symbol for per-company data")
	fs.StringVar(&flags.Data, "data", "",
		"data to fetch: "+strings.Join(dataKinds, ", "))
	fs.StringVar(&period, "period", "",
		"reporting period: annual, quarter or auto (default: vendor's)")
	fs.IntVar(&flags.Limit, "limit", 0,
		"max. number of reporting periods, 0 = vendor default")
	fs.StringVar(&from, "from", "", "start date for -data prices, YYYY-MM-DD")
	fs.StringVar(&to, "to", "", "end date for -data prices, YYYY-MM-DD")
	fs.IntVar(&flags.Pages, "pages", 1, "number of pages for -data insider")
	fs.BoolVar(&flags.CSV, "csv", false, "print tables as CSV (default: text)")
	fs.BoolVar(&flags.Stats, "stats", false,
		"with -data prices: print daily log-return statistics")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	valid := false
	for _, k := range dataKinds {
		if flags.Data == k {
			valid = true
			break
		}
	}
	if !valid {
		return nil, errors.Reason(
			"-data must be one of: %s", strings.Join(dataKinds, ", "))
	}
	if flags.Symbol == "" && !symbolFree[flags.Data] {
		return nil, errors.Reason("-data %s requires -symbol", flags.Data)
	}
	switch fmp.Period(period) {
	case fmp.PeriodDefault, fmp.PeriodAnnual, fmp.PeriodQuarterly, fmp.PeriodAuto:
		flags.Period = fmp.Period(period)
	default:
		return nil, errors.Reason("invalid -period: %q", period)
	}
	var err error
	if from != "" {
		if flags.From, err = fmp.NewDateFromString(from); err != nil {
			return nil, errors.Annotate(err, "invalid -from date")
		}
	}
	if to != "" {
		if flags.To, err = fmp.NewDateFromString(to); err != nil {
			return nil, errors.Annotate(err, "invalid -to date")
		}
	}
	return &flags, nil
}

type Config struct {
	Key string `toml:"key"` // user key for Financial Modeling Prep
}

func parseConfig(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sample := `key = "YourSecretFMPKey"
`
			err = errors.Annotate(err,
				"config file '%s' does not exist.\nPlease create config file containing:\n%s",
				filePath, sample)
			return nil, err
		} else {
			return nil, errors.Annotate(err,
				"cannot check config file for existence: '%s'", filePath)
		}
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	var c Config
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	if c.Key == "" {
		return nil, errors.Reason("config file %s has no API key", filePath)
	}
	return &c, nil
}

// writeTable prints the table as text or CSV, per flags.
func writeTable(w io.Writer, tbl *table.Table, flags *Flags) error {
	if flags.CSV {
		return tbl.WriteCSV(w, table.Params{})
	}
	return tbl.WriteText(w, table.Params{MaxColWidth: 20})
}

// closeStats prints the daily log-return statistics of the "close" column.
func closeStats(w io.Writer, tbl *table.Table) error {
	col, ok := tbl.Column("close")
	if !ok {
		return errors.Reason(`price table has no "close" column`)
	}
	// The rows come newest first; reverse into chronological order.
	prices := make([]float64, 0, len(col))
	for i := len(col) - 1; i >= 0; i-- {
		p, ok := col[i].(float64)
		if !ok {
			return errors.Reason("close price %d is not a number: %v", i, col[i])
		}
		prices = append(prices, p)
	}
	returns, err := stats.LogReturns(prices)
	if err != nil {
		return errors.Annotate(err, "failed to compute log returns")
	}
	s := stats.NewSample(returns)
	fmt.Fprintf(w, "samples: %d\n", len(returns))
	fmt.Fprintf(w, "mean: %.6f\n", s.Mean())
	fmt.Fprintf(w, "MAD: %.6f\n", s.MAD())
	fmt.Fprintf(w, "sigma: %.6f\n", s.Sigma())
	for _, p := range []float64{0.025, 0.5, 0.975} {
		q, err := s.NormalQuantile(p)
		if err != nil {
			return errors.Annotate(err, "failed to compute quantile %g", p)
		}
		fmt.Fprintf(w, "normal quantile %g: %.6f\n", p, q)
	}
	return nil
}

// fetchTable runs the operations returning a single table.
func fetchTable(ctx context.Context, flags *Flags) (*table.Table, error) {
	switch flags.Data {
	case "profile":
		return company.Profile(ctx, flags.Symbol)
	case "prices":
		return company.DailyPrices(ctx, flags.Symbol, flags.From, flags.To)
	case "splits":
		return company.SplitHistory(ctx, flags.Symbol)
	case "income":
		return company.IncomeStatements(ctx, flags.Symbol, flags.Period, flags.Limit)
	case "balance":
		return company.BalanceSheetStatements(ctx, flags.Symbol, flags.Period, flags.Limit)
	case "cashflow":
		return company.CashFlowStatements(ctx, flags.Symbol, flags.Period, flags.Limit)
	case "ratios":
		return company.FinancialRatios(ctx, flags.Symbol, flags.Period, flags.Limit)
	case "enterprise":
		return company.EnterpriseValues(ctx, flags.Symbol, flags.Period, flags.Limit)
	case "metrics":
		return company.KeyMetrics(ctx, flags.Symbol, flags.Period, flags.Limit)
	case "rating":
		return company.Rating(ctx, flags.Symbol)
	case "dcf":
		return company.DiscountedCashFlow(ctx, flags.Symbol)
	case "esg":
		return company.ESGScores(ctx, flags.Symbol)
	case "esgrisk":
		return company.ESGRiskRatings(ctx, flags.Symbol)
	case "upgrades":
		return company.UpgradesDowngrades(ctx, flags.Symbol)
	case "insider":
		return company.InsiderTrading(ctx, flags.Symbol, flags.Pages)
	case "sectors":
		return symbols.PerSector(ctx)
	case "financial":
		return macro.FinancialIndicators(ctx)
	case "housing":
		return macro.HousingIndicators(ctx)
	}
	return nil, errors.Reason("unsupported -data: %q", flags.Data)
}

func printData(ctx context.Context, flags *Flags, w io.Writer) error {
	config, err := parseConfig(flags.Conf)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	ctx = fmp.UseClient(ctx, config.Key)

	switch flags.Data {
	case "random":
		symbol, err := symbols.Random(ctx)
		if err != nil {
			return errors.Annotate(err, "failed to pick a random symbol")
		}
		fmt.Fprintln(w, symbol)
		return nil
	case "all":
		data, err := company.AllData(ctx, flags.Symbol, flags.Period)
		if err != nil {
			return errors.Annotate(err, "failed to fetch all data for %s", flags.Symbol)
		}
		for _, name := range company.Sections() {
			fmt.Fprintf(w, "%s:\n", name)
			if err := writeTable(w, data[name], flags); err != nil {
				return errors.Annotate(err, "failed to print %s", name)
			}
			fmt.Fprintln(w)
		}
		return nil
	}

	tbl, err := fetchTable(ctx, flags)
	if err != nil {
		return errors.Annotate(err, "failed to fetch %s", flags.Data)
	}
	if err := writeTable(w, tbl, flags); err != nil {
		return errors.Annotate(err, "failed to print %s", flags.Data)
	}
	if flags.Stats && flags.Data == "prices" {
		return closeStats(w, tbl)
	}
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := printData(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
