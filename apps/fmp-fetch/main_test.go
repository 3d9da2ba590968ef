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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stockparfait/fetch"
	"github.com/stockparfait/fmp"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(t *testing.T) {
	t.Parallel()

	tmpdir, tmpdirErr := os.MkdirTemp("", "test_fmp_fetch")
	defer os.RemoveAll(tmpdir)

	Convey("Setup succeeded", t, func() {
		So(tmpdirErr, ShouldBeNil)
	})

	Convey("parseFlags", t, func() {
		Convey("accepts valid flags", func() {
			flags, err := parseFlags([]string{
				"-conf", "path/to/config", "-data", "income", "-symbol", "AAPL",
				"-period", "auto", "-limit", "10", "-log-level", "warning", "-csv"})
			So(err, ShouldBeNil)
			So(flags.Conf, ShouldEqual, "path/to/config")
			So(flags.Data, ShouldEqual, "income")
			So(flags.Symbol, ShouldEqual, "AAPL")
			So(flags.Period, ShouldEqual, fmp.PeriodAuto)
			So(flags.Limit, ShouldEqual, 10)
			So(flags.LogLevel, ShouldEqual, logging.Warning)
			So(flags.CSV, ShouldBeTrue)
		})

		Convey("parses the date range", func() {
			flags, err := parseFlags([]string{
				"-data", "prices", "-symbol", "AAPL",
				"-from", "2020-01-01", "-to", "2023-03-01"})
			So(err, ShouldBeNil)
			So(flags.From, ShouldResemble, fmp.NewDate(2020, 1, 1))
			So(flags.To, ShouldResemble, fmp.NewDate(2023, 3, 1))
		})

		Convey("rejects an unknown data kind", func() {
			_, err := parseFlags([]string{"-data", "nosuch", "-symbol", "AAPL"})
			So(err, ShouldNotBeNil)
		})

		Convey("rejects per-company data without a symbol", func() {
			_, err := parseFlags([]string{"-data", "income"})
			So(err, ShouldNotBeNil)
		})

		Convey("rejects an invalid period", func() {
			_, err := parseFlags([]string{
				"-data", "income", "-symbol", "AAPL", "-period", "monthly"})
			So(err, ShouldNotBeNil)
		})

		Convey("sectors do not require a symbol", func() {
			flags, err := parseFlags([]string{"-data", "sectors"})
			So(err, ShouldBeNil)
			So(flags.Data, ShouldEqual, "sectors")
		})
	})

	Convey("printData works", t, func() {
		server := testutil.NewTestServer()
		defer server.Close()

		ctx := fetch.UseClient(context.Background(), server.Client())
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Error))
		fmp.URL = server.URL() + "/api"

		configFile := filepath.Join(tmpdir, "fmp.toml")
		So(testutil.WriteFile(configFile, `key = "testkey"
`), ShouldBeNil)

		Convey("print CSV", func() {
			server.ResponseBody = []string{
				`[{"date": "2023-03-31", "revenue": 1000}, {"date": "2022-12-31", "revenue": 900}]`}
			flags, err := parseFlags([]string{
				"-conf", configFile, "-data", "income", "-symbol", "AAPL", "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printData(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
date,revenue
2023-03-31,1000
2022-12-31,900
`)
			So(server.RequestQuery.Get("apikey"), ShouldEqual, "testkey")
		})

		Convey("print text", func() {
			server.ResponseBody = []string{
				`[{"date": "2023-03-01", "close": 150.25}]`}
			flags, err := parseFlags([]string{
				"-conf", configFile, "-data", "rating", "-symbol", "AAPL"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printData(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
      date |  close
---------- | ------
2023-03-01 | 150.25
`)
		})

		Convey("random symbol with a single-symbol universe", func() {
			server.ResponseBody = []string{`["ZZZZ"]`}
			flags, err := parseFlags([]string{"-conf", configFile, "-data", "random"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printData(ctx, flags, &buf), ShouldBeNil)
			So(buf.String(), ShouldEqual, "ZZZZ\n")
		})

		Convey("prices with log-return statistics", func() {
			server.ResponseBody = []string{`{
				"symbol": "AAPL",
				"historical": [
					{"date": "2023-03-03", "close": 8.0},
					{"date": "2023-03-02", "close": 2.0},
					{"date": "2023-03-01", "close": 1.0}
				]}`}
			flags, err := parseFlags([]string{
				"-conf", configFile, "-data", "prices", "-symbol", "AAPL",
				"-csv", "-stats"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printData(ctx, flags, &buf), ShouldBeNil)
			// Log returns are ln(2) and ln(4): mean 1.5*ln(2), sigma 0.5*ln(2).
			So(buf.String(), ShouldContainSubstring, "samples: 2")
			So(buf.String(), ShouldContainSubstring, "mean: 1.039721")
			So(buf.String(), ShouldContainSubstring, "sigma: 0.346574")
			So(buf.String(), ShouldContainSubstring, "normal quantile 0.5: 1.039721")
		})

		Convey("missing config is an error", func() {
			flags, err := parseFlags([]string{
				"-conf", filepath.Join(tmpdir, "nosuch.toml"),
				"-data", "profile", "-symbol", "AAPL"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printData(ctx, flags, &buf), ShouldNotBeNil)
		})
	})
}
