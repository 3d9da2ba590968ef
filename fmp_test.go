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

package fmp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestClient(t *testing.T) {
	t.Parallel()

	Convey("Endpoint.URL", t, func() {
		e := Endpoint{Name: "income-statements", Path: "v3/income-statement/{symbol}"}

		Convey("substitutes the symbol", func() {
			uri, err := e.URL("https://test.host/api", "MSFT")
			So(err, ShouldBeNil)
			So(uri, ShouldEqual, "https://test.host/api/v3/income-statement/MSFT")
		})

		Convey("escapes the symbol", func() {
			uri, err := e.URL("https://test.host/api", "BRK/B")
			So(err, ShouldBeNil)
			So(uri, ShouldEqual, "https://test.host/api/v3/income-statement/BRK%2FB")
		})

		Convey("requires a symbol", func() {
			_, err := e.URL("https://test.host/api", "")
			So(err, ShouldNotBeNil)
		})

		Convey("leaves a plain path alone", func() {
			etf := Endpoint{Name: "etf-list", Path: "/v3/etf/list"}
			uri, err := etf.URL("https://test.host/api", "")
			So(err, ShouldBeNil)
			So(uri, ShouldEqual, "https://test.host/api/v3/etf/list")
		})
	})

	Convey("API calls work correctly", t, func() {
		server := testutil.NewTestServer()
		defer server.Close()

		testKey := "testkey"
		ctx := fetch.UseClient(context.Background(), server.Client())
		URL = server.URL() + "/api"
		ctx = UseClient(ctx, testKey)

		Convey("Fetch sends exactly the requested parameters plus the API key", func() {
			server.ResponseBody = []string{`[{"date": "2023-03-31", "revenue": 1000}]`}
			e := Endpoint{Name: "income-statements", Path: "v3/income-statement/{symbol}"}
			query := make(url.Values)
			query.Set("period", "annual")
			query.Set("limit", "5")
			raw, err := e.Fetch(ctx, "MSFT", query)
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `[{"date": "2023-03-31", "revenue": 1000}]`)
			So(server.RequestPath, ShouldEqual, "/api/v3/income-statement/MSFT")
			So(server.RequestQuery, ShouldResemble, url.Values{
				"period": []string{"annual"},
				"limit":  []string{"5"},
				"apikey": []string{testKey},
			})
			So(len(server.RequestQuery), ShouldEqual, 3)
			// The caller's query must remain intact.
			So(query, ShouldResemble, url.Values{
				"period": []string{"annual"},
				"limit":  []string{"5"},
			})
		})

		Convey("GeneralRequest returns the raw payload", func() {
			server.ResponseBody = []string{`{"symbol": "AAPL", "price": 150.25}`}
			raw, err := GeneralRequest(ctx, "v3/quote-short/AAPL", nil)
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `{"symbol": "AAPL", "price": 150.25}`)
			So(server.RequestPath, ShouldEqual, "/api/v3/quote-short/AAPL")
		})

		Convey("FetchTable reshapes the response", func() {
			server.ResponseBody = []string{
				`[{"date": "2023-03-31", "close": 150.25}, {"date": "2023-03-30", "close": 149.0}]`}
			e := Endpoint{Name: "test-table", Path: "v3/test/{symbol}"}
			tbl, err := e.FetchTable(ctx, "AAPL", nil)
			So(err, ShouldBeNil)
			So(tbl.Columns(), ShouldResemble, []string{"date", "close"})
			So(tbl.NumRows(), ShouldEqual, 2)
		})

		Convey("FetchStrings parses a string array", func() {
			server.ResponseBody = []string{`["AAPL", "MSFT", "GOOG"]`}
			e := Endpoint{Name: "symbol-list", Path: "v3/financial-statement-symbol-lists"}
			symbols, err := e.FetchStrings(ctx, nil)
			So(err, ShouldBeNil)
			So(symbols, ShouldResemble, []string{"AAPL", "MSFT", "GOOG"})
		})

		Convey("empty array is ErrNoData", func() {
			server.ResponseBody = []string{`[]`}
			_, err := GeneralRequest(ctx, "v3/profile/NOSUCH", nil)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrNoData), ShouldBeTrue)
		})

		Convey("empty object is ErrNoData", func() {
			server.ResponseBody = []string{`{}`}
			_, err := GeneralRequest(ctx, "v3/profile/NOSUCH", nil)
			So(errors.Is(err, ErrNoData), ShouldBeTrue)
		})

		Convey("vendor error message is ErrNoData", func() {
			server.ResponseBody = []string{`{"Error Message": "Invalid API KEY."}`}
			_, err := GeneralRequest(ctx, "v3/profile/AAPL", nil)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrNoData), ShouldBeTrue)
			reqErr, ok := err.(*RequestError)
			So(ok, ShouldBeTrue)
			So(reqErr.Body, ShouldContainSubstring, "Invalid API KEY")
		})

		Convey("malformed JSON fails without ErrNoData", func() {
			server.ResponseBody = []string{`{"oops": `}
			_, err := GeneralRequest(ctx, "v3/profile/AAPL", nil)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrNoData), ShouldBeFalse)
		})

		Convey("missing client in context", func() {
			_, err := GeneralRequest(context.Background(), "v3/profile/AAPL", nil)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("HTTP error statuses produce RequestError", t, func() {
		status := http.StatusNotFound
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				w.Write([]byte("no such endpoint"))
			}))
		defer srv.Close()

		ctx := fetch.UseClient(context.Background(), srv.Client())
		URL = srv.URL + "/api"
		ctx = UseClient(ctx, "testkey")

		Convey("HTTP 404", func() {
			status = http.StatusNotFound
			_, err := GeneralRequest(ctx, "v3/no-such-endpoint", nil)
			So(err, ShouldNotBeNil)
			reqErr, ok := err.(*RequestError)
			So(ok, ShouldBeTrue)
			So(reqErr.Op, ShouldEqual, "v3/no-such-endpoint")
		})

		Convey("HTTP 403", func() {
			status = http.StatusForbidden
			_, err := GeneralRequest(ctx, "v3/profile/AAPL", nil)
			So(err, ShouldNotBeNil)
			_, ok := err.(*RequestError)
			So(ok, ShouldBeTrue)
		})
	})
}
