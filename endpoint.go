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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/fmp/table"
	"github.com/stockparfait/logging"
)

// Endpoint describes a single REST endpoint: a logical operation name used in
// errors and logs, and the URL path template relative to the base URL. The
// "{symbol}" placeholder, when present, is substituted with the requested
// ticker. Endpoints are static; the domain subpackages declare theirs as
// package-level tables.
type Endpoint struct {
	Name string // logical operation name, e.g. "income-statements"
	Path string // path template, e.g. "v3/income-statement/{symbol}"
}

// URL builds the full request URL for the given base URL and symbol.
func (e Endpoint) URL(baseURL, symbol string) (string, error) {
	path := e.Path
	if strings.Contains(path, "{symbol}") {
		if symbol == "" {
			return "", errors.Reason("endpoint %q requires a symbol", e.Name)
		}
		path = strings.ReplaceAll(path, "{symbol}", url.PathEscape(symbol))
	}
	return baseURL + "/" + strings.TrimPrefix(path, "/"), nil
}

// Fetch issues the GET request for the endpoint using the Client from the
// context and returns the raw JSON payload. The caller's query is copied, so
// it is never mutated; the API key is always added exactly once. All failures
// are reported as *RequestError.
func (e Endpoint) Fetch(ctx context.Context, symbol string, query url.Values) (json.RawMessage, error) {
	client := GetClient(ctx)
	if client == nil {
		return nil, errors.Reason("%s: no client in context", e.Name)
	}
	uri, err := e.URL(client.baseURL, symbol)
	if err != nil {
		return nil, errors.Annotate(err, "failed to build URL")
	}
	q := make(url.Values, len(query)+1)
	for k, v := range query {
		q[k] = v
	}
	q.Set("apikey", client.apiKey)

	resp, err := fetch.GetRetry(ctx, uri, q, nil)
	if err != nil {
		return nil, &RequestError{Op: e.Name, Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Op: e.Name, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{Op: e.Name, Status: resp.StatusCode, Body: errorBody(body)}
	}
	if err := checkPayload(e.Name, body); err != nil {
		return nil, err
	}
	logging.Debugf(ctx, "%s: fetched %d bytes", e.Name, len(body))
	return json.RawMessage(body), nil
}

// FetchTable fetches the endpoint and reshapes the array-of-objects payload
// into a table, one row per element, columns in vendor order.
func (e Endpoint) FetchTable(ctx context.Context, symbol string, query url.Values) (*table.Table, error) {
	raw, err := e.Fetch(ctx, symbol, query)
	if err != nil {
		return nil, err
	}
	t, err := Tabulate(raw)
	if err != nil {
		return nil, &RequestError{Op: e.Name, Status: http.StatusOK, Err: err}
	}
	return t, nil
}

// FetchStrings fetches an endpoint whose payload is a plain JSON array of
// strings, such as the symbol universe lists.
func (e Endpoint) FetchStrings(ctx context.Context, query url.Values) ([]string, error) {
	raw, err := e.Fetch(ctx, "", query)
	if err != nil {
		return nil, err
	}
	var res []string
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &RequestError{Op: e.Name, Status: http.StatusOK, Err: err}
	}
	return res, nil
}

// checkPayload verifies that a 200 response body is valid JSON and actually
// carries data. FMP reports errors such as an unknown symbol either as an
// empty array or as {"Error Message": "..."} with status 200.
func checkPayload(op string, body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &RequestError{Op: op, Status: http.StatusOK, Err: ErrNoData}
	}
	switch trimmed[0] {
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return &RequestError{Op: op, Status: http.StatusOK, Body: errorBody(body), Err: err}
		}
		if len(arr) == 0 {
			return &RequestError{Op: op, Status: http.StatusOK, Err: ErrNoData}
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return &RequestError{Op: op, Status: http.StatusOK, Body: errorBody(body), Err: err}
		}
		if len(obj) == 0 {
			return &RequestError{Op: op, Status: http.StatusOK, Err: ErrNoData}
		}
		if msg, ok := obj["Error Message"]; ok {
			return &RequestError{Op: op, Status: http.StatusOK, Body: string(msg), Err: ErrNoData}
		}
	default:
		if !json.Valid(trimmed) {
			return &RequestError{Op: op, Status: http.StatusOK, Body: errorBody(body),
				Err: errors.Reason("response is not valid JSON")}
		}
	}
	return nil
}
