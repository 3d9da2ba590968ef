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
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/stockparfait/errors"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default base URL of the server. It may be overwritten in tests
// before creating a new client.
var URL = "https://financialmodelingprep.com/api"

// Client for querying FMP endpoints. It is immutable after construction.
type Client struct {
	baseURL string // the base URL of the server
	apiKey  string // your very own secret key
}

// newClient creates a new client.
func newClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// GetClient extracts the Client from the context, if any.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return nil
	}
	return c
}

// UseClient creates a new client based on the API key and injects it into the
// context.
func UseClient(ctx context.Context, apiKey string) context.Context {
	return context.WithValue(ctx, clientContextKey, newClient(URL, apiKey))
}

// ErrNoData indicates that the request succeeded, but the vendor returned no
// usable data: an empty array or object, or an explicit "Error Message"
// payload, which FMP sends e.g. for unknown symbols. Test with errors.Is.
var ErrNoData = errors.Reason("no data for the requested parameters")

// RequestError is the error type of all failed API operations. It carries the
// logical operation name and, when a response was received, the HTTP status
// and (possibly truncated) response body.
type RequestError struct {
	Op     string // the logical operation that failed
	Status int    // HTTP status code; 0 when the request never completed
	Body   string // response body, truncated to maxErrorBody bytes
	Err    error  // the underlying cause, if any
}

var _ error = &RequestError{}

// maxErrorBody limits how much of a response body a RequestError retains.
const maxErrorBody = 512

// Error implements the error interface.
func (e *RequestError) Error() string {
	msg := fmt.Sprintf("request %q failed", e.Op)
	if e.Status != 0 {
		msg += fmt.Sprintf(": HTTP %d", e.Status)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap makes the underlying cause visible to errors.Is / errors.As.
func (e *RequestError) Unwrap() error { return e.Err }

// errorBody converts a response body to the truncated form stored in
// RequestError.
func errorBody(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}

// Period selects the reporting granularity of statement-like endpoints.
type Period string

// Values for Period.
const (
	PeriodDefault   Period = ""       // vendor default, which is annual
	PeriodAnnual    Period = "annual" // explicit annual reports
	PeriodQuarterly Period = "quarter"
	// PeriodAuto fetches quarterly data, falling back to annual when the
	// vendor has no quarterly reports for the symbol.
	PeriodAuto Period = "auto"
)

// GeneralRequest issues a GET for an arbitrary endpoint path relative to the
// base URL and returns the raw parsed JSON. It is the escape hatch for
// endpoints without a dedicated wrapper. The API key is added to the query
// automatically.
func GeneralRequest(ctx context.Context, endpoint string, query url.Values) (json.RawMessage, error) {
	return Endpoint{Name: endpoint, Path: endpoint}.Fetch(ctx, "", query)
}
