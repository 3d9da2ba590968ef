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
	"encoding/json"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fmp/table"
)

// Tabulate converts a JSON array of objects into a Table with one row per
// object. A single top-level object becomes a one-row table. Columns are the
// union of the object keys in the order they first appear in the payload;
// fields missing from a particular object become nil cells. The column set is
// entirely vendor-defined: no validation is performed.
func Tabulate(raw json.RawMessage) (*table.Table, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.Reason("empty JSON payload")
	}
	var elems []json.RawMessage
	if trimmed[0] == '{' {
		elems = []json.RawMessage{trimmed}
	} else if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, errors.Annotate(err, "payload is not a JSON array")
	}

	var columns []string
	seen := make(map[string]struct{})
	values := make([]map[string]table.Value, len(elems))
	for i, el := range elems {
		keys, err := objectKeys(el)
		if err != nil {
			return nil, errors.Annotate(err, "failed to parse element %d", i)
		}
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				columns = append(columns, k)
			}
		}
		if err := json.Unmarshal(el, &values[i]); err != nil {
			return nil, errors.Annotate(err, "failed to parse element %d", i)
		}
	}

	t := table.New(columns...)
	for _, m := range values {
		row := make(table.Row, len(columns))
		for j, c := range columns {
			row[j] = m[c] // missing keys remain nil
		}
		t.AddRow(row)
	}
	return t, nil
}

// objectKeys extracts the keys of a JSON object in their original order,
// which encoding/json maps do not preserve.
func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Annotate(err, "failed to read JSON token")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.Reason("expected a JSON object, got %v", tok)
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Annotate(err, "failed to read object key")
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Reason("object key is not a string: %v", tok)
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return nil, errors.Annotate(err, "failed to skip value of %q", key)
		}
	}
	return keys, nil
}

// skipValue consumes a complete JSON value from the decoder, including nested
// composites.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil // a scalar value
	}
	for dec.More() {
		if d == '{' {
			if _, err := dec.Token(); err != nil { // the key
				return err
			}
		}
		if err := skipValue(dec); err != nil {
			return err
		}
	}
	_, err = dec.Token() // the closing delimiter
	return err
}
