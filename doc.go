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

// Package fmp implements the generic request API of Financial Modeling Prep
// (FMP).
//
// Official documentation is at https://site.financialmodelingprep.com/developer/docs .
//
// Every FMP endpoint is a single HTTPS GET returning JSON, usually an array of
// objects with one object per reporting period, trading day or event. This
// package provides the shared mechanism: a Client carrying the API key
// (injected into the context with UseClient), an Endpoint descriptor mapping a
// logical operation name to its URL path template, and Tabulate, which
// reshapes an array-of-objects payload into a table.Table preserving the
// vendor's column order. The client performs no schema validation: a result
// table's columns are whatever the vendor returned for that endpoint.
//
// APIs for specific data categories - company fundamentals, symbol lookup and
// macroeconomic indicators - are implemented in the subpackages.
package fmp
