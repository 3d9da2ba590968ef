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
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDate(t *testing.T) {
	t.Parallel()

	Convey("Date methods work", t, func() {
		Convey("String formats with padding", func() {
			So(NewDate(2023, 3, 1).String(), ShouldEqual, "2023-03-01")
		})

		Convey("NewDateFromString", func() {
			d, err := NewDateFromString("2023-03-01")
			So(err, ShouldBeNil)
			So(d, ShouldResemble, NewDate(2023, 3, 1))

			d, err = NewDateFromString("2023-03-01T15:04:05")
			So(err, ShouldBeNil)
			So(d, ShouldResemble, NewDate(2023, 3, 1))

			_, err = NewDateFromString("03/01/2023")
			So(err, ShouldNotBeNil)
		})

		Convey("JSON round-trip", func() {
			d := NewDate(2023, 3, 1)
			js, err := json.Marshal(d)
			So(err, ShouldBeNil)
			So(string(js), ShouldEqual, `"2023-03-01"`)

			var d2 Date
			So(json.Unmarshal(js, &d2), ShouldBeNil)
			So(d2, ShouldResemble, d)
		})

		Convey("comparisons", func() {
			So(NewDate(2023, 3, 1).Before(NewDate(2023, 3, 2)), ShouldBeTrue)
			So(NewDate(2023, 3, 2).After(NewDate(2023, 2, 28)), ShouldBeTrue)
			So(NewDate(2023, 3, 1).Before(NewDate(2023, 3, 1)), ShouldBeFalse)
		})

		Convey("IsZero", func() {
			So(Date{}.IsZero(), ShouldBeTrue)
			So(NewDate(2023, 3, 1).IsZero(), ShouldBeFalse)
		})
	})
}
