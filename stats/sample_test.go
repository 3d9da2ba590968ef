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

package stats

import (
	"math"
	"testing"

	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSample(t *testing.T) {
	t.Parallel()

	Convey("Sample statistics work", t, func() {
		s := NewSample([]float64{1.0, 2.0, 3.0, 4.0})

		Convey("Mean", func() {
			So(s.Mean(), ShouldEqual, 2.5)
		})

		Convey("MAD", func() {
			So(s.MAD(), ShouldEqual, 1.0)
		})

		Convey("Variance and Sigma", func() {
			So(s.Variance(), ShouldEqual, 1.25)
			So(testutil.Round(s.Sigma(), 5), ShouldEqual, testutil.Round(math.Sqrt(1.25), 5))
		})

		Convey("empty sample", func() {
			e := NewSample(nil)
			So(e.Mean(), ShouldEqual, 0.0)
			So(e.MAD(), ShouldEqual, 0.0)
			So(e.Sigma(), ShouldEqual, 0.0)
		})

		Convey("NormalQuantile", func() {
			q, err := s.NormalQuantile(0.5)
			So(err, ShouldBeNil)
			So(testutil.Round(q, 5), ShouldEqual, 2.5)

			q, err = s.NormalQuantile(0.975)
			So(err, ShouldBeNil)
			So(q, ShouldBeGreaterThan, s.Mean())

			_, err = s.NormalQuantile(1.5)
			So(err, ShouldNotBeNil)

			_, err = NewSample([]float64{1.0, 1.0}).NormalQuantile(0.5)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("LogReturns works", t, func() {
		Convey("computes log of the price ratios", func() {
			r, err := LogReturns([]float64{1.0, math.E, math.E})
			So(err, ShouldBeNil)
			So(len(r), ShouldEqual, 2)
			So(testutil.Round(r[0], 5), ShouldEqual, 1.0)
			So(r[1], ShouldEqual, 0.0)
		})

		Convey("requires at least two prices", func() {
			_, err := LogReturns([]float64{1.0})
			So(err, ShouldNotBeNil)
		})

		Convey("requires positive prices", func() {
			_, err := LogReturns([]float64{1.0, 0.0, 2.0})
			So(err, ShouldNotBeNil)
		})
	})
}
