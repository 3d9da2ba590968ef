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

// Package stats implements basic sample statistics for price and return
// series fetched from the API.
package stats

import (
	"math"

	"github.com/stockparfait/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sample stores a set of numerical data (float64) and computes basic
// statistics over it. The moments are computed lazily and cached.
type Sample struct {
	data []float64
	mean *float64 // cached mean
	mad  *float64 // cached mean absolute deviation
	vari *float64 // cached variance
}

// NewSample creates a Sample around the data slice without copying it. The
// slice must not be modified afterwards, or the cached statistics go stale.
func NewSample(data []float64) *Sample {
	return &Sample{data: data}
}

// Data returns the sample data.
func (s *Sample) Data() []float64 { return s.data }

// Mean of the sample; 0.0 for an empty sample.
func (s *Sample) Mean() float64 {
	if s.mean == nil {
		sum := 0.0
		for _, d := range s.data {
			sum += d
		}
		mean := 0.0
		if len(s.data) > 0 {
			mean = sum / float64(len(s.data))
		}
		s.mean = &mean
	}
	return *s.mean
}

// MAD computes the mean absolute deviation from the mean; 0.0 for an empty
// sample.
func (s *Sample) MAD() float64 {
	if s.mad == nil {
		mean := s.Mean()
		sumDev := 0.0
		for _, d := range s.data {
			sumDev += math.Abs(d - mean)
		}
		mad := 0.0
		if len(s.data) > 0 {
			mad = sumDev / float64(len(s.data))
		}
		s.mad = &mad
	}
	return *s.mad
}

// Variance of the sample (sigma squared); 0.0 for an empty sample.
func (s *Sample) Variance() float64 {
	if s.vari == nil {
		mean := s.Mean()
		sumSqDev := 0.0
		for _, d := range s.data {
			sumSqDev += (d - mean) * (d - mean)
		}
		vari := 0.0
		if len(s.data) > 0 {
			vari = sumSqDev / float64(len(s.data))
		}
		s.vari = &vari
	}
	return *s.vari
}

// Sigma computes the standard deviation of the sample.
func (s *Sample) Sigma() float64 {
	return math.Sqrt(s.Variance())
}

// NormalQuantile returns the p'th quantile of the normal distribution fitted
// to the sample by its mean and standard deviation. It requires 0 <= p <= 1
// and a sample with a positive Sigma.
func (s *Sample) NormalQuantile(p float64) (float64, error) {
	if p < 0.0 || p > 1.0 {
		return 0.0, errors.Reason("p=%g must be within [0..1]", p)
	}
	sigma := s.Sigma()
	if sigma <= 0.0 {
		return 0.0, errors.Reason("sample sigma=%g must be positive", sigma)
	}
	d := distuv.Normal{Mu: s.Mean(), Sigma: sigma}
	return d.Quantile(p), nil
}

// LogReturns computes the series of log returns of a price series,
// log(p[i+1]/p[i]), one element shorter than the input. All prices must be
// positive.
func LogReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, errors.Reason(
			"price series must have at least 2 points, got %d", len(prices))
	}
	res := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] <= 0.0 || prices[i] <= 0.0 {
			return nil, errors.Reason("price[%d] must be positive", i)
		}
		res[i-1] = math.Log(prices[i] / prices[i-1])
	}
	return res, nil
}
