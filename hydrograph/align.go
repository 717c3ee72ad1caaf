// Copyright 2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hydrograph

import (
	"fmt"
	"sort"
	"time"
)

// AlignedSeries pairs the modeled and observed values at every timestamp
// where both series have a usable sample. Dates are ascending and all three
// slices have equal length >= 1. Treat as immutable once constructed.
type AlignedSeries struct {
	Dates    []time.Time
	Modeled  []float64
	Observed []float64
}

// Len returns the number of aligned samples
func (as *AlignedSeries) Len() int {
	return len(as.Dates)
}

// Start returns the first aligned date
func (as *AlignedSeries) Start() time.Time {
	return as.Dates[0]
}

// End returns the last aligned date
func (as *AlignedSeries) End() time.Time {
	return as.Dates[len(as.Dates)-1]
}

// Align intersects the timestamps of a modeled and an observed series,
// keeping only timestamps where both sides have a non-missing sample. When
// one series is instantaneous and the other daily, the instantaneous side is
// aggregated to daily means over its non-missing samples before the
// intersection so that daily means are compared against daily means. Inputs
// are never modified. Returns ErrEmptyOverlap when the intersection is
// empty.
func Align(modeled, observed *TimeSeries) (*AlignedSeries, error) {
	toDaily := modeled.Resolution != observed.Resolution

	modeledVals := valuesByDate(modeled, toDaily)
	observedVals := valuesByDate(observed, toDaily)

	common := make([]time.Time, 0, len(modeledVals))
	for date := range modeledVals {
		if _, ok := observedVals[date]; ok {
			common = append(common, date)
		}
	}

	if len(common) == 0 {
		return nil, fmt.Errorf("%w: %s vs %s", ErrEmptyOverlap, modeled.ParameterCode, observed.ParameterCode)
	}

	sort.Slice(common, func(i, j int) bool {
		return common[i].Before(common[j])
	})

	aligned := &AlignedSeries{
		Dates:    common,
		Modeled:  make([]float64, len(common)),
		Observed: make([]float64, len(common)),
	}
	for idx, date := range common {
		aligned.Modeled[idx] = modeledVals[date]
		aligned.Observed[idx] = observedVals[date]
	}

	return aligned, nil
}

// valuesByDate maps each date to its non-missing value. With toDaily set,
// dates are truncated to midnight and same-day samples are averaged, which
// downsamples an instantaneous series to daily means (a daily series is
// unchanged because its dates already sit at midnight, one per day).
func valuesByDate(ts *TimeSeries, toDaily bool) map[time.Time]float64 {
	sums := make(map[time.Time]float64, ts.Len())
	counts := make(map[time.Time]int, ts.Len())

	for _, s := range ts.Samples {
		if s.Missing() {
			continue
		}
		date := s.Date
		if toDaily {
			date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		}
		sums[date] += s.Value
		counts[date]++
	}

	vals := make(map[time.Time]float64, len(sums))
	for date, sum := range sums {
		vals[date] = sum / float64(counts[date])
	}
	return vals
}
