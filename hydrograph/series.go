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

// Package hydrograph holds the in-memory representation of a hydrologic
// time series and the alignment engine that intersects a modeled and an
// observed series over their common valid date range.
package hydrograph

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/stat"
)

// Resolution is the sampling interval of a series
type Resolution int

const (
	Daily Resolution = iota
	Instantaneous
)

func (r Resolution) String() string {
	if r == Instantaneous {
		return "instantaneous"
	}
	return "daily"
}

// Sample is a single reading. Missing samples carry a NaN value and the
// Missing flag; they are kept in the series for display but never take part
// in alignment or statistics.
type Sample struct {
	Date  time.Time
	Value float64
	Flag  QualityFlag
}

// Missing reports whether the sample carries no usable value
func (s Sample) Missing() bool {
	return s.Flag == Missing || math.IsNaN(s.Value)
}

// TimeSeries is an ordered series of samples for a single parameter.
// Samples are strictly increasing by date with no duplicates and the series
// is never empty; both invariants are enforced at construction.
type TimeSeries struct {
	ParameterCode string
	ParameterName string
	Unit          string
	Resolution    Resolution
	Samples       []Sample
}

// New constructs a TimeSeries, validating its invariants. Samples must
// already be sorted ascending with no duplicate dates and at least one
// sample must carry a usable value.
func New(code, name, unit string, resolution Resolution, samples []Sample) (*TimeSeries, error) {
	usable := 0
	for idx, s := range samples {
		if idx > 0 && !samples[idx-1].Date.Before(s.Date) {
			return nil, fmt.Errorf("%w: %s on %s", ErrUnorderedSamples, code, s.Date.Format(time.RFC3339))
		}
		if !s.Missing() {
			usable++
		}
	}
	if usable == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySeries, code)
	}

	return &TimeSeries{
		ParameterCode: code,
		ParameterName: name,
		Unit:          unit,
		Resolution:    resolution,
		Samples:       samples,
	}, nil
}

// Len returns the number of samples, missing ones included
func (ts *TimeSeries) Len() int {
	return len(ts.Samples)
}

// Start returns the date of the first sample
func (ts *TimeSeries) Start() time.Time {
	return ts.Samples[0].Date
}

// End returns the date of the last sample
func (ts *TimeSeries) End() time.Time {
	return ts.Samples[len(ts.Samples)-1].Date
}

// Dates returns a copy of the sample dates
func (ts *TimeSeries) Dates() []time.Time {
	dates := make([]time.Time, len(ts.Samples))
	for idx, s := range ts.Samples {
		dates[idx] = s.Date
	}
	return dates
}

// Values returns a copy of the sample values; missing samples are NaN
func (ts *TimeSeries) Values() []float64 {
	vals := make([]float64, len(ts.Samples))
	for idx, s := range ts.Samples {
		if s.Missing() {
			vals[idx] = math.NaN()
		} else {
			vals[idx] = s.Value
		}
	}
	return vals
}

// usableValues returns the values of all non-missing samples
func (ts *TimeSeries) usableValues() []float64 {
	vals := make([]float64, 0, len(ts.Samples))
	for _, s := range ts.Samples {
		if !s.Missing() {
			vals = append(vals, s.Value)
		}
	}
	return vals
}

// Mean returns the mean over non-missing samples
func (ts *TimeSeries) Mean() float64 {
	return stat.Mean(ts.usableValues(), nil)
}

// Max returns the largest non-missing value
func (ts *TimeSeries) Max() float64 {
	max := math.Inf(-1)
	for _, s := range ts.Samples {
		if !s.Missing() && s.Value > max {
			max = s.Value
		}
	}
	return max
}

// Min returns the smallest non-missing value
func (ts *TimeSeries) Min() float64 {
	min := math.Inf(1)
	for _, s := range ts.Samples {
		if !s.Missing() && s.Value < min {
			min = s.Value
		}
	}
	return min
}

// Table renders the series as an ASCII table
func (ts *TimeSeries) Table() string {
	dateFormat := "2006-01-02"
	if ts.Resolution == Instantaneous {
		dateFormat = "2006-01-02 15:04"
	}

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Date", fmt.Sprintf("%s (%s)", ts.ParameterName, ts.Unit), "Flag"})
	table.SetFooter([]string{"Num Rows", fmt.Sprintf("%d", ts.Len()), ""})
	table.SetBorder(false)

	for _, sample := range ts.Samples {
		val := "--"
		if !sample.Missing() {
			val = fmt.Sprintf("%.4f", sample.Value)
		}
		table.Append([]string{sample.Date.Format(dateFormat), val, sample.Flag.String()})
	}

	table.Render()
	return s.String()
}
