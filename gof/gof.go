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

// Package gof computes goodness-of-fit statistics between a modeled and an
// observed series. All functions are pure; degenerate inputs (zero variance,
// division by zero) yield NaN or per-sample exclusions, never errors.
package gof

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/hydro-tools/hydrocomp/hydrograph"
)

// Excluded counts the samples each statistic had to leave out. Samples with
// a zero observed value cannot contribute to relative or percent error;
// samples where both values are zero cannot contribute to percent
// difference. Exclusion is per statistic only, the sample still counts
// toward every other metric.
type Excluded struct {
	RelativeError     int
	PercentError      int
	PercentDifference int
}

// Result holds the seven comparison statistics plus the per-sample error
// traces the plotting collaborators render. Undefined statistics are NaN.
type Result struct {
	NashSutcliffe     float64
	RSquared          float64
	MeanSquaredError  float64
	MeanAbsoluteError float64
	RelativeError     float64
	PercentError      float64
	PercentDifference float64

	Excluded Excluded

	// per-sample traces, parallel to the aligned series; excluded samples
	// are NaN
	RelativeErrors     []float64
	PercentErrors      []float64
	PercentDifferences []float64
}

// Compute calculates all seven statistics over the aligned pair. Each
// statistic is computed independently; a degenerate input for one never
// prevents computation of the others.
func Compute(aligned *hydrograph.AlignedSeries) *Result {
	n := aligned.Len()
	res := &Result{
		NashSutcliffe:      NashSutcliffe(aligned.Modeled, aligned.Observed),
		RSquared:           RSquared(aligned.Modeled, aligned.Observed),
		MeanSquaredError:   MeanSquaredError(aligned.Modeled, aligned.Observed),
		MeanAbsoluteError:  MeanAbsoluteError(aligned.Modeled, aligned.Observed),
		RelativeErrors:     make([]float64, n),
		PercentErrors:      make([]float64, n),
		PercentDifferences: make([]float64, n),
	}

	relSum := 0.0
	relCount := 0
	diffSum := 0.0
	diffCount := 0

	for idx := range aligned.Dates {
		m := aligned.Modeled[idx]
		o := aligned.Observed[idx]

		if o == 0 {
			res.RelativeErrors[idx] = math.NaN()
			res.PercentErrors[idx] = math.NaN()
			res.Excluded.RelativeError++
			res.Excluded.PercentError++
		} else {
			rel := (m - o) / o
			res.RelativeErrors[idx] = rel
			res.PercentErrors[idx] = rel * 100
			relSum += rel
			relCount++
		}

		if m == 0 && o == 0 {
			res.PercentDifferences[idx] = math.NaN()
			res.Excluded.PercentDifference++
		} else {
			diff := 2 * math.Abs(m-o) / (math.Abs(m) + math.Abs(o)) * 100
			res.PercentDifferences[idx] = diff
			diffSum += diff
			diffCount++
		}
	}

	res.RelativeError = meanOrNaN(relSum, relCount)
	res.PercentError = meanOrNaN(relSum*100, relCount)
	res.PercentDifference = meanOrNaN(diffSum, diffCount)

	return res
}

// NashSutcliffe computes the model efficiency coefficient,
// 1 - sum((o-m)^2) / sum((o-mean(o))^2). A constant observed series has a
// zero denominator and yields NaN.
func NashSutcliffe(modeled, observed []float64) float64 {
	meanObserved := stat.Mean(observed, nil)

	numerator := 0.0
	denominator := 0.0
	for idx := range observed {
		numerator += (observed[idx] - modeled[idx]) * (observed[idx] - modeled[idx])
		denominator += (observed[idx] - meanObserved) * (observed[idx] - meanObserved)
	}

	if denominator == 0 {
		return math.NaN()
	}
	return 1 - numerator/denominator
}

// RSquared computes the square of the Pearson correlation between the
// modeled and observed values. NaN when either side has zero variance.
func RSquared(modeled, observed []float64) float64 {
	r := stat.Correlation(modeled, observed, nil)
	return r * r
}

// MeanSquaredError computes mean((m-o)^2)
func MeanSquaredError(modeled, observed []float64) float64 {
	sum := 0.0
	for idx := range modeled {
		diff := modeled[idx] - observed[idx]
		sum += diff * diff
	}
	return sum / float64(len(modeled))
}

// MeanAbsoluteError computes mean(|m-o|)
func MeanAbsoluteError(modeled, observed []float64) float64 {
	sum := 0.0
	for idx := range modeled {
		sum += math.Abs(modeled[idx] - observed[idx])
	}
	return sum / float64(len(modeled))
}

func meanOrNaN(sum float64, count int) float64 {
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}
