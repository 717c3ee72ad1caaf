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

package report_test

import (
	"time"

	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hydro-tools/hydrocomp/compare"
	"github.com/hydro-tools/hydrocomp/gof"
	"github.com/hydro-tools/hydrocomp/hydrograph"
	"github.com/hydro-tools/hydrocomp/report"
)

func result(modeled, observed []float64) *compare.Result {
	dates := make([]time.Time, len(modeled))
	for idx := range dates {
		dates[idx] = time.Date(2013, 6, 1+idx, 0, 0, 0, 0, time.UTC)
	}
	aligned := &hydrograph.AlignedSeries{Dates: dates, Modeled: modeled, Observed: observed}

	return &compare.Result{
		ParameterCode: "06_00060_00003",
		ParameterName: "Discharge",
		Unit:          "cfs",
		ModelName:     "WATER",
		ObservedName:  "USGS 03401385",
		Station:       "USGS 03401385 CLEAR FORK AT SAXTON, KY",
		Aligned:       aligned,
		Stats:         gof.Compute(aligned),
	}
}

var _ = Describe("StatsTable", func() {
	It("renders every statistic with its exclusion count", func() {
		out := report.StatsTable(result(
			[]float64{95, 105, 98, 120},
			[]float64{100, 110, 95, 118},
		))

		Expect(out).To(ContainSubstring("Nash-Sutcliffe"))
		Expect(out).To(ContainSubstring("R-Squared"))
		Expect(out).To(ContainSubstring("Mean Squared Error"))
		Expect(out).To(ContainSubstring("Mean Absolute Error"))
		Expect(out).To(ContainSubstring("Relative Error"))
		Expect(out).To(ContainSubstring("Percent Error"))
		Expect(out).To(ContainSubstring("Percent Difference"))
		Expect(out).To(ContainSubstring("WATER vs USGS 03401385"))
		Expect(out).To(ContainSubstring("Discharge (cfs)"))
		Expect(out).To(ContainSubstring("n=4"))
	})

	It("prints undefined statistics as such", func() {
		// constant observed series: Nash-Sutcliffe and R-Squared are undefined
		out := report.StatsTable(result(
			[]float64{95, 105, 98},
			[]float64{100, 100, 100},
		))
		Expect(out).To(ContainSubstring("undefined"))
	})
})

var _ = Describe("SeriesPlot", func() {
	It("renders both series with a caption", func() {
		out := report.SeriesPlot(result(
			[]float64{95, 105, 98, 120},
			[]float64{100, 110, 95, 118},
		), 40, 8)
		Expect(out).To(ContainSubstring("USGS 03401385 (observed) vs WATER (modeled)"))
	})
})

var _ = Describe("ErrorPlot", func() {
	It("renders the percent-error trace", func() {
		out := report.ErrorPlot(result(
			[]float64{95, 105, 98, 120},
			[]float64{100, 110, 95, 118},
		), 40, 8)
		Expect(out).To(ContainSubstring("percent error: WATER vs USGS 03401385"))
	})

	It("reports when no sample has a defined percent error", func() {
		out := report.ErrorPlot(result(
			[]float64{95, 105},
			[]float64{0, 0},
		), 40, 8)
		Expect(out).To(Equal("<no samples with defined percent error>"))
	})
})

var _ = Describe("JSON", func() {
	It("serializes defined statistics as numbers", func() {
		body, err := report.JSON(result(
			[]float64{95, 105, 98},
			[]float64{100, 110, 95},
		))
		Expect(err).NotTo(HaveOccurred())

		var decoded map[string]any
		Expect(json.Unmarshal(body, &decoded)).To(Succeed())
		Expect(decoded).To(HaveKeyWithValue("parameterCode", "06_00060_00003"))
		Expect(decoded).To(HaveKeyWithValue("modelName", "WATER"))

		stats, ok := decoded["stats"].(map[string]any)
		Expect(ok).To(BeTrue())
		Expect(stats["meanSquaredError"]).To(BeNumerically(">", 0))
		Expect(stats["excludedRelativeError"]).To(BeNumerically("==", 0))
	})

	It("serializes undefined statistics as null", func() {
		body, err := report.JSON(result(
			[]float64{95, 105, 98},
			[]float64{100, 100, 100},
		))
		Expect(err).NotTo(HaveOccurred())

		var decoded map[string]any
		Expect(json.Unmarshal(body, &decoded)).To(Succeed())

		stats, ok := decoded["stats"].(map[string]any)
		Expect(ok).To(BeTrue())
		Expect(stats["nashSutcliffe"]).To(BeNil())
		Expect(stats["rSquared"]).To(BeNil())
		Expect(stats["meanSquaredError"]).NotTo(BeNil())
	})
})
