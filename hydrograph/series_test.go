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

package hydrograph_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hydro-tools/hydrocomp/hydrograph"
)

func day(d int) time.Time {
	return time.Date(2013, 6, d, 0, 0, 0, 0, time.UTC)
}

func dailySeries(code string, start int, values ...float64) *hydrograph.TimeSeries {
	samples := make([]hydrograph.Sample, len(values))
	for idx, v := range values {
		samples[idx] = hydrograph.Sample{Date: day(start + idx), Value: v, Flag: hydrograph.Approved}
		if math.IsNaN(v) {
			samples[idx].Flag = hydrograph.Missing
		}
	}
	ts, err := hydrograph.New(code, code, "cfs", hydrograph.Daily, samples)
	Expect(err).NotTo(HaveOccurred())
	return ts
}

var _ = Describe("QualityFlag", func() {
	DescribeTable("mapping NWIS qualification codes",
		func(code string, expected hydrograph.QualityFlag) {
			Expect(hydrograph.ParseQualityFlag(code)).To(Equal(expected))
		},

		Entry("approved", "A", hydrograph.Approved),
		Entry("approved revised", "A:R", hydrograph.Approved),
		Entry("approved estimated", "A:e", hydrograph.Estimated),
		Entry("estimated", "e", hydrograph.Estimated),
		Entry("provisional", "P", hydrograph.Provisional),
		Entry("empty means missing", "", hydrograph.Missing),
		Entry("whitespace means missing", "  ", hydrograph.Missing),
		Entry("unrecognized maps to unknown", "XYZ", hydrograph.Unknown),
	)
})

var _ = Describe("TimeSeries", func() {
	Context("constructing a series", func() {
		It("rejects a series with only missing samples", func() {
			_, err := hydrograph.New("00060", "Discharge", "cfs", hydrograph.Daily, []hydrograph.Sample{
				{Date: day(1), Value: math.NaN(), Flag: hydrograph.Missing},
				{Date: day(2), Value: math.NaN(), Flag: hydrograph.Missing},
			})
			Expect(err).To(MatchError(hydrograph.ErrEmptySeries))
		})

		It("rejects unordered samples", func() {
			_, err := hydrograph.New("00060", "Discharge", "cfs", hydrograph.Daily, []hydrograph.Sample{
				{Date: day(2), Value: 1, Flag: hydrograph.Approved},
				{Date: day(1), Value: 2, Flag: hydrograph.Approved},
			})
			Expect(err).To(MatchError(hydrograph.ErrUnorderedSamples))
		})

		It("rejects duplicate timestamps", func() {
			_, err := hydrograph.New("00060", "Discharge", "cfs", hydrograph.Daily, []hydrograph.Sample{
				{Date: day(1), Value: 1, Flag: hydrograph.Approved},
				{Date: day(1), Value: 2, Flag: hydrograph.Approved},
			})
			Expect(err).To(MatchError(hydrograph.ErrUnorderedSamples))
		})

		It("keeps missing samples in the series", func() {
			ts := dailySeries("00060", 1, 10, math.NaN(), 30)
			Expect(ts.Len()).To(Equal(3))
			Expect(ts.Samples[1].Missing()).To(BeTrue())
		})
	})

	Context("summary statistics", func() {
		It("ignores missing samples", func() {
			ts := dailySeries("00060", 1, 10, math.NaN(), 30)
			Expect(ts.Mean()).To(BeNumerically("~", 20, 1e-9))
			Expect(ts.Max()).To(Equal(30.0))
			Expect(ts.Min()).To(Equal(10.0))
		})
	})

	Context("accessors", func() {
		It("reports start and end dates", func() {
			ts := dailySeries("00060", 5, 1, 2, 3)
			Expect(ts.Start()).To(Equal(day(5)))
			Expect(ts.End()).To(Equal(day(7)))
		})

		It("renders a table", func() {
			ts := dailySeries("00060", 1, 10, math.NaN(), 30)
			table := ts.Table()
			Expect(table).To(ContainSubstring("2013-06-01"))
			Expect(table).To(ContainSubstring("10.0000"))
			Expect(table).To(ContainSubstring("--"))
		})
	})
})
