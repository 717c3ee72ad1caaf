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

package compare_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hydro-tools/hydrocomp/compare"
	"github.com/hydro-tools/hydrocomp/hydrograph"
	"github.com/hydro-tools/hydrocomp/nwis"
)

// observedFixture builds a daily NWIS discharge file covering 2013-06-01
// through 2013-06-01+len(values)-1
func observedFixture(values ...float64) []byte {
	var sb strings.Builder
	sb.WriteString("# retrieved: 2013-06-25 10:31:07 EDT\n")
	sb.WriteString("#    USGS 03401385 CLEAR FORK AT SAXTON, KY\n")
	sb.WriteString("#    06   00060     00003     Discharge, cubic feet per second (Mean)\n")
	sb.WriteString("agency_cd\tsite_no\tdatetime\t06_00060_00003\t06_00060_00003_cd\n")
	sb.WriteString("5s\t15s\t20d\t14n\t10s\n")
	for idx, v := range values {
		date := time.Date(2013, 6, 1+idx, 0, 0, 0, 0, time.UTC)
		sb.WriteString(fmt.Sprintf("USGS\t03401385\t%s\t%g\tA\n", date.Format("2006-01-02"), v))
	}
	return []byte(sb.String())
}

func modelSeries(startDay int, values ...float64) *hydrograph.TimeSeries {
	samples := make([]hydrograph.Sample, len(values))
	for idx, v := range values {
		samples[idx] = hydrograph.Sample{
			Date:  time.Date(2013, 6, startDay+idx, 0, 0, 0, 0, time.UTC),
			Value: v,
			Flag:  hydrograph.Unknown,
		}
	}
	ts, err := hydrograph.New("discharge", "Discharge", "cfs", hydrograph.Daily, samples)
	Expect(err).NotTo(HaveOccurred())
	return ts
}

var _ = Describe("Comparison", func() {
	var c *compare.Comparison

	BeforeEach(func() {
		c = &compare.Comparison{ModelName: "WATER", ObservedName: "USGS 03401385"}
	})

	Describe("Run", func() {
		It("produces labeled statistics over the overlapping window", func() {
			model := modelSeries(3, 95, 105, 98, 120, 130, 140)
			observed := observedFixture(100, 110, 95, 105, 98)

			res, err := c.Run(context.Background(), model, observed, "06_00060_00003")
			Expect(err).NotTo(HaveOccurred())

			// 2013-06-03 .. 2013-06-05 overlap
			Expect(res.Aligned.Len()).To(Equal(3))
			Expect(res.Aligned.Modeled).To(Equal([]float64{95, 105, 98}))
			Expect(res.Aligned.Observed).To(Equal([]float64{95, 105, 98}))

			Expect(res.ParameterCode).To(Equal("06_00060_00003"))
			Expect(res.ParameterName).To(Equal("Discharge, cubic feet per second (Mean)"))
			Expect(res.Unit).To(Equal("cfs"))
			Expect(res.ModelName).To(Equal("WATER"))
			Expect(res.ObservedName).To(Equal("USGS 03401385"))
			Expect(res.Station).To(Equal("USGS 03401385 CLEAR FORK AT SAXTON, KY"))

			Expect(res.Stats.NashSutcliffe).To(Equal(1.0))
			Expect(res.Stats.MeanSquaredError).To(Equal(0.0))
		})

		It("fails with ErrUnrecognizedFormat when the observed file is junk", func() {
			model := modelSeries(1, 100, 110)
			_, err := c.Run(context.Background(), model, []byte("not a data file\n"), "06_00060_00003")
			Expect(err).To(MatchError(nwis.ErrUnrecognizedFormat))
		})

		It("fails with ErrUnknownParameter for a code the file lacks", func() {
			model := modelSeries(1, 100, 110)
			_, err := c.Run(context.Background(), model, observedFixture(100, 110), "02_00010")
			Expect(err).To(MatchError(nwis.ErrUnknownParameter))
		})

		It("fails with ErrEmptyOverlap when the date ranges are disjoint", func() {
			model := modelSeries(20, 100, 110, 120)
			_, err := c.Run(context.Background(), model, observedFixture(100, 110, 95), "06_00060_00003")
			Expect(err).To(MatchError(hydrograph.ErrEmptyOverlap))
		})

		It("forwards parse diagnostics onto the result", func() {
			content := observedFixture(100, 110, 95)
			content = append(content, []byte("USGS\t03401385\tjunk-date\t99\tA\n")...)

			model := modelSeries(1, 100, 110, 95)
			res, err := c.Run(context.Background(), model, content, "06_00060_00003")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Diagnostics).To(HaveLen(1))
			Expect(res.Diagnostics[0].Reason).To(ContainSubstring("junk-date"))
		})
	})

	Describe("RunAll", func() {
		It("keeps parameter codes independent", func() {
			model := modelSeries(1, 100, 110, 95)
			observed := observedFixture(100, 110, 95)

			results, errs, err := c.RunAll(context.Background(), model, observed,
				[]string{"06_00060_00003", "99_99999"})
			Expect(err).NotTo(HaveOccurred())

			Expect(results).To(HaveKey("06_00060_00003"))
			Expect(results["06_00060_00003"].Aligned.Len()).To(Equal(3))

			Expect(errs).To(HaveKey("99_99999"))
			Expect(errs["99_99999"]).To(MatchError(nwis.ErrUnknownParameter))
		})

		It("aborts outright when the observed file does not parse", func() {
			model := modelSeries(1, 100, 110)
			_, _, err := c.RunAll(context.Background(), model, []byte("garbage\n"), []string{"06_00060_00003"})
			Expect(err).To(MatchError(nwis.ErrUnrecognizedFormat))
		})
	})
})
