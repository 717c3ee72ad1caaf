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

package nwis_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hydro-tools/hydrocomp/catalog"
	"github.com/hydro-tools/hydrocomp/hydrograph"
	"github.com/hydro-tools/hydrocomp/nwis"
)

var _ = Describe("Build", func() {
	var (
		f   *nwis.File
		cat *catalog.Catalog
	)

	parse := func(rows ...string) {
		var err error
		f, err = nwis.Parse(dailyFixture(rows...))
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		cat = catalog.Default()
	})

	Context("with clean rows", func() {
		BeforeEach(func() {
			parse(
				dailyRow("2013-06-01", "100", "A", "3.1", "A"),
				dailyRow("2013-06-02", "110", "A:e", "3.2", "P"),
				dailyRow("2013-06-03", "95", "A", "3.0", "A"),
			)
		})

		It("reproduces the file's timestamp and value pairs", func() {
			series, diags, err := nwis.Build(f, cat, "06_00060_00003")
			Expect(err).NotTo(HaveOccurred())
			Expect(diags).To(BeEmpty())

			Expect(series.Len()).To(Equal(3))
			Expect(series.Dates()).To(Equal([]time.Time{
				time.Date(2013, 6, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2013, 6, 2, 0, 0, 0, 0, time.UTC),
				time.Date(2013, 6, 3, 0, 0, 0, 0, time.UTC),
			}))
			Expect(series.Values()).To(Equal([]float64{100, 110, 95}))
		})

		It("carries the quality flag from the paired _cd column", func() {
			series, _, err := nwis.Build(f, cat, "06_00060_00003")
			Expect(err).NotTo(HaveOccurred())
			Expect(series.Samples[0].Flag).To(Equal(hydrograph.Approved))
			Expect(series.Samples[1].Flag).To(Equal(hydrograph.Estimated))
		})

		It("names the series from the file's comment block", func() {
			series, _, err := nwis.Build(f, cat, "06_00060_00003")
			Expect(err).NotTo(HaveOccurred())
			Expect(series.ParameterCode).To(Equal("06_00060_00003"))
			Expect(series.ParameterName).To(Equal("Discharge, cubic feet per second (Mean)"))
		})

		It("takes the unit from the catalog by embedded parameter code", func() {
			series, _, err := nwis.Build(f, cat, "06_00060_00003")
			Expect(err).NotTo(HaveOccurred())
			Expect(series.Unit).To(Equal("cfs"))

			series, _, err = nwis.Build(f, cat, "03_00065_00003")
			Expect(err).NotTo(HaveOccurred())
			Expect(series.Unit).To(Equal("ft"))
		})

		It("fails with ErrUnknownParameter for a code the file lacks", func() {
			_, _, err := nwis.Build(f, cat, "02_00010_00003")
			Expect(err).To(MatchError(nwis.ErrUnknownParameter))
		})
	})

	Context("with missing and qualified values", func() {
		BeforeEach(func() {
			parse(
				dailyRow("2013-06-01", "100", "A", "3.1", "A"),
				dailyRow("2013-06-02", "", "", "3.2", "A"),
				dailyRow("2013-06-03", "120_Ice", "P", "3.4", "P"),
			)
		})

		It("keeps a Missing sample for an empty value cell", func() {
			series, diags, err := nwis.Build(f, cat, "06_00060_00003")
			Expect(err).NotTo(HaveOccurred())

			Expect(series.Len()).To(Equal(3))
			Expect(series.Samples[1].Flag).To(Equal(hydrograph.Missing))
			Expect(math.IsNaN(series.Samples[1].Value)).To(BeTrue())

			Expect(diags).To(ContainElement(WithTransform(
				func(d hydrograph.Diagnostic) string { return d.Reason },
				Equal("missing value"))))
		})

		It("takes the leading float of a qualified cell and records a diagnostic", func() {
			series, diags, err := nwis.Build(f, cat, "06_00060_00003")
			Expect(err).NotTo(HaveOccurred())

			Expect(series.Samples[2].Value).To(Equal(120.0))
			Expect(series.Samples[2].Flag).To(Equal(hydrograph.Provisional))

			Expect(diags).To(ContainElement(WithTransform(
				func(d hydrograph.Diagnostic) string { return d.Reason },
				ContainSubstring(`qualified value "120_Ice"`))))
		})

		It("leaves the sibling parameter untouched by the discharge problems", func() {
			series, diags, err := nwis.Build(f, cat, "03_00065_00003")
			Expect(err).NotTo(HaveOccurred())
			Expect(diags).To(BeEmpty())
			Expect(series.Values()).To(Equal([]float64{3.1, 3.2, 3.4}))
		})
	})

	Context("with unordered and duplicate timestamps", func() {
		It("sorts samples ascending by date", func() {
			parse(
				dailyRow("2013-06-03", "95", "A", "3.0", "A"),
				dailyRow("2013-06-01", "100", "A", "3.1", "A"),
				dailyRow("2013-06-02", "110", "A", "3.2", "A"),
			)

			series, _, err := nwis.Build(f, cat, "06_00060_00003")
			Expect(err).NotTo(HaveOccurred())
			Expect(series.Values()).To(Equal([]float64{100, 110, 95}))
		})

		It("keeps the first occurrence of a duplicated timestamp", func() {
			parse(
				dailyRow("2013-06-01", "100", "A", "3.1", "A"),
				dailyRow("2013-06-02", "110", "A", "3.2", "A"),
				dailyRow("2013-06-02", "999", "A", "9.9", "A"),
			)

			series, diags, err := nwis.Build(f, cat, "06_00060_00003")
			Expect(err).NotTo(HaveOccurred())
			Expect(series.Len()).To(Equal(2))
			Expect(series.Values()).To(Equal([]float64{100, 110}))

			Expect(diags).To(ContainElement(WithTransform(
				func(d hydrograph.Diagnostic) string { return d.Reason },
				ContainSubstring("duplicate timestamp"))))
		})
	})

	Context("when every value is missing", func() {
		It("fails with ErrEmptySeries", func() {
			parse(
				dailyRow("2013-06-01", "", "", "3.1", "A"),
				dailyRow("2013-06-02", "", "", "3.2", "A"),
			)

			_, _, err := nwis.Build(f, cat, "06_00060_00003")
			Expect(err).To(MatchError(hydrograph.ErrEmptySeries))
		})
	})
})

var _ = Describe("BuildAll", func() {
	It("builds every parameter and skips the ones that fail", func() {
		f, err := nwis.Parse(dailyFixture(
			dailyRow("2013-06-01", "", "", "3.1", "A"),
			dailyRow("2013-06-02", "", "", "3.2", "A"),
		))
		Expect(err).NotTo(HaveOccurred())

		series, diags, err := nwis.BuildAll(f, catalog.Default())
		Expect(err).NotTo(HaveOccurred())

		// discharge is all missing and drops out, gage height survives
		Expect(series).To(HaveLen(1))
		Expect(series[0].ParameterCode).To(Equal("03_00065_00003"))
		Expect(diags).NotTo(BeEmpty())
	})
})
