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

// Package report renders comparison results for humans and machines. It
// only consumes the Result contract; nothing here feeds back into the
// computation.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"

	"github.com/hydro-tools/hydrocomp/compare"
)

// StatsTable renders the seven statistics as an ASCII table
func StatsTable(res *compare.Result) string {
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Statistic", "Value", "Excluded Samples"})
	table.SetFooter([]string{
		fmt.Sprintf("%s vs %s", res.ModelName, res.ObservedName),
		fmt.Sprintf("%s (%s)", res.ParameterName, res.Unit),
		fmt.Sprintf("n=%d  %s to %s", res.Aligned.Len(),
			res.Aligned.Start().Format("2006-01-02"), res.Aligned.End().Format("2006-01-02")),
	})
	table.SetBorder(false)

	stats := res.Stats
	table.Append([]string{"Nash-Sutcliffe", formatStat(stats.NashSutcliffe), "0"})
	table.Append([]string{"R-Squared", formatStat(stats.RSquared), "0"})
	table.Append([]string{"Mean Squared Error", formatStat(stats.MeanSquaredError), "0"})
	table.Append([]string{"Mean Absolute Error", formatStat(stats.MeanAbsoluteError), "0"})
	table.Append([]string{"Relative Error", formatStat(stats.RelativeError), fmt.Sprintf("%d", stats.Excluded.RelativeError)})
	table.Append([]string{"Percent Error", formatStat(stats.PercentError), fmt.Sprintf("%d", stats.Excluded.PercentError)})
	table.Append([]string{"Percent Difference", formatStat(stats.PercentDifference), fmt.Sprintf("%d", stats.Excluded.PercentDifference)})

	table.Render()
	return s.String()
}

// SeriesPlot renders modeled and observed values as a terminal chart
func SeriesPlot(res *compare.Result, width, height int) string {
	return asciigraph.PlotMany(
		[][]float64{res.Aligned.Observed, res.Aligned.Modeled},
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("%s (observed) vs %s (modeled): %s",
			res.ObservedName, res.ModelName, res.ParameterName)),
	)
}

// ErrorPlot renders the percent-error trace as a terminal chart; excluded
// samples are left out of the plot
func ErrorPlot(res *compare.Result, width, height int) string {
	trace := make([]float64, 0, len(res.Stats.PercentErrors))
	for _, v := range res.Stats.PercentErrors {
		if !math.IsNaN(v) {
			trace = append(trace, v)
		}
	}
	if len(trace) == 0 {
		return "<no samples with defined percent error>"
	}

	return asciigraph.Plot(trace,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("percent error: %s vs %s", res.ModelName, res.ObservedName)),
	)
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", v)
}
