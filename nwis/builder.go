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

package nwis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hydro-tools/hydrocomp/catalog"
	"github.com/hydro-tools/hydrocomp/hydrograph"
)

// Build produces the TimeSeries for one parameter code from a parsed file.
// Value cells that cannot be parsed become Missing samples rather than
// dropping the row; duplicate timestamps keep the first occurrence. Returned
// diagnostics cover only the build stage; the parse-stage diagnostics remain
// on the File.
func Build(f *File, cat *catalog.Catalog, code string) (*hydrograph.TimeSeries, []hydrograph.Diagnostic, error) {
	valueCol, ok := f.Schema.valueColumn(code)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownParameter, code)
	}
	qualityCol, hasQuality := f.Schema.qualityColumn(code)

	var diags []hydrograph.Diagnostic
	samples := make([]hydrograph.Sample, 0, len(f.Records))

	for _, rec := range f.Records {
		sample := hydrograph.Sample{Date: rec.Date, Value: math.NaN(), Flag: hydrograph.Missing}

		cell := ""
		if valueCol.Index < len(rec.Fields) {
			cell = strings.TrimSpace(rec.Fields[valueCol.Index])
		}

		if value, reason, ok := parseValue(cell); ok {
			sample.Value = value
			sample.Flag = hydrograph.Unknown
			if hasQuality && qualityCol.Index < len(rec.Fields) {
				if flag := hydrograph.ParseQualityFlag(rec.Fields[qualityCol.Index]); flag != hydrograph.Missing {
					sample.Flag = flag
				}
			}
			if reason != "" {
				diags = append(diags, hydrograph.Diagnostic{Line: rec.Line, Raw: cell, Reason: reason})
			}
		} else if reason != "" {
			diags = append(diags, hydrograph.Diagnostic{Line: rec.Line, Raw: cell, Reason: reason})
		}

		samples = append(samples, sample)
	}

	samples, dupDiags := sortAndDedup(samples, f.Records)
	diags = append(diags, dupDiags...)

	param := cat.Lookup(code)
	name := param.Name
	if desc := f.Description(code); desc != "" {
		name = desc
	}

	series, err := hydrograph.New(code, name, param.Unit, f.Resolution, samples)
	if err != nil {
		return nil, diags, err
	}

	log.Debug().Str("ParameterCode", code).Int("NumSamples", series.Len()).
		Msg("built series from nwis records")

	return series, diags, nil
}

// BuildAll builds every parameter the file carries. A parameter that fails
// (e.g. all of its values are missing) is logged and skipped; it never
// aborts its siblings.
func BuildAll(f *File, cat *catalog.Catalog) ([]*hydrograph.TimeSeries, []hydrograph.Diagnostic, error) {
	codes := f.ParameterCodes()
	if len(codes) == 0 {
		return nil, nil, fmt.Errorf("%w: no parameter columns", ErrUnrecognizedFormat)
	}

	var diags []hydrograph.Diagnostic
	series := make([]*hydrograph.TimeSeries, 0, len(codes))

	for _, code := range codes {
		ts, buildDiags, err := Build(f, cat, code)
		diags = append(diags, buildDiags...)
		if err != nil {
			log.Warn().Err(err).Str("ParameterCode", code).Msg("could not build series")
			continue
		}
		series = append(series, ts)
	}

	return series, diags, nil
}

// parseValue interprets one value cell. ok reports whether a usable float
// came out of it; reason is a non-empty diagnostic message when something
// was off about the cell (possibly alongside a usable value, as with
// "123_Ice" cells where the leading float is taken).
func parseValue(cell string) (value float64, reason string, ok bool) {
	if cell == "" {
		return 0, "missing value", false
	}

	if value, err := strconv.ParseFloat(cell, 64); err == nil {
		return value, "", true
	}

	// qualified cells like 123_Ice carry a usable leading float
	if head, _, found := strings.Cut(cell, "_"); found {
		if value, err := strconv.ParseFloat(head, 64); err == nil {
			return value, fmt.Sprintf("qualified value %q; using %s", cell, head), true
		}
	}

	return 0, fmt.Sprintf("cannot parse value %q", cell), false
}

// sortAndDedup orders samples ascending by date and drops duplicate
// timestamps, keeping the first occurrence in file order
func sortAndDedup(samples []hydrograph.Sample, records []RawRecord) ([]hydrograph.Sample, []hydrograph.Diagnostic) {
	type indexed struct {
		sample hydrograph.Sample
		line   int
	}

	ordered := make([]indexed, len(samples))
	for idx := range samples {
		ordered[idx] = indexed{sample: samples[idx], line: records[idx].Line}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].sample.Date.Before(ordered[j].sample.Date)
	})

	var diags []hydrograph.Diagnostic
	out := make([]hydrograph.Sample, 0, len(ordered))
	for idx, entry := range ordered {
		if idx > 0 && entry.sample.Date.Equal(out[len(out)-1].Date) {
			diags = append(diags, hydrograph.Diagnostic{
				Line:   entry.line,
				Raw:    entry.sample.Date.Format("2006-01-02 15:04"),
				Reason: "duplicate timestamp; keeping first occurrence",
			})
			continue
		}
		out = append(out, entry.sample)
	}

	return out, diags
}
