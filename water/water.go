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

// Package water reads output files written by the WATER rainfall-runoff
// application into the same TimeSeries shape the rest of the system
// consumes. WATER output is tab separated with a "Date" header row naming
// the model outputs and M/D/YYYY daily rows.
package water

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hydro-tools/hydrocomp/hydrograph"
)

var ErrUnrecognizedFormat = errors.New("file is not a recognized WATER output file")

const dateLayout = "1/2/2006"

// File is a parsed WATER output file: one daily series per output column
type File struct {
	Series      []*hydrograph.TimeSeries
	Diagnostics []hydrograph.Diagnostic
}

// Parse reads the full content of a WATER output file. Lines before the
// "Date" header are ignored; rows with an unparsable date are skipped with a
// diagnostic.
func Parse(content []byte) (*File, error) {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	var columns []string
	type cell struct {
		value float64
		ok    bool
	}
	var dates []time.Time
	var rows [][]cell
	var diags []hydrograph.Diagnostic

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if columns == nil {
			fields := strings.Split(line, "\t")
			if strings.TrimSpace(fields[0]) == "Date" {
				columns = make([]string, len(fields))
				for idx, name := range fields {
					columns[idx] = strings.TrimSpace(name)
				}
			}
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(fields[0]), time.UTC)
		if err != nil {
			diags = append(diags, hydrograph.Diagnostic{
				Line: lineNo, Raw: line,
				Reason: fmt.Sprintf("cannot parse date %q", fields[0]),
			})
			continue
		}

		row := make([]cell, len(columns)-1)
		for idx := range row {
			fieldIdx := idx + 1
			if fieldIdx >= len(fields) {
				diags = append(diags, hydrograph.Diagnostic{
					Line: lineNo, Raw: line,
					Reason: fmt.Sprintf("missing value for %q", columns[fieldIdx]),
				})
				continue
			}
			value, err := strconv.ParseFloat(strings.TrimSpace(fields[fieldIdx]), 64)
			if err != nil {
				diags = append(diags, hydrograph.Diagnostic{
					Line: lineNo, Raw: fields[fieldIdx],
					Reason: fmt.Sprintf("cannot parse value for %q", columns[fieldIdx]),
				})
				continue
			}
			row[idx] = cell{value: value, ok: true}
		}

		dates = append(dates, date)
		rows = append(rows, row)
	}

	if columns == nil {
		return nil, fmt.Errorf("%w: no Date header found", ErrUnrecognizedFormat)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no parsable data rows", ErrUnrecognizedFormat)
	}

	f := &File{Diagnostics: diags}
	for colIdx := 1; colIdx < len(columns); colIdx++ {
		samples := make([]hydrograph.Sample, len(rows))
		for rowIdx := range rows {
			samples[rowIdx] = hydrograph.Sample{
				Date: dates[rowIdx], Value: math.NaN(), Flag: hydrograph.Missing,
			}
			if c := rows[rowIdx][colIdx-1]; c.ok {
				samples[rowIdx].Value = c.value
				samples[rowIdx].Flag = hydrograph.Unknown
			}
		}

		name, unit := splitColumnName(columns[colIdx])
		ts, err := hydrograph.New(code(name), name, unit, hydrograph.Daily, samples)
		if err != nil {
			log.Warn().Err(err).Str("Column", columns[colIdx]).Msg("could not build series from WATER column")
			continue
		}
		f.Series = append(f.Series, ts)
	}

	if len(f.Series) == 0 {
		return nil, fmt.Errorf("%w: no usable columns", ErrUnrecognizedFormat)
	}

	log.Debug().Int("NumSeries", len(f.Series)).Int("NumRows", len(rows)).
		Msg("parsed WATER output file")

	return f, nil
}

// Lookup finds a series whose name contains the given text,
// case-insensitive, the way users refer to WATER outputs ("discharge",
// "overland flow", ...)
func (f *File) Lookup(name string) (*hydrograph.TimeSeries, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, ts := range f.Series {
		if strings.Contains(strings.ToLower(ts.ParameterName), needle) {
			return ts, true
		}
	}
	return nil, false
}

// Names lists the available output series names
func (f *File) Names() []string {
	names := make([]string, len(f.Series))
	for idx, ts := range f.Series {
		names[idx] = ts.ParameterName
	}
	return names
}

// splitColumnName splits "Discharge (cfs)" into name and unit
func splitColumnName(column string) (name, unit string) {
	name = column
	unit = "unknown"
	if open := strings.LastIndex(column, "("); open != -1 && strings.HasSuffix(column, ")") {
		name = strings.TrimSpace(column[:open])
		unit = column[open+1 : len(column)-1]
	}
	return name, unit
}

// code derives a stable lowercase identifier from a column name
func code(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
