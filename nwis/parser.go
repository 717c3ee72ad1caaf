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

// Package nwis reads USGS NWIS RDB data files (daily or instantaneous) into
// raw records and builds typed time series from them. Row-level problems are
// recorded as diagnostics and never abort the file; only a missing or
// unrecognized header is fatal.
package nwis

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hydro-tools/hydrocomp/hydrograph"
)

const (
	dailyLayout         = "2006-01-02"
	instantaneousLayout = "2006-01-02 15:04"
)

// RawRecord is one data row, split into fields, before any domain
// interpretation. Records only live until series are built from them.
type RawRecord struct {
	Line   int
	Date   time.Time
	Fields []string
}

// File is the parsed form of an NWIS data file
type File struct {
	Station      string
	Retrieved    string
	Resolution   hydrograph.Resolution
	Schema       *Schema
	Records      []RawRecord
	Diagnostics  []hydrograph.Diagnostic
	descriptions map[string]string
}

// comment-block patterns, after the original NWIS layout:
//
//	#  retrieved: 2013-06-25 10:31:07 EDT
//	#    USGS 03401385 CLEAR FORK AT SAXTON, KY
//	#    06   00060     00003     Discharge, cubic feet per second (Mean)
var (
	retrievedRe = regexp.MustCompile(`retrieved: (.{4}-.{2}-.{2} .{2}:.{2}:.{2})`)
	stationRe   = regexp.MustCompile(`#\s*(USGS\s+[0-9]+\s+.+)`)
	parameterRe = regexp.MustCompile(`^#\s+([0-9]{2,})\s+([0-9]{5})(\s+([0-9]{5}))?\s+(\S.*)$`)

	// RDB field-size row that follows the column header, e.g. 5s 15s 20d 14n
	fieldSpecRe = regexp.MustCompile(`^[0-9]+[a-z]$`)
)

// Parse reads the full content of an NWIS data file. A file without a
// recognizable column header fails with ErrUnrecognizedFormat; rows with an
// unparsable timestamp are skipped and recorded as diagnostics.
func Parse(content []byte) (*File, error) {
	f := &File{descriptions: make(map[string]string)}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if strings.HasPrefix(line, "#") {
			f.scanComment(line)
			continue
		}
		if line == "" {
			continue
		}

		if f.Schema == nil {
			if schema := parseSchema(line); schema != nil {
				f.Schema = schema
				f.Resolution = schema.Resolution
				continue
			}
			// text before the header that is neither comment nor header:
			// not an NWIS file
			return nil, fmt.Errorf("%w: unexpected content on line %d", ErrUnrecognizedFormat, lineNo)
		}

		f.scanRow(lineNo, line)
	}

	if f.Schema == nil {
		return nil, fmt.Errorf("%w: no column header found", ErrUnrecognizedFormat)
	}
	if len(f.Records) == 0 {
		return nil, fmt.Errorf("%w: no parsable data rows", ErrUnrecognizedFormat)
	}

	log.Debug().Str("Station", f.Station).Int("NumRows", len(f.Records)).
		Int("NumDiagnostics", len(f.Diagnostics)).Stringer("Resolution", f.Resolution).
		Msg("parsed nwis file")

	return f, nil
}

// scanComment extracts metadata from a '#' comment line
func (f *File) scanComment(line string) {
	if m := retrievedRe.FindStringSubmatch(line); m != nil && f.Retrieved == "" {
		f.Retrieved = m[1]
	}
	if m := stationRe.FindStringSubmatch(line); m != nil && f.Station == "" {
		f.Station = strings.TrimSpace(m[1])
	}
	if m := parameterRe.FindStringSubmatch(line); m != nil {
		code := m[1] + "_" + m[2]
		if m[4] != "" {
			code = code + "_" + m[4]
		}
		f.descriptions[code] = strings.TrimSpace(m[5])
	}
}

// scanRow parses one data row; bad timestamps skip the row with a diagnostic
func (f *File) scanRow(lineNo int, line string) {
	fields := strings.Split(line, "\t")
	if isFieldSpec(fields) {
		return
	}
	if len(fields) <= f.Schema.timestampIdx {
		f.diag(lineNo, line, "row has too few columns")
		return
	}

	raw := strings.TrimSpace(fields[f.Schema.timestampIdx])
	layout := dailyLayout
	if f.Resolution == hydrograph.Instantaneous {
		layout = instantaneousLayout
	}

	date, err := time.ParseInLocation(layout, raw, time.UTC)
	if err != nil {
		f.diag(lineNo, line, fmt.Sprintf("cannot parse timestamp %q", raw))
		return
	}

	f.Records = append(f.Records, RawRecord{Line: lineNo, Date: date, Fields: fields})
}

// isFieldSpec reports whether a row is the RDB field-size row ("5s 15s 20d
// ...") that NWIS emits directly below the column header
func isFieldSpec(fields []string) bool {
	matched := false
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if !fieldSpecRe.MatchString(field) {
			return false
		}
		matched = true
	}
	return matched
}

func (f *File) diag(lineNo int, raw, reason string) {
	f.Diagnostics = append(f.Diagnostics, hydrograph.Diagnostic{Line: lineNo, Raw: raw, Reason: reason})
}

// ParameterCodes lists the parameter codes available in the file
func (f *File) ParameterCodes() []string {
	return f.Schema.ParameterCodes()
}

// Description returns the parameter description from the file's comment
// block, or "" when the file does not describe the code
func (f *File) Description(code string) string {
	return f.descriptions[code]
}
