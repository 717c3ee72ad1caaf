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
	"regexp"
	"strings"

	"github.com/hydro-tools/hydrocomp/hydrograph"
)

// ColumnKind tags what a column of the data section holds
type ColumnKind int

const (
	ColumnOther ColumnKind = iota
	ColumnTimestamp
	ColumnTimezone
	ColumnValue
	ColumnQuality
)

// Column is one column of the data section. Value and quality columns carry
// the NWIS column code they belong to (e.g. 02_00060_00003).
type Column struct {
	Kind  ColumnKind
	Code  string
	Index int
}

// Schema is the typed result of header-row inspection
type Schema struct {
	Columns    []Column
	Resolution hydrograph.Resolution

	timestampIdx int
}

// value column codes look like dd_code or dd_code_statistic
var valueColRe = regexp.MustCompile(`^[0-9]+_[0-9]{5}(_[0-9]{5})?$`)

// parseSchema builds a Schema from the tab-separated header row. Returns nil
// when the row is not an NWIS column header.
func parseSchema(header string) *Schema {
	names := strings.Split(strings.TrimRight(header, "\r\n"), "\t")

	schema := &Schema{timestampIdx: -1}
	for idx, name := range names {
		name = strings.TrimSpace(name)
		col := Column{Kind: ColumnOther, Index: idx}

		switch {
		case name == "datetime":
			col.Kind = ColumnTimestamp
			schema.timestampIdx = idx
		case name == "tz_cd":
			col.Kind = ColumnTimezone
			schema.Resolution = hydrograph.Instantaneous
		case strings.HasSuffix(name, "_cd") && valueColRe.MatchString(strings.TrimSuffix(name, "_cd")):
			col.Kind = ColumnQuality
			col.Code = strings.TrimSuffix(name, "_cd")
		case valueColRe.MatchString(name):
			col.Kind = ColumnValue
			col.Code = name
		}

		schema.Columns = append(schema.Columns, col)
	}

	if schema.timestampIdx == -1 {
		return nil
	}
	return schema
}

// ParameterCodes lists the value-column codes in column order
func (s *Schema) ParameterCodes() []string {
	codes := make([]string, 0, len(s.Columns))
	for _, col := range s.Columns {
		if col.Kind == ColumnValue {
			codes = append(codes, col.Code)
		}
	}
	return codes
}

// valueColumn returns the value column for code; ok is false when the code
// is not in the schema
func (s *Schema) valueColumn(code string) (Column, bool) {
	for _, col := range s.Columns {
		if col.Kind == ColumnValue && col.Code == code {
			return col, true
		}
	}
	return Column{}, false
}

// qualityColumn returns the quality column paired with a value code, if any
func (s *Schema) qualityColumn(code string) (Column, bool) {
	for _, col := range s.Columns {
		if col.Kind == ColumnQuality && col.Code == code {
			return col, true
		}
	}
	return Column{}, false
}
