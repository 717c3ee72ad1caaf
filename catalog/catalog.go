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

// Package catalog maps USGS parameter codes to human readable names and
// units. The catalog is passed explicitly to whoever needs it so tests can
// substitute their own table.
package catalog

// UnknownUnit is reported for parameter codes that are not in the catalog
const UnknownUnit = "unknown"

// Parameter describes a single physical parameter
type Parameter struct {
	Code string
	Name string
	Unit string
}

// Catalog is an immutable lookup table of parameter codes
type Catalog struct {
	params map[string]Parameter
}

// New builds a catalog from the given parameters
func New(params ...Parameter) *Catalog {
	c := &Catalog{
		params: make(map[string]Parameter, len(params)),
	}
	for _, p := range params {
		c.params[p.Code] = p
	}
	return c
}

// Default returns a catalog seeded with the common USGS physical parameter codes
func Default() *Catalog {
	return New(
		Parameter{Code: "00010", Name: "Temperature, water", Unit: "deg C"},
		Parameter{Code: "00045", Name: "Precipitation", Unit: "in"},
		Parameter{Code: "00060", Name: "Discharge", Unit: "cfs"},
		Parameter{Code: "00065", Name: "Gage height", Unit: "ft"},
		Parameter{Code: "00095", Name: "Specific conductance", Unit: "uS/cm"},
		Parameter{Code: "00300", Name: "Dissolved oxygen", Unit: "mg/l"},
		Parameter{Code: "00400", Name: "pH", Unit: "std units"},
		Parameter{Code: "63680", Name: "Turbidity", Unit: "FNU"},
		Parameter{Code: "80154", Name: "Suspended sediment concentration", Unit: "mg/l"},
		Parameter{Code: "80155", Name: "Suspended sediment discharge", Unit: "tons/day"},
	)
}

// Lookup returns the parameter for code. Codes that are not in the catalog
// resolve to a parameter named by its own code with UnknownUnit; NWIS column
// codes of the form dd_code or dd_code_statistic are matched on their
// embedded 5-digit parameter code.
func (c *Catalog) Lookup(code string) Parameter {
	if p, ok := c.params[code]; ok {
		return p
	}
	if base := baseCode(code); base != "" {
		if p, ok := c.params[base]; ok {
			return Parameter{Code: code, Name: p.Name, Unit: p.Unit}
		}
	}
	return Parameter{Code: code, Name: code, Unit: UnknownUnit}
}

// Len returns the number of parameters in the catalog
func (c *Catalog) Len() int {
	return len(c.params)
}

// baseCode extracts the 5-digit parameter code from an NWIS column code like
// 02_00060_00003; returns "" if no such segment exists
func baseCode(code string) string {
	start := -1
	run := 0
	for idx, ch := range code {
		if ch >= '0' && ch <= '9' {
			if run == 0 {
				start = idx
			}
			run++
		} else {
			if run == 5 && boundary(code, start) {
				return code[start : start+5]
			}
			run = 0
		}
	}
	if run == 5 && boundary(code, start) {
		return code[start : start+5]
	}
	return ""
}

func boundary(code string, start int) bool {
	return start == 0 || code[start-1] == '_'
}
