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

package hydrograph

import "strings"

// QualityFlag records the provenance of a single sample
type QualityFlag int

const (
	Unknown QualityFlag = iota
	Approved
	Estimated
	Provisional
	Missing
)

// qualityCodes is the fixed mapping from NWIS qualification codes to flags
var qualityCodes = map[string]QualityFlag{
	"":    Missing,
	"A":   Approved,
	"A:R": Approved,
	"A:e": Estimated,
	"e":   Estimated,
	"E":   Estimated,
	"P":   Provisional,
	"P:e": Estimated,
}

// ParseQualityFlag maps an NWIS qualification code to a QualityFlag.
// Unrecognized codes map to Unknown; an empty code means the sample is
// missing.
func ParseQualityFlag(code string) QualityFlag {
	code = strings.TrimSpace(code)
	if flag, ok := qualityCodes[code]; ok {
		return flag
	}
	return Unknown
}

func (q QualityFlag) String() string {
	switch q {
	case Approved:
		return "Approved"
	case Estimated:
		return "Estimated"
	case Provisional:
		return "Provisional"
	case Missing:
		return "Missing"
	default:
		return "Unknown"
	}
}
