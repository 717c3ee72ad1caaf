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

package report

import (
	"math"
	"time"

	"github.com/goccy/go-json"

	"github.com/hydro-tools/hydrocomp/compare"
)

// jsonStats mirrors gof.Result with undefined statistics as null instead of
// NaN, which JSON cannot carry
type jsonStats struct {
	NashSutcliffe     *float64 `json:"nashSutcliffe"`
	RSquared          *float64 `json:"rSquared"`
	MeanSquaredError  *float64 `json:"meanSquaredError"`
	MeanAbsoluteError *float64 `json:"meanAbsoluteError"`
	RelativeError     *float64 `json:"relativeError"`
	PercentError      *float64 `json:"percentError"`
	PercentDifference *float64 `json:"percentDifference"`

	ExcludedRelativeError     int `json:"excludedRelativeError"`
	ExcludedPercentError      int `json:"excludedPercentError"`
	ExcludedPercentDifference int `json:"excludedPercentDifference"`
}

type jsonResult struct {
	ParameterCode string      `json:"parameterCode"`
	ParameterName string      `json:"parameterName"`
	Unit          string      `json:"unit"`
	ModelName     string      `json:"modelName"`
	ObservedName  string      `json:"observedName"`
	Station       string      `json:"station,omitempty"`
	Dates         []time.Time `json:"dates"`
	Modeled       []float64   `json:"modeled"`
	Observed      []float64   `json:"observed"`
	Stats         jsonStats   `json:"stats"`
}

// JSON serializes a comparison result for downstream tooling
func JSON(res *compare.Result) ([]byte, error) {
	out := jsonResult{
		ParameterCode: res.ParameterCode,
		ParameterName: res.ParameterName,
		Unit:          res.Unit,
		ModelName:     res.ModelName,
		ObservedName:  res.ObservedName,
		Station:       res.Station,
		Dates:         res.Aligned.Dates,
		Modeled:       res.Aligned.Modeled,
		Observed:      res.Aligned.Observed,
		Stats: jsonStats{
			NashSutcliffe:             nullable(res.Stats.NashSutcliffe),
			RSquared:                  nullable(res.Stats.RSquared),
			MeanSquaredError:          nullable(res.Stats.MeanSquaredError),
			MeanAbsoluteError:         nullable(res.Stats.MeanAbsoluteError),
			RelativeError:             nullable(res.Stats.RelativeError),
			PercentError:              nullable(res.Stats.PercentError),
			PercentDifference:         nullable(res.Stats.PercentDifference),
			ExcludedRelativeError:     res.Stats.Excluded.RelativeError,
			ExcludedPercentError:      res.Stats.Excluded.PercentError,
			ExcludedPercentDifference: res.Stats.Excluded.PercentDifference,
		},
	}

	return json.MarshalIndent(out, "", "  ")
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
