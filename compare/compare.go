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

// Package compare composes parsing, series building, alignment and
// statistics into one comparison run per parameter code.
package compare

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hydro-tools/hydrocomp/catalog"
	"github.com/hydro-tools/hydrocomp/gof"
	"github.com/hydro-tools/hydrocomp/hydrograph"
	"github.com/hydro-tools/hydrocomp/nwis"
	"github.com/hydro-tools/hydrocomp/observability/opentelemetry"
)

// Result is a finished comparison: the statistics, the aligned series they
// were computed from, and everything a report needs to label them. Immutable
// once produced.
type Result struct {
	ParameterCode string
	ParameterName string
	Unit          string
	ModelName     string
	ObservedName  string
	Station       string

	Aligned     *hydrograph.AlignedSeries
	Stats       *gof.Result
	Diagnostics []hydrograph.Diagnostic
}

// Comparison names the two sides of a run. Catalog may be nil, in which case
// the default parameter catalog is used.
type Comparison struct {
	ModelName    string
	ObservedName string
	Catalog      *catalog.Catalog
}

func (c *Comparison) catalog() *catalog.Catalog {
	if c.Catalog != nil {
		return c.Catalog
	}
	return catalog.Default()
}

// Run compares an already-built model series against one parameter of an
// observed NWIS file: parse -> build -> align -> statistics. Stage failures
// surface as wrapped sentinel errors (nwis.ErrUnrecognizedFormat,
// nwis.ErrUnknownParameter, hydrograph.ErrEmptySeries,
// hydrograph.ErrEmptyOverlap).
func (c *Comparison) Run(ctx context.Context, model *hydrograph.TimeSeries, observed []byte, code string) (*Result, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "compare.Run")
	defer span.End()
	span.SetAttributes(attribute.String("parameter_code", code))

	file, err := nwis.Parse(observed)
	if err != nil {
		return nil, fmt.Errorf("parse observed file: %w", err)
	}

	return c.run(ctx, model, file, code)
}

// RunAll runs one comparison per requested parameter code over the same
// observed file. Parameter codes are independent units of work; each runs in
// its own goroutine and a failure on one never aborts the others. Results
// and errors come back keyed by code. A file-level parse failure aborts the
// whole call.
func (c *Comparison) RunAll(ctx context.Context, model *hydrograph.TimeSeries, observed []byte, codes []string) (map[string]*Result, map[string]error, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "compare.RunAll")
	defer span.End()

	file, err := nwis.Parse(observed)
	if err != nil {
		return nil, nil, fmt.Errorf("parse observed file: %w", err)
	}

	results := make(map[string]*Result, len(codes))
	errs := make(map[string]error)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, code := range codes {
		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			res, err := c.run(ctx, model, file, code)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn().Err(err).Str("ParameterCode", code).Msg("comparison failed")
				errs[code] = err
				return
			}
			results[code] = res
		}(code)
	}
	wg.Wait()

	return results, errs, nil
}

// run executes the build/align/statistics stages against an already parsed
// observed file. The file is only read, so concurrent runs may share it.
func (c *Comparison) run(ctx context.Context, model *hydrograph.TimeSeries, file *nwis.File, code string) (*Result, error) {
	_, span := otel.Tracer(opentelemetry.Name).Start(ctx, "compare.run")
	defer span.End()

	observed, buildDiags, err := nwis.Build(file, c.catalog(), code)
	if err != nil {
		return nil, fmt.Errorf("build observed series for %s: %w", code, err)
	}

	aligned, err := hydrograph.Align(model, observed)
	if err != nil {
		return nil, fmt.Errorf("align %s: %w", code, err)
	}

	stats := gof.Compute(aligned)

	log.Info().Str("ParameterCode", code).Int("NumAligned", aligned.Len()).
		Float64("NashSutcliffe", stats.NashSutcliffe).Float64("RSquared", stats.RSquared).
		Msg("comparison complete")

	diags := make([]hydrograph.Diagnostic, 0, len(file.Diagnostics)+len(buildDiags))
	diags = append(diags, file.Diagnostics...)
	diags = append(diags, buildDiags...)

	return &Result{
		ParameterCode: code,
		ParameterName: observed.ParameterName,
		Unit:          observed.Unit,
		ModelName:     c.ModelName,
		ObservedName:  c.ObservedName,
		Station:       file.Station,
		Aligned:       aligned,
		Stats:         stats,
		Diagnostics:   diags,
	}, nil
}
