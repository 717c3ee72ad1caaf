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

package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hydro-tools/hydrocomp/compare"
	"github.com/hydro-tools/hydrocomp/hydrograph"
	"github.com/hydro-tools/hydrocomp/nwisweb"
	"github.com/hydro-tools/hydrocomp/observability/opentelemetry"
	"github.com/hydro-tools/hydrocomp/report"
	"github.com/hydro-tools/hydrocomp/water"
)

var (
	compareModelFile     string
	compareModelName     string
	compareModelOutput   string
	compareObservedFile  string
	compareObservedName  string
	compareSite          string
	compareBegin         string
	compareEnd           string
	compareInstantaneous bool
	comparePlot          bool
	compareJSON          bool
	compareErrorLog      string
)

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&compareModelFile, "model-file", "", "WATER output file holding the modeled series")
	compareCmd.Flags().StringVar(&compareModelName, "model-name", "model", "Descriptive name for the modeled data")
	compareCmd.Flags().StringVar(&compareModelOutput, "model-output", "discharge", "Which WATER output column to compare")
	compareCmd.Flags().StringVar(&compareObservedFile, "observed-file", "", "NWIS data file holding the observed record")
	compareCmd.Flags().StringVar(&compareObservedName, "observed-name", "observed", "Descriptive name for the observed data")
	compareCmd.Flags().StringVar(&compareSite, "site", "", "Download the observed record for this USGS site instead of reading a file")
	compareCmd.Flags().StringVar(&compareBegin, "begin", "", "Start date (YYYY-MM-DD) when downloading the observed record")
	compareCmd.Flags().StringVar(&compareEnd, "end", "", "End date (YYYY-MM-DD) when downloading the observed record")
	compareCmd.Flags().BoolVar(&compareInstantaneous, "instantaneous", false, "Download instantaneous values instead of daily values")
	compareCmd.Flags().BoolVar(&comparePlot, "plot", false, "Render terminal plots of the aligned series and error trace")
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "Print results as JSON instead of a table")
	compareCmd.Flags().StringVar(&compareErrorLog, "error-log", "", "Write file diagnostics to this log file")

	compareCmd.MarkFlagRequired("model-file")
}

var compareCmd = &cobra.Command{
	Use:        "compare [flags] parameterCode...",
	Short:      "Compare a modeled series against an observed gauge record",
	Args:       cobra.MinimumNArgs(1),
	ArgAliases: []string{"parameterCode"},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		if viper.GetString("otlp.endpoint") != "" {
			shutdown, err := opentelemetry.Setup()
			if err != nil {
				log.Error().Err(err).Msg("could not setup tracing")
			} else {
				defer func() {
					if err := shutdown(ctx); err != nil {
						log.Error().Err(err).Msg("could not shutdown tracing")
					}
				}()
			}
		}

		model := loadModelSeries()
		observed := loadObservedContent(ctx)

		comparison := &compare.Comparison{
			ModelName:    compareModelName,
			ObservedName: compareObservedName,
		}

		results, errs, err := comparison.RunAll(ctx, model, observed, args)
		if err != nil {
			log.Fatal().Err(err).Msg("could not process observed file")
		}

		codes := make([]string, 0, len(results))
		for code := range results {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		for _, code := range codes {
			res := results[code]

			if compareJSON {
				body, err := report.JSON(res)
				if err != nil {
					log.Error().Err(err).Str("ParameterCode", code).Msg("could not serialize result")
					continue
				}
				fmt.Println(string(body))
			} else {
				fmt.Println(report.StatsTable(res))
			}

			if comparePlot {
				fmt.Println(report.SeriesPlot(res, 80, 15))
				fmt.Println()
				fmt.Println(report.ErrorPlot(res, 80, 15))
			}

			if compareErrorLog != "" {
				writeErrorLog(res.Diagnostics)
			}
		}

		for code, err := range errs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", code, err)
		}
		if len(errs) > 0 {
			os.Exit(1)
		}
	},
}

// loadModelSeries reads the WATER output file and selects the requested
// output column
func loadModelSeries() *hydrograph.TimeSeries {
	content, err := os.ReadFile(compareModelFile)
	if err != nil {
		log.Fatal().Err(err).Str("FileName", compareModelFile).Msg("could not read model file")
	}

	modelFile, err := water.Parse(content)
	if err != nil {
		log.Fatal().Err(err).Str("FileName", compareModelFile).Msg("could not parse model file")
	}

	series, ok := modelFile.Lookup(compareModelOutput)
	if !ok {
		log.Fatal().Str("ModelOutput", compareModelOutput).Strs("Available", modelFile.Names()).
			Msg("model output not present in file")
	}

	return series
}

// loadObservedContent reads the observed record from a file or downloads it
// from the USGS water services
func loadObservedContent(ctx context.Context) []byte {
	if compareObservedFile != "" {
		content, err := os.ReadFile(compareObservedFile)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", compareObservedFile).Msg("could not read observed file")
		}
		return content
	}

	if compareSite == "" {
		log.Fatal().Msg("either --observed-file or --site is required")
	}

	query := nwisweb.Query{Site: compareSite}
	if compareInstantaneous {
		query.Resolution = hydrograph.Instantaneous
	}
	query.Begin = parseDateFlag("begin", compareBegin)
	query.End = parseDateFlag("end", compareEnd)

	content, err := nwisweb.New().Fetch(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Str("Site", compareSite).Msg("could not download observed record")
	}
	return content
}

// writeErrorLog persists file diagnostics the way the parser itself never
// does; one structured line per diagnostic
func writeErrorLog(diags []hydrograph.Diagnostic) {
	if len(diags) == 0 {
		return
	}

	fh, err := os.OpenFile(compareErrorLog, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		log.Error().Err(err).Str("FileName", compareErrorLog).Msg("could not open error log")
		return
	}
	defer fh.Close()

	diagLog := zerolog.New(fh).With().Timestamp().Logger()
	for _, d := range diags {
		diagLog.Warn().Int("Line", d.Line).Str("Raw", d.Raw).Msg(d.Reason)
	}
}

func parseDateFlag(name, value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		log.Fatal().Err(err).Str("Flag", name).Str("Value", value).Msg("could not parse date flag")
	}
	return date
}
