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
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hydro-tools/hydrocomp/catalog"
	"github.com/hydro-tools/hydrocomp/hydrograph"
	"github.com/hydro-tools/hydrocomp/nwis"
	"github.com/hydro-tools/hydrocomp/water"
)

var infoTable bool

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&infoTable, "table", false, "Print the full sample table for each series")
}

var infoCmd = &cobra.Command{
	Use:        "info [flags] dataFile",
	Short:      "Describe an NWIS or WATER data file",
	Args:       cobra.ExactArgs(1),
	ArgAliases: []string{"dataFile"},
	Run: func(cmd *cobra.Command, args []string) {
		content, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatal().Err(err).Str("FileName", args[0]).Msg("could not read file")
		}

		if file, err := nwis.Parse(content); err == nil {
			printNwisInfo(file)
			return
		}

		modelFile, err := water.Parse(content)
		if err != nil {
			log.Fatal().Str("FileName", args[0]).Msg("file is neither an NWIS nor a WATER data file")
		}
		printWaterInfo(modelFile)
	},
}

func printNwisInfo(file *nwis.File) {
	fmt.Printf("Station: %s\n", file.Station)
	fmt.Printf("Retrieved: %s\n", file.Retrieved)
	fmt.Printf("Resolution: %s\n", file.Resolution)
	fmt.Printf("Parameters:\n")

	series, diags, err := nwis.BuildAll(file, catalog.Default())
	if err != nil {
		log.Fatal().Err(err).Msg("could not build series")
	}

	printSeriesSummaries(series)

	for _, d := range append(file.Diagnostics, diags...) {
		fmt.Printf("  warning: %s\n", d)
	}
}

func printWaterInfo(file *water.File) {
	fmt.Printf("WATER model output\n")
	fmt.Printf("Parameters:\n")
	printSeriesSummaries(file.Series)

	for _, d := range file.Diagnostics {
		fmt.Printf("  warning: %s\n", d)
	}
}

func printSeriesSummaries(series []*hydrograph.TimeSeries) {
	for _, ts := range series {
		fmt.Printf("  %s (%s): %d samples %s to %s, mean=%.2f max=%.2f min=%.2f\n",
			ts.ParameterName, ts.Unit, ts.Len(),
			ts.Start().Format("2006-01-02"), ts.End().Format("2006-01-02"),
			ts.Mean(), ts.Max(), ts.Min())
		if infoTable {
			fmt.Println(ts.Table())
		}
	}
}
