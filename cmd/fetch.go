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

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hydro-tools/hydrocomp/hydrograph"
	"github.com/hydro-tools/hydrocomp/nwisweb"
)

var (
	fetchParameter     string
	fetchBegin         string
	fetchEnd           string
	fetchInstantaneous bool
	fetchOutput        string
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchParameter, "parameter", "00060", "USGS parameter code to fetch")
	fetchCmd.Flags().StringVar(&fetchBegin, "begin", "", "Start date (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchEnd, "end", "", "End date (YYYY-MM-DD)")
	fetchCmd.Flags().BoolVar(&fetchInstantaneous, "instantaneous", false, "Fetch instantaneous values instead of daily values")
	fetchCmd.Flags().StringVar(&fetchOutput, "output", "", "Write the record to this file instead of stdout")
}

var fetchCmd = &cobra.Command{
	Use:        "fetch [flags] site",
	Short:      "Download a gauge record from the USGS water services",
	Args:       cobra.ExactArgs(1),
	ArgAliases: []string{"site"},
	Run: func(cmd *cobra.Command, args []string) {
		query := nwisweb.Query{
			Site:      args[0],
			Parameter: fetchParameter,
			Begin:     parseDateFlag("begin", fetchBegin),
			End:       parseDateFlag("end", fetchEnd),
		}
		if fetchInstantaneous {
			query.Resolution = hydrograph.Instantaneous
		}

		content, err := nwisweb.New().Fetch(context.Background(), query)
		if err != nil {
			log.Fatal().Err(err).Str("Site", args[0]).Msg("could not download gauge record")
		}

		if fetchOutput == "" {
			fmt.Print(string(content))
			return
		}

		if err := os.WriteFile(fetchOutput, content, 0644); err != nil {
			log.Fatal().Err(err).Str("FileName", fetchOutput).Msg("could not write output file")
		}
	},
}
