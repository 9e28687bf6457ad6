/*
Copyright (c) jiranon authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fixturelab/jiranon/src/anon"
	"github.com/fixturelab/jiranon/src/fixtures"
	"github.com/fixturelab/jiranon/src/utils"
)

var (
	inputDir       string
	outputDir      string
	resumeMappings utils.BoolStr
	startClean     utils.BoolStr
)

var anonymizeCmd = &cobra.Command{
	Use:   "anonymize",
	Short: "Anonymize a directory of captured Jira API fixtures into safe-to-share test data",
	Long: `Anonymize parses every JSON file in the input directory, replaces identifying
values (user names, emails, project and issue keys, numeric ids) with synthetic
ones that stay consistent across the whole batch, rewrites production URLs to a
neutral domain, and writes the results plus an audit mapping report into the
output directory. A malformed fixture is logged and skipped; it never aborts
the batch.`,

	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlagsFromConfig(cmd, "anonymize")
		if bool(startClean) && bool(resumeMappings) {
			utils.ErrExit("only one of --start-clean and --resume is allowed: " +
				"cleaning the output directory would delete the mapping store")
		}
		InitLogging(outputDir, false, cmd.Name())
	},

	Run: func(cmd *cobra.Command, args []string) {
		err := anonymizeFixtures()
		if err != nil {
			utils.ErrExit("failed to anonymize fixtures: %w", err)
		}
	},
}

func anonymizeFixtures() error {
	runID := uuid.New().String()
	log.Infof("starting anonymization run %s: input-dir=%q output-dir=%q resume=%v",
		runID, inputDir, outputDir, bool(resumeMappings))

	if bool(startClean) && !utils.IsDirectoryEmpty(outputDir) {
		proceed := utils.AskPrompt("CAUTION: Using --start-clean will delete the existing " +
			"contents of " + outputDir + ". Do you want to proceed")
		if !proceed {
			return nil
		}
		utils.CleanDir(outputDir)
	}

	anonymizer := anon.NewFixtureAnonymizer()

	var store *anon.MappingStore
	if bool(resumeMappings) {
		var err error
		store, err = anon.NewMappingStore(anon.GetMappingStorePath(outputDir))
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Init(utils.JIRANON_VERSION); err != nil {
			return err
		}
		if err := store.Load(anonymizer.State()); err != nil {
			return err
		}
	}

	processor := fixtures.NewProcessor(anonymizer, inputDir, outputDir)
	summary, err := processor.Run()
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.Save(anonymizer.State()); err != nil {
			return fmt.Errorf("persist mapping store: %w", err)
		}
	}

	printBatchSummary(summary)
	return nil
}

func printBatchSummary(summary *fixtures.BatchSummary) {
	utils.PrintAndLog("Anonymized %d fixture file(s) into %q", len(summary.ProcessedFiles), outputDir)
	if len(summary.FailedFiles) > 0 {
		color.Red("Failed to anonymize %d file(s):", len(summary.FailedFiles))
		for _, failed := range summary.FailedFiles {
			fmt.Printf("  %s: %v\n", failed.Path, failed.Err)
		}
	}
	if len(summary.ProcessedFiles) > 0 {
		color.Green("Mapping report: %s", filepath.Join(outputDir, fixtures.MappingFileName))
	}
}

func init() {
	rootCmd.AddCommand(anonymizeCmd)

	anonymizeCmd.Flags().StringVarP(&inputDir, "input-dir", "i", "fixtures/raw",
		"directory containing the captured fixture JSON files")

	anonymizeCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "fixtures/anonymized",
		"directory where anonymized fixtures and the mapping report are written")

	BoolVar(anonymizeCmd.Flags(), &resumeMappings, "resume", false,
		"reuse synthetic values assigned by earlier runs via the mapping store in the output directory")

	BoolVar(anonymizeCmd.Flags(), &startClean, "start-clean", false,
		"clean the output directory before anonymizing")
}
