// Package fixtures runs the anonymization engine over a directory of
// captured fixture files and persists the results plus the mapping report.
package fixtures

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/fixturelab/jiranon/src/anon"
	"github.com/fixturelab/jiranon/src/utils"
	"github.com/fixturelab/jiranon/src/utils/jsonfile"
)

// MappingFileName is the audit file written next to the anonymized
// fixtures at the end of every batch.
const MappingFileName = "anonymization_mapping.json"

// Processor iterates the JSON files of an input directory, anonymizes each
// through a shared FixtureAnonymizer (so identifier mappings accumulate
// across the whole batch), and mirrors them into the output directory.
// Files are processed strictly sequentially; the mapping tables need a
// total order of insertions.
type Processor struct {
	anonymizer *anon.FixtureAnonymizer
	inputDir   string
	outputDir  string
}

// FailedFile records one fixture that could not be processed. A malformed
// fixture never aborts the batch.
type FailedFile struct {
	Path string
	Err  error
}

// BatchSummary reports what a Run did, for CLI display.
type BatchSummary struct {
	ProcessedFiles []string
	FailedFiles    []FailedFile
}

func NewProcessor(anonymizer *anon.FixtureAnonymizer, inputDir, outputDir string) *Processor {
	return &Processor{
		anonymizer: anonymizer,
		inputDir:   inputDir,
		outputDir:  outputDir,
	}
}

// Run processes every *.json file of the input directory (hidden dotfiles
// are skipped), continuing past per-file failures, and finally writes the
// mapping report. A missing input directory is reported once and skips the
// batch entirely, with no partial output; it is not an error. Failure to
// write the mapping report is the one condition surfaced to the caller.
func (p *Processor) Run() (*BatchSummary, error) {
	summary := &BatchSummary{}

	if !utils.FileOrFolderExists(p.inputDir) {
		utils.PrintAndLog("Input directory %q does not exist. Nothing to anonymize.", p.inputDir)
		return summary, nil
	}

	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return summary, fmt.Errorf("create output dir %q: %w", p.outputDir, err)
	}

	paths, err := filepath.Glob(filepath.Join(p.inputDir, "*.json"))
	if err != nil {
		return summary, fmt.Errorf("list fixture files in %q: %w", p.inputDir, err)
	}
	paths = lo.Filter(paths, func(path string, _ int) bool {
		return !strings.HasPrefix(filepath.Base(path), ".")
	})

	for _, path := range paths {
		outPath := filepath.Join(p.outputDir, filepath.Base(path))
		log.Infof("anonymizing %s -> %s", path, outPath)
		if err := p.processFile(path, outPath); err != nil {
			log.Errorf("anonymize %q: %v", path, err)
			summary.FailedFiles = append(summary.FailedFiles, FailedFile{Path: path, Err: err})
			continue
		}
		summary.ProcessedFiles = append(summary.ProcessedFiles, path)
	}

	if err := p.writeMappingReport(); err != nil {
		return summary, fmt.Errorf("write mapping report: %w", err)
	}
	return summary, nil
}

func (p *Processor) processFile(inPath, outPath string) error {
	doc, err := readJSONDocument(inPath)
	if err != nil {
		return err
	}

	rewritten := p.anonymizer.Anonymize(doc)

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("create output dir for %q: %w", outPath, err)
	}
	bs, err := marshalIndented(rewritten)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", inPath, err)
	}
	if err := os.WriteFile(outPath, bs, 0644); err != nil {
		return fmt.Errorf("write %q: %w", outPath, err)
	}
	return nil
}

func (p *Processor) writeMappingReport() error {
	reportPath := filepath.Join(p.outputDir, MappingFileName)
	jf := jsonfile.NewJsonFile[anon.State](reportPath)
	if err := jf.Create(p.anonymizer.State()); err != nil {
		return err
	}
	log.Infof("mapping report written to %s", reportPath)
	return nil
}

// readJSONDocument decodes one fixture with UseNumber so numeric scalars
// round-trip verbatim instead of going through float64.
func readJSONDocument(path string) (any, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(bs))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	return doc, nil
}

func marshalIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
