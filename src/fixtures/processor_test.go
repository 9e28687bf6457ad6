package fixtures

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixturelab/jiranon/src/anon"
	testutils "github.com/fixturelab/jiranon/test/utils"
)

func newTestProcessor(t *testing.T) (*Processor, string, string) {
	t.Helper()
	inputDir := testutils.CreateTempFixtureDir()
	outputDir := testutils.CreateTempFixtureDir()
	t.Cleanup(func() {
		testutils.RemoveTempFixtureDir(inputDir)
		testutils.RemoveTempFixtureDir(outputDir)
	})
	return NewProcessor(anon.NewFixtureAnonymizer(), inputDir, outputDir), inputDir, outputDir
}

func readOutputDocument(t *testing.T, path string) map[string]any {
	t.Helper()
	doc, err := readJSONDocument(path)
	require.NoError(t, err)
	return doc.(map[string]any)
}

func TestRunAnonymizesBatch(t *testing.T) {
	p, inputDir, outputDir := newTestProcessor(t)
	gen := testutils.NewFixtureGenerator(1)

	testutils.WriteFixtureFile(t, inputDir, "search.json",
		gen.SearchResultFixture(gen.IssueFixture("DNA-1244"), gen.IssueFixture("DNA-1245")))
	testutils.WriteFixtureFile(t, inputDir, "user.json", gen.UserFixture())

	summary, err := p.Run()
	require.NoError(t, err)
	assert.Len(t, summary.ProcessedFiles, 2)
	assert.Empty(t, summary.FailedFiles)

	search := readOutputDocument(t, filepath.Join(outputDir, "search.json"))
	issues := search["issues"].([]any)
	require.Len(t, issues, 2)
	first := issues[0].(map[string]any)
	assert.Equal(t, "DNA-1", first["key"])
	fields := first["fields"].(map[string]any)
	assert.Equal(t, "Test issue description for DNA-1", fields["description"])
	assert.NotContains(t, fields["project"].(map[string]any)["self"], "adobe.com")
}

func TestRunContinuesPastMalformedFile(t *testing.T) {
	p, inputDir, outputDir := newTestProcessor(t)
	gen := testutils.NewFixtureGenerator(2)

	testutils.WriteFixtureFile(t, inputDir, "good.json", gen.UserFixture())
	require.NoError(t,
		os.WriteFile(filepath.Join(inputDir, "broken.json"), []byte(`{"key": "DNA-`), 0644))

	summary, err := p.Run()
	require.NoError(t, err)
	assert.Len(t, summary.ProcessedFiles, 1)
	require.Len(t, summary.FailedFiles, 1)
	assert.Equal(t, filepath.Join(inputDir, "broken.json"), summary.FailedFiles[0].Path)

	// Good file and mapping report are still written; the broken one is not.
	assert.FileExists(t, filepath.Join(outputDir, "good.json"))
	assert.FileExists(t, filepath.Join(outputDir, MappingFileName))
	assert.NoFileExists(t, filepath.Join(outputDir, "broken.json"))
}

func TestRunSkipsHiddenAndNonJSONFiles(t *testing.T) {
	p, inputDir, outputDir := newTestProcessor(t)
	gen := testutils.NewFixtureGenerator(3)

	testutils.WriteFixtureFile(t, inputDir, "visible.json", gen.UserFixture())
	testutils.WriteFixtureFile(t, inputDir, ".hidden.json", gen.UserFixture())
	require.NoError(t,
		os.WriteFile(filepath.Join(inputDir, "notes.txt"), []byte("not a fixture"), 0644))

	summary, err := p.Run()
	require.NoError(t, err)
	assert.Len(t, summary.ProcessedFiles, 1)
	assert.NoFileExists(t, filepath.Join(outputDir, ".hidden.json"))
	assert.NoFileExists(t, filepath.Join(outputDir, "notes.txt"))
}

func TestRunMissingInputDir(t *testing.T) {
	outputDir := testutils.CreateTempFixtureDir()
	defer testutils.RemoveTempFixtureDir(outputDir)
	missing := filepath.Join(outputDir, "does-not-exist")

	p := NewProcessor(anon.NewFixtureAnonymizer(), missing, filepath.Join(outputDir, "out"))
	summary, err := p.Run()
	require.NoError(t, err)
	assert.Empty(t, summary.ProcessedFiles)
	assert.Empty(t, summary.FailedFiles)

	// Nothing is produced, not even the mapping report.
	assert.NoDirExists(t, filepath.Join(outputDir, "out"))
}

func TestRunWritesMappingReport(t *testing.T) {
	p, inputDir, outputDir := newTestProcessor(t)
	gen := testutils.NewFixtureGenerator(4)

	testutils.WriteFixtureFile(t, inputDir, "issue.json", gen.IssueFixture("WEB-42"))
	_, err := p.Run()
	require.NoError(t, err)

	bs, err := os.ReadFile(filepath.Join(outputDir, MappingFileName))
	require.NoError(t, err)
	var report map[string]map[string]string
	require.NoError(t, json.Unmarshal(bs, &report))

	for _, category := range []string{"users", "projects", "issues", "emails", "urls", "ids"} {
		assert.Contains(t, report, category)
	}
	assert.Equal(t, "WEB-1", report["issues"]["WEB-42"])
	assert.Equal(t, "TEST1", report["projects"]["WEB"])
}

func TestRunNumbersPreserved(t *testing.T) {
	p, inputDir, outputDir := newTestProcessor(t)

	doc := map[string]any{
		"total":   18014398509481985, // beyond float64 precision
		"elapsed": 0.25,
	}
	testutils.WriteFixtureFile(t, inputDir, "stats.json", doc)

	_, err := p.Run()
	require.NoError(t, err)

	bs, err := os.ReadFile(filepath.Join(outputDir, "stats.json"))
	require.NoError(t, err)
	assert.Contains(t, string(bs), "18014398509481985")
	assert.Contains(t, string(bs), "0.25")
}
