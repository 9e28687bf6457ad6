package testutils

import (
	"os"
	"sort"
	"testing"

	"gotest.tools/assert"

	"github.com/fixturelab/jiranon/src/utils"
)

// === assertion helper functions

func FatalIfError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func AssertEqualStringSlices(t *testing.T, expected, actual []string) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Errorf("Mismatch in slice length. Expected: %v, Actual: %v", expected, actual)
	}

	sort.Strings(expected)
	sort.Strings(actual)
	assert.DeepEqual(t, expected, actual)
}

func CreateTempFixtureDir() string {
	// Create a temporary directory for fixtures inside /tmp
	fixtureDir, err := os.MkdirTemp("", "jiranon-fixtures")
	if err != nil {
		utils.ErrExit("failed to create temp fixture dir for testing: %s", err)
	}

	return fixtureDir
}

func RemoveTempFixtureDir(fixtureDir string) {
	// Remove the temporary directory
	err := os.RemoveAll(fixtureDir)
	if err != nil {
		utils.ErrExit("failed to remove temp fixture dir: %s", err)
	}
}
