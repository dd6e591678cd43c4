package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runImportMain calls main() with flags reconstructed from the environment.
// main registers its flags on the global FlagSet, so each re-executed test
// process may enter here at most once.
func runImportMain() {
	os.Args = []string{
		"import-testcases",
		"--file=" + os.Getenv("TEST_CASES_FILE"),
		"--dataset-id=ds-1",
		"--project-id=p-1",
		"--dry-run",
		"--batch-size=" + os.Getenv("TEST_BATCH_SIZE"),
	}
	main()
}

// runImport re-executes exactly one test of this binary so the tool's exit
// code can be observed.
func runImport(t *testing.T, testName, batchSize string) (string, error) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cases.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"inputs": {"question": "one"}}
{"inputs": {"question": "two"}}
`), 0o600))

	cmd := exec.Command(os.Args[0], "-test.run=^"+testName+"$")
	cmd.Env = append(os.Environ(),
		"RUN_MAIN=1",
		"TEST_CASES_FILE="+path,
		"TEST_BATCH_SIZE="+batchSize,
		"FREEPLAY_API_KEY=fp-test-key-abc123",
		"FREEPLAY_API_BASE=https://app.example.com/api",
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestDryRunRejectsBatchSizeOutOfRange(t *testing.T) {
	if os.Getenv("RUN_MAIN") == "1" {
		runImportMain()
		return
	}

	out, err := runImport(t, "TestDryRunRejectsBatchSizeOutOfRange", "500")

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr, "expected a non-zero exit, output:\n%s", out)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, out, "batch size must be between 1 and 100")
	assert.NotContains(t, out, "Dry run")
}

func TestDryRunReportsBatchPlan(t *testing.T) {
	if os.Getenv("RUN_MAIN") == "1" {
		runImportMain()
		return
	}

	out, err := runImport(t, "TestDryRunReportsBatchPlan", "1")

	require.NoError(t, err, "output:\n%s", out)
	assert.Contains(t, out, "Loaded 2 test cases")
	assert.Contains(t, out, "Dry run: would upload 2 test cases in 2 batches")
}
