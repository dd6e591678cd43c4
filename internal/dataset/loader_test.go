package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeplayctl/internal/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeGzipFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
	return path
}

func appErrorCode(t *testing.T, err error) types.ErrorCode {
	t.Helper()
	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestLoadFileJSONL(t *testing.T) {
	path := writeFile(t, "cases.jsonl",
		`{"inputs": {"question": "What is a refund?"}, "output": "A refund is..."}
{"inputs": {"question": "Hours?"}, "output": "9-5", "metadata": {"category": "ops"}}
`)

	cases, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	assert.Equal(t, "What is a refund?", cases[0].Inputs["question"])
	assert.Equal(t, "A refund is...", cases[0].Output)
	assert.Equal(t, "ops", cases[1].Metadata["category"])
}

func TestLoadFileJSONLMalformedLineReportsLineNumber(t *testing.T) {
	path := writeFile(t, "cases.jsonl",
		`{"inputs": {"q": "ok"}}
{not json}
{"inputs": {"q": "never reached"}}
`)

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeInputMalformed, appErrorCode(t, err))
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadFileCSV(t *testing.T) {
	path := writeFile(t, "cases.csv",
		`inputs.question,inputs.context,output,category
"What is the return policy?","Customer bought shoes","30 days with receipt",refunds
"Store hours?","","9am to 5pm",general
`)

	cases, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	assert.Equal(t, "What is the return policy?", cases[0].Inputs["question"])
	assert.Equal(t, "Customer bought shoes", cases[0].Inputs["context"])
	assert.Equal(t, "30 days with receipt", cases[0].Output)
	assert.Equal(t, "refunds", cases[0].Metadata["category"])

	assert.Equal(t, "", cases[1].Inputs["context"])
	assert.Equal(t, "general", cases[1].Metadata["category"])
}

func TestLoadFileCSVRaggedRow(t *testing.T) {
	path := writeFile(t, "cases.csv",
		`inputs.question,output
"ok question","ok output"
"only one field"
`)

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeInputMalformed, appErrorCode(t, err))
	assert.Contains(t, err.Error(), "row 3")
}

func TestLoadFileGzipJSONL(t *testing.T) {
	path := writeGzipFile(t, "cases.jsonl.gz",
		`{"inputs": {"question": "compressed?"}, "output": "yes"}
`)

	cases, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "compressed?", cases[0].Inputs["question"])
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "cases.xlsx", "not a spreadsheet")

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeInputUnsupportedFormat, appErrorCode(t, err))
}

func TestLoadFileEmpty(t *testing.T) {
	path := writeFile(t, "cases.jsonl", "")

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeInputEmpty, appErrorCode(t, err))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.jsonl"))
	require.Error(t, err)
}

func TestLoadIDs(t *testing.T) {
	path := writeFile(t, "ids.txt",
		`a1b2c3d4-0000-0000-0000-000000000001

# a comment
a1b2c3d4-0000-0000-0000-000000000002
`)

	ids, err := LoadIDs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"a1b2c3d4-0000-0000-0000-000000000001",
		"a1b2c3d4-0000-0000-0000-000000000002",
	}, ids)
}

func TestLoadIDsEmpty(t *testing.T) {
	path := writeFile(t, "ids.txt", "\n# only comments\n")

	_, err := LoadIDs(path)
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeInputEmpty, appErrorCode(t, err))
}

func TestValidate(t *testing.T) {
	valid := []types.TestCase{
		{Inputs: map[string]any{"question": "ok"}},
	}
	require.NoError(t, Validate(valid))

	noInputs := []types.TestCase{
		{Inputs: map[string]any{"question": "ok"}},
		{Inputs: map[string]any{}, Output: "orphan output"},
	}
	err := Validate(noInputs)
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeInputInvalidCase, appErrorCode(t, err))
	assert.Contains(t, err.Error(), "test case 2")

	emptyKey := []types.TestCase{
		{Inputs: map[string]any{"": "value"}},
	}
	err = Validate(emptyKey)
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeInputInvalidCase, appErrorCode(t, err))
}
