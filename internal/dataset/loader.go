// Package dataset loads operator-supplied test-case files and drives the
// batched bulk operations against the Freeplay API.
//
// Supported input formats:
//
//	.jsonl       one JSON object per line
//	.csv         header row; "inputs.*" columns become input variables,
//	             "output" the expected output, all other columns metadata
//	.jsonl.gz / .csv.gz   gzip-compressed variants of the above
//
// Loading is strict: a malformed record aborts with its line number so the
// operator fixes the file before any request is issued.
package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/klauspost/compress/gzip"

	"freeplayctl/internal/types"
)

// inputColumnPrefix marks CSV columns that map into the inputs object.
const inputColumnPrefix = "inputs."

// maxLineBytes bounds a single JSONL line. Prompt test cases can carry long
// context documents, so this is generous.
const maxLineBytes = 4 << 20

// LoadFile reads test cases from path, dispatching on the file extension.
// Files ending in .gz are transparently decompressed and the format is taken
// from the inner extension. An empty file is an error: running an import
// against nothing is always an operator mistake.
func LoadFile(path string) ([]types.TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInputUnsupportedFormat,
			fmt.Sprintf("cannot open %s", path),
			err,
		)
	}
	defer f.Close()

	var reader io.Reader = f
	name := path
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, types.NewAppError(
				types.ErrCodeInputMalformed,
				fmt.Sprintf("cannot decompress %s", path),
				err,
			)
		}
		defer gz.Close()
		reader = gz
		name = strings.TrimSuffix(name, ".gz")
	}

	var cases []types.TestCase
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".jsonl":
		cases, err = loadJSONL(reader)
	case ".csv":
		cases, err = loadCSV(reader)
	default:
		return nil, types.NewAppError(
			types.ErrCodeInputUnsupportedFormat,
			fmt.Sprintf("unsupported file type %q (use .csv or .jsonl, optionally gzipped)", ext),
			nil,
		)
	}
	if err != nil {
		return nil, err
	}

	if len(cases) == 0 {
		return nil, types.NewAppError(
			types.ErrCodeInputEmpty,
			fmt.Sprintf("no test cases found in %s", path),
			nil,
		)
	}
	return cases, nil
}

// loadJSONL decodes one test case per line. The line number of the first
// malformed line is reported and loading stops there.
func loadJSONL(r io.Reader) ([]types.TestCase, error) {
	var cases []types.TestCase

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		var tc types.TestCase
		if err := json.Unmarshal(scanner.Bytes(), &tc); err != nil {
			return nil, types.NewAppErrorWithDetails(
				types.ErrCodeInputMalformed,
				fmt.Sprintf("error parsing line %d", line),
				err,
				map[string]any{"line": line},
			)
		}
		cases = append(cases, tc)
	}
	if err := scanner.Err(); err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInputMalformed,
			fmt.Sprintf("error reading input after line %d", line),
			err,
		)
	}
	return cases, nil
}

// loadCSV maps CSV rows onto test cases using the header row:
//
//	inputs.question,inputs.context,output,category
//	"What is...","User context","Expected response","refunds"
//
// Columns named "inputs.<key>" populate Inputs, the "output" column the
// expected output, and every other named column lands in Metadata. Columns
// with an empty header name are skipped.
func loadCSV(r io.Reader) ([]types.TestCase, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are reported per-row below

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInputMalformed,
			"error reading CSV header",
			err,
		)
	}

	var cases []types.TestCase
	row := 1 // header is row 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, types.NewAppErrorWithDetails(
				types.ErrCodeInputMalformed,
				fmt.Sprintf("error parsing CSV row %d", row),
				err,
				map[string]any{"row": row},
			)
		}
		if len(record) != len(header) {
			return nil, types.NewAppErrorWithDetails(
				types.ErrCodeInputMalformed,
				fmt.Sprintf("CSV row %d has %d fields, header has %d", row, len(record), len(header)),
				nil,
				map[string]any{"row": row},
			)
		}

		tc := types.TestCase{
			Inputs:   map[string]any{},
			Metadata: map[string]any{},
		}
		for i, key := range header {
			value := record[i]
			switch {
			case strings.HasPrefix(key, inputColumnPrefix):
				tc.Inputs[strings.TrimPrefix(key, inputColumnPrefix)] = value
			case key == "output":
				tc.Output = value
			case key != "": // skip empty column names
				tc.Metadata[key] = value
			}
		}
		if len(tc.Metadata) == 0 {
			tc.Metadata = nil
		}
		cases = append(cases, tc)
	}
	return cases, nil
}

// LoadIDs reads test-case IDs for bulk deletion, one per line, skipping
// blank lines and lines starting with '#'. Files ending in .gz are
// decompressed first.
func LoadIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInputUnsupportedFormat,
			fmt.Sprintf("cannot open %s", path),
			err,
		)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, types.NewAppError(
				types.ErrCodeInputMalformed,
				fmt.Sprintf("cannot decompress %s", path),
				err,
			)
		}
		defer gz.Close()
		reader = gz
	}

	var ids []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" || strings.HasPrefix(id, "#") {
			continue
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInputMalformed,
			fmt.Sprintf("error reading %s", path),
			err,
		)
	}

	if len(ids) == 0 {
		return nil, types.NewAppError(
			types.ErrCodeInputEmpty,
			fmt.Sprintf("no test case IDs found in %s", path),
			nil,
		)
	}
	return ids, nil
}

// Validate checks every loaded test case before the first request is issued,
// so a bad file fails in one place instead of burning batches against the
// API. The first offending case is reported with its position (1-based, in
// file order).
func Validate(cases []types.TestCase) error {
	validate := validator.New()
	for i, tc := range cases {
		if err := validate.Struct(tc); err != nil {
			return types.NewAppErrorWithDetails(
				types.ErrCodeInputInvalidCase,
				fmt.Sprintf("test case %d is invalid: at least one input is required", i+1),
				err,
				map[string]any{"index": i + 1},
			)
		}
		for key := range tc.Inputs {
			if key == "" {
				return types.NewAppErrorWithDetails(
					types.ErrCodeInputInvalidCase,
					fmt.Sprintf("test case %d is invalid: empty input variable name", i+1),
					nil,
					map[string]any{"index": i + 1},
				)
			}
		}
	}
	return nil
}
