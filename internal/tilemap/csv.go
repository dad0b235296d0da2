package tilemap

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/reasv/wfctiled/internal/grid"
)

// ReadCSV parses a headerless grid of unsigned tile values, one row per
// line. Every row must have as many columns as the first, and blank lines
// between rows are rejected. Trailing blank lines are ignored.
func ReadCSV(r io.Reader) (*grid.Grid[uint32], error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0
	reader.TrimLeadingSpace = true

	var values []uint32
	width, height, lastLine := 0, 0, 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
			}
			return nil, fmt.Errorf("%w: reading csv: %v", ErrIO, err)
		}
		// encoding/csv skips empty lines, so gaps in line numbers are blank rows.
		line, _ := reader.FieldPos(0)
		if line > lastLine+1 {
			return nil, fmt.Errorf("%w: blank line %d", ErrMalformedInput, lastLine+1)
		}
		lastLine = line
		if height == 0 {
			width = len(record)
		}
		for col, field := range record {
			v, err := strconv.ParseUint(strings.TrimSpace(field), 10, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %q is not a tile value", ErrMalformedInput, height+1, col+1, field)
			}
			values = append(values, uint32(v))
		}
		height++
	}

	if height == 0 || width == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrMalformedInput)
	}
	g, err := grid.FromSlice(grid.Size{W: width, H: height}, values)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return g, nil
}

// LoadCSV reads a grid from a CSV file.
func LoadCSV(path string) (*grid.Grid[uint32], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()

	g, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
