package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/reasv/wfctiled/internal/grid"
	"github.com/reasv/wfctiled/internal/tilemap"
)

// WriteCSV writes g as headerless comma-separated rows, each terminated by
// a newline.
func WriteCSV(w io.Writer, g *grid.Grid[uint32]) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for y := 0; y < g.Height(); y++ {
		buf = buf[:0]
		for x, v := range g.Row(y) {
			if x > 0 {
				buf = append(buf, ',')
			}
			buf = strconv.AppendUint(buf, uint64(v), 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("%w: writing csv: %v", tilemap.ErrIO, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: writing csv: %v", tilemap.ErrIO, err)
	}
	return nil
}

// SaveCSV writes g to path, replacing any existing file.
func SaveCSV(path string, g *grid.Grid[uint32]) error {
	return saveFile(path, func(w io.Writer) error { return WriteCSV(w, g) })
}

func saveFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", tilemap.ErrIO, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", tilemap.ErrIO, path, err)
	}
	return nil
}
