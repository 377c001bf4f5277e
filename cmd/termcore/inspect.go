package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/termcore/internal/report"
)

// inspect prints a file written by -json or -dump. JSON reports are
// summarized; .zst dumps are decompressed and plain dumps copied.
func inspect(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		s, err := report.Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		bw := bufio.NewWriter(w)
		fmt.Fprintf(bw, "screen      %dx%d\n", s.Cols, s.ActiveRows)
		fmt.Fprintf(bw, "rows        %d\n", s.Rows)
		fmt.Fprintf(bw, "pages       %d (%d bytes)\n", s.Pages, s.Bytes)
		fmt.Fprintf(bw, "styles      %d\n", s.Styles)
		fmt.Fprintf(bw, "graphemes   %d\n", s.Graphemes)
		fmt.Fprintf(bw, "hyperlinks  %d\n", s.Hyperlinks)
		if s.Limit == 0 {
			fmt.Fprintf(bw, "limit       none\n")
		} else {
			fmt.Fprintf(bw, "limit       %d %s\n", s.Limit, s.LimitUnit)
		}
		return bw.Flush()
	case ".zst":
		text, err := report.ReadDump(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		_, err = io.WriteString(w, text)
		return err
	default:
		_, err = io.Copy(w, f)
		return err
	}
}
