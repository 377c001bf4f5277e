// Package report renders PageList statistics and screen dumps for the
// command line.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/termcore/internal/screen/pagelist"
)

// ErrInvalidReport is returned by Parse for input that is not a report.
var ErrInvalidReport = errors.New("report: invalid report")

// Build returns s as a JSON object. Extra key/value pairs, such as a
// terminal id, are set after the stats.
func Build(s pagelist.Stats, extra ...string) ([]byte, error) {
	if len(extra)%2 != 0 {
		return nil, fmt.Errorf("report: odd number of extra fields")
	}
	doc := []byte(`{}`)
	var err error
	set := func(path string, v any) {
		if err != nil {
			return
		}
		var next []byte
		if next, err = sjson.SetBytes(doc, path, v); err != nil {
			err = fmt.Errorf("report: set %q: %w", path, err)
			return
		}
		doc = next
	}
	set("pages", s.Pages)
	set("rows", s.Rows)
	set("bytes", s.Bytes)
	set("cols", s.Cols)
	set("active_rows", s.ActiveRows)
	set("styles", s.Styles)
	set("graphemes", s.Graphemes)
	set("hyperlinks", s.Hyperlinks)
	set("limit.value", s.Limit)
	set("limit.unit", s.LimitUnit.String())
	for i := 0; i < len(extra); i += 2 {
		set(extra[i], extra[i+1])
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Parse reads a report produced by Build.
func Parse(data []byte) (pagelist.Stats, error) {
	if !gjson.ValidBytes(data) {
		return pagelist.Stats{}, ErrInvalidReport
	}
	r := gjson.ParseBytes(data)
	if !r.Get("pages").Exists() || !r.Get("rows").Exists() {
		return pagelist.Stats{}, fmt.Errorf("%w: missing pages or rows", ErrInvalidReport)
	}
	unit, err := pagelist.ParseLimitUnit(r.Get("limit.unit").String())
	if err != nil {
		return pagelist.Stats{}, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}
	return pagelist.Stats{
		Pages:      int(r.Get("pages").Int()),
		Rows:       int(r.Get("rows").Int()),
		Bytes:      int(r.Get("bytes").Int()),
		Cols:       int(r.Get("cols").Int()),
		ActiveRows: int(r.Get("active_rows").Int()),
		Styles:     int(r.Get("styles").Int()),
		Graphemes:  int(r.Get("graphemes").Int()),
		Hyperlinks: int(r.Get("hyperlinks").Int()),
		Limit:      int(r.Get("limit.value").Int()),
		LimitUnit:  unit,
	}, nil
}

// WriteDump writes the snapshot's text to w without trailing blank rows,
// zstd-compressed when compress is set.
func WriteDump(w io.Writer, s *pagelist.Snapshot, compress bool) error {
	text := strings.TrimRight(s.Text(), "\n") + "\n"
	if !compress {
		_, err := io.WriteString(w, text)
		return err
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("report: zstd: %w", err)
	}
	if _, err := io.WriteString(enc, text); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// ReadDump decodes a compressed dump.
func ReadDump(r io.Reader) (string, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return "", fmt.Errorf("report: zstd: %w", err)
	}
	defer dec.Close()
	b, err := io.ReadAll(dec)
	if err != nil {
		return "", fmt.Errorf("report: zstd: %w", err)
	}
	return string(b), nil
}
