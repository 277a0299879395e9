package geds

import (
	"archive/zip"
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
)

const maxLineBytes = 1 << 20

// ParseStats describes what ParseLines threw away.
type ParseStats struct {
	Lines   int
	Dropped int
}

// ExtractZip decodes the first file of a GEDS archive. The open data export
// is ISO-8859-1; the result is UTF-8.
func ExtractZip(data []byte) (domain.Dataset, ParseStats, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return domain.Dataset{}, ParseStats{}, fmt.Errorf("open archive: %w", err)
	}
	if len(zr.File) == 0 {
		return domain.Dataset{}, ParseStats{}, fmt.Errorf("archive is empty")
	}
	f, err := zr.File[0].Open()
	if err != nil {
		return domain.Dataset{}, ParseStats{}, fmt.Errorf("open %s: %w", zr.File[0].Name, err)
	}
	defer f.Close()

	return ParseLines(charmap.ISO8859_1.NewDecoder().Reader(f))
}

// ParseLines reads a CSV one physical line at a time. The first line is the
// header and every later line must have exactly as many fields; the rest,
// including records split by embedded newlines, are dropped and counted.
func ParseLines(r io.Reader) (domain.Dataset, ParseStats, error) {
	sc := bufio.NewScanner(stripUTF8BOM(bufio.NewReader(r)))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		ds    domain.Dataset
		stats ParseStats
	)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		stats.Lines++
		fields, err := parseLine(line)
		if err != nil {
			stats.Dropped++
			continue
		}
		if ds.Header == nil {
			for i := range fields {
				fields[i] = strings.TrimSpace(fields[i])
			}
			ds.Header = fields
			continue
		}
		if len(fields) != len(ds.Header) {
			stats.Dropped++
			continue
		}
		ds.Records = append(ds.Records, fields)
	}
	if err := sc.Err(); err != nil {
		return domain.Dataset{}, stats, fmt.Errorf("scan: %w", err)
	}
	if ds.Header == nil {
		return domain.Dataset{}, stats, fmt.Errorf("missing header")
	}
	return ds, stats, nil
}

func parseLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.Read()
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

// FilterSubset keeps only the records whose column equals value. An empty
// value returns ds unchanged.
func FilterSubset(ds domain.Dataset, column, value string) (domain.Dataset, error) {
	if value == "" {
		return ds, nil
	}
	idx := -1
	for i, h := range ds.Header {
		if h == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Dataset{}, fmt.Errorf("subset column %q not in header", column)
	}
	out := domain.Dataset{Header: ds.Header}
	for _, rec := range ds.Records {
		if rec[idx] == value {
			out.Records = append(out.Records, rec)
		}
	}
	return out, nil
}
