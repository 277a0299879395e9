package orgchart

import (
	"regexp"
	"strings"
)

const (
	DefaultTreeDepth = 7
	DefaultSeparator = ":"
)

var parentheticalPattern = regexp.MustCompile(`\(.*?\)`)

// Segment is one level of an organizational path. Valid is false for the
// absent marker, which is not the same thing as a segment named "".
type Segment struct {
	Name  string
	Valid bool
}

func Named(name string) Segment {
	return Segment{Name: name, Valid: true}
}

var Absent = Segment{}

func (s Segment) String() string {
	if !s.Valid {
		return "<absent>"
	}
	return s.Name
}

// Row is a fixed-length segment sequence of treeDepth+1 levels.
type Row []Segment

func (r Row) AbsentCount() int {
	n := 0
	for _, s := range r {
		if !s.Valid {
			n++
		}
	}
	return n
}

// Names returns the leading named segments up to the first absent marker.
func (r Row) Names() []string {
	out := make([]string, 0, len(r))
	for _, s := range r {
		if !s.Valid {
			break
		}
		out = append(out, s.Name)
	}
	return out
}

func (r Row) String() string {
	parts := make([]string, len(r))
	for i, s := range r {
		parts[i] = s.String()
	}
	return strings.Join(parts, " : ")
}

// ParsePath splits a raw hierarchy string into exactly treeDepth+1 segments.
// Parenthetical annotations are removed first. Missing levels are padded with
// Absent and extra levels are dropped. A non-positive treeDepth falls back to
// DefaultTreeDepth and an empty separator to DefaultSeparator.
func ParsePath(raw, sep string, treeDepth int) Row {
	if treeDepth <= 0 {
		treeDepth = DefaultTreeDepth
	}
	if sep == "" {
		sep = DefaultSeparator
	}
	width := treeDepth + 1

	parts := strings.Split(StripAnnotations(raw), sep)

	row := make(Row, width)
	for i := 0; i < width; i++ {
		if i >= len(parts) {
			row[i] = Absent
			continue
		}
		row[i] = Named(strings.TrimSpace(parts[i]))
	}
	return row
}

// StripAnnotations removes every parenthesised run, shortest match first.
func StripAnnotations(raw string) string {
	return parentheticalPattern.ReplaceAllString(raw, "")
}

// ParsePaths parses every raw string with the same separator and depth.
func ParsePaths(raws []string, sep string, treeDepth int) []Row {
	rows := make([]Row, 0, len(raws))
	for _, raw := range raws {
		rows = append(rows, ParsePath(raw, sep, treeDepth))
	}
	return rows
}

// DistinctPaths drops exact duplicate strings, keeping the first occurrence.
func DistinctPaths(raws []string) []string {
	seen := make(map[string]struct{}, len(raws))
	out := make([]string, 0, len(raws))
	for _, raw := range raws {
		if _, ok := seen[raw]; ok {
			continue
		}
		seen[raw] = struct{}{}
		out = append(out, raw)
	}
	return out
}
