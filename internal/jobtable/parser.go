package jobtable

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"yt-clip-batcher/internal/model"
)

// ParseError marks one discarded URL/timestamp pair. It is row-local:
// the table parse always continues past it.
type ParseError struct {
	Line  int    // 1-based CSV line
	Cell  int    // 0-based cell index of the offending timestamp cell
	Token string // the token that failed to parse
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d cell %d: token %q: %v", e.Line, e.Cell, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads the CSV dialect into a JobTable. Cells at even index are
// URLs, odd-index cells are semicolon-joined timestamp lists; an odd
// trailing cell has no timestamp partner and is ignored. A pair is
// discarded when either trimmed cell is blank, and when any of its
// timestamp tokens fails to parse (recorded as a ParseError).
//
// Lines are split before CSV decoding: encoding/csv swallows blank
// lines, and a blank line here must still yield an empty RowJob so row
// positions survive.
func Parse(r io.Reader) (model.JobTable, []*ParseError, error) {
	var table model.JobTable
	var issues []*ParseError

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimRight(scanner.Text(), "\r")

		row := model.RowJob{SourceLine: line}
		if strings.TrimSpace(raw) == "" {
			table.Rows = append(table.Rows, row)
			continue
		}

		record, err := csv.NewReader(strings.NewReader(raw)).Read()
		if err == io.EOF {
			table.Rows = append(table.Rows, row)
			continue
		}
		if err != nil {
			return model.JobTable{}, nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if rowBlank(record) {
			table.Rows = append(table.Rows, row)
			continue
		}

		for i := 0; i+1 < len(record); i += 2 {
			rawURL := strings.TrimSpace(record[i])
			rawTimestamps := strings.TrimSpace(record[i+1])
			if rawURL == "" || rawTimestamps == "" {
				continue
			}

			offsets := make([]float64, 0, 4)
			pairOK := true
			for _, tok := range SplitTimestampCell(rawTimestamps) {
				v, err := ParseTimestamp(tok)
				if err != nil {
					issues = append(issues, &ParseError{Line: line, Cell: i + 1, Token: tok, Err: err})
					pairOK = false
					break
				}
				offsets = append(offsets, v)
			}
			if !pairOK || len(offsets) == 0 {
				continue
			}

			row.Requests = append(row.Requests, model.ClipRequest{
				SourceURL: NormalizeURL(rawURL),
				Offsets:   offsets,
			})
		}

		table.Rows = append(table.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return model.JobTable{}, nil, fmt.Errorf("read csv: %w", err)
	}

	return table, issues, nil
}

// ParseFile is Parse over a file on disk. An unreadable input file is
// fatal for the whole run.
func ParseFile(path string) (model.JobTable, []*ParseError, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.JobTable{}, nil, fmt.Errorf("open input csv %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

func rowBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
