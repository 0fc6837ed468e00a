package utils

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadAllRows parses a .csv or .xlsx file into raw rows (header not yet detected).
func ReadAllRows(content []byte, ext string) ([][]string, error) {
	switch ext {
	case ".csv":
		r := csv.NewReader(bytes.NewReader(content))
		r.FieldsPerRecord = -1 // allow variable columns
		return r.ReadAll()
	case ".xlsx":
		f, err := excelize.OpenReader(bytes.NewReader(content))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return [][]string{}, nil
		}
		rs, err := f.Rows(sheets[0])
		if err != nil {
			return nil, err
		}
		defer rs.Close()
		rows := [][]string{}
		for rs.Next() {
			r, err := rs.Columns()
			if err != nil {
				return nil, err
			}
			rows = append(rows, r)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
}

// DetectHeaderRow picks, among the first five rows, the one with the highest
// share of cells containing letters. -1 means no row qualifies.
func DetectHeaderRow(rows [][]string) int {
	headerIdx := -1
	bestScore := -1.0
	for i, r := range rows {
		if i > 4 {
			break
		}
		nonEmpty, alpha := 0, 0
		for _, v := range r {
			t := strings.TrimSpace(v)
			if t == "" {
				continue
			}
			nonEmpty++
			if hasLetter(t) {
				alpha++
			}
		}
		if nonEmpty == 0 {
			continue
		}
		score := float64(alpha) / float64(nonEmpty)
		if score >= 0.5 && score > bestScore {
			bestScore = score
			headerIdx = i
		}
	}
	return headerIdx
}

func hasLetter(s string) bool {
	for _, ch := range s {
		if (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') {
			return true
		}
	}
	return false
}

func NormalizeHeaders(rows [][]string, headerIdx int) []string {
	if headerIdx < 0 || headerIdx >= len(rows) {
		return nil
	}
	raw := rows[headerIdx]
	headers := make([]string, len(raw))
	for i, v := range raw {
		t := strings.TrimSpace(v)
		if t == "" {
			t = "Col" + strconv.Itoa(i)
		}
		headers[i] = t
	}
	return headers
}

// PickColumn returns the first header matching one of keywords: exact
// (case-insensitive) first, then substring, then a close spelling.
func PickColumn(headers []string, keywords []string) string {
	for _, k := range keywords {
		for _, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), k) {
				return h
			}
		}
	}
	for _, k := range keywords {
		lk := strings.ToLower(k)
		for _, h := range headers {
			if strings.Contains(strings.ToLower(h), lk) {
				return h
			}
		}
	}
	for _, k := range keywords {
		lk := strings.ToLower(k)
		for _, h := range headers {
			if len(lk) >= 4 && editDistance(strings.ToLower(strings.TrimSpace(h)), lk) <= 1 {
				return h
			}
		}
	}
	return ""
}

// Record is one data row keyed by header. Row is the 1-based row number in the sheet.
type Record struct {
	Row    int
	Values map[string]string
}

// BuildRecords maps every non-blank row below the header to its header names.
func BuildRecords(rows [][]string, headerIdx int, headers []string) []Record {
	if headerIdx < 0 || headerIdx >= len(rows) {
		return nil
	}
	out := make([]Record, 0, len(rows)-headerIdx-1)
	for i := headerIdx + 1; i < len(rows); i++ {
		r := rows[i]
		m := make(map[string]string, len(headers))
		empty := true
		for j := 0; j < len(headers); j++ {
			var v string
			if j < len(r) {
				v = strings.TrimSpace(r[j])
			}
			if v != "" {
				empty = false
			}
			m[headers[j]] = v
		}
		if !empty {
			out = append(out, Record{Row: i + 1, Values: m})
		}
	}
	return out
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[lb]
}

// Workbook is a single-sheet spreadsheet under construction.
type Workbook struct {
	f     *excelize.File
	sheet string
	row   int
}

// NewWorkbook starts a workbook whose only sheet is named sheet.
func NewWorkbook(sheet string) (*Workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}
	return &Workbook{f: f, sheet: sheet}, nil
}

// AppendRow writes values to the next row.
func (w *Workbook) AppendRow(values ...any) error {
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	return w.f.SetSheetRow(w.sheet, cell, &values)
}

// Bold styles an entire written row in bold.
func (w *Workbook) Bold(row int) error {
	style, err := w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	return w.f.SetRowStyle(w.sheet, row, row, style)
}

// Row is the index of the last written row (1-based).
func (w *Workbook) Row() int { return w.row }

// Bytes serializes and closes the workbook.
func (w *Workbook) Bytes() ([]byte, error) {
	defer w.f.Close()
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
