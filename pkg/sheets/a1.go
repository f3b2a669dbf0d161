package sheets

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ColumnLetter converts a 1-based column number to its A1 letters: 1→A, 26→Z, 27→AA.
func ColumnLetter(n int) string {
	if n < 1 {
		return ""
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// ColumnIndex is the inverse of ColumnLetter. It returns 0 for invalid input.
func ColumnIndex(letters string) int {
	n := 0
	for _, r := range strings.ToUpper(letters) {
		if r < 'A' || r > 'Z' {
			return 0
		}
		n = n*26 + int(r-'A'+1)
	}
	return n
}

// QuoteTitle quotes a tab title for use in an A1 range.
func QuoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// A1Range builds a range such as 'Bogotá'!A2:L. A toRow of 0 leaves the range
// open-ended downwards.
func A1Range(title string, fromCol, fromRow, toCol, toRow int) string {
	start := ColumnLetter(fromCol) + strconv.Itoa(fromRow)
	end := ColumnLetter(toCol)
	if toRow > 0 {
		end += strconv.Itoa(toRow)
	}
	return QuoteTitle(title) + "!" + start + ":" + end
}

// Range is a parsed A1 range. Zero values mean unbounded.
type Range struct {
	Title   string
	FromCol int
	FromRow int
	ToCol   int
	ToRow   int
}

// ParseA1 parses the subset of A1 notation produced by A1Range, plus bare tab
// titles and column-only spans such as 'Tab'!A:L.
func ParseA1(rng string) (Range, error) {
	var r Range
	title, cells := rng, ""
	if i := strings.LastIndex(rng, "!"); i >= 0 {
		title, cells = rng[:i], rng[i+1:]
	}
	if strings.HasPrefix(title, "'") {
		if len(title) < 2 || !strings.HasSuffix(title, "'") {
			return r, eris.Errorf("sheets: malformed range %q", rng)
		}
		title = strings.ReplaceAll(title[1:len(title)-1], "''", "'")
	}
	if title == "" {
		return r, eris.Errorf("sheets: range %q has no tab title", rng)
	}
	r.Title = title
	if cells == "" {
		return r, nil
	}

	from, to, _ := strings.Cut(cells, ":")
	var err error
	if r.FromCol, r.FromRow, err = parseCell(from); err != nil {
		return r, eris.Wrapf(err, "sheets: parse range %q", rng)
	}
	if to == "" {
		r.ToCol, r.ToRow = r.FromCol, r.FromRow
		return r, nil
	}
	if r.ToCol, r.ToRow, err = parseCell(to); err != nil {
		return r, eris.Wrapf(err, "sheets: parse range %q", rng)
	}
	return r, nil
}

func parseCell(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && (ref[i] >= 'A' && ref[i] <= 'Z' || ref[i] >= 'a' && ref[i] <= 'z') {
		i++
	}
	if i > 0 {
		col = ColumnIndex(ref[:i])
	}
	if i < len(ref) {
		row, err = strconv.Atoi(ref[i:])
		if err != nil || row < 1 {
			return 0, 0, eris.Errorf("invalid cell reference %q", ref)
		}
	}
	if col == 0 && row == 0 {
		return 0, 0, eris.Errorf("invalid cell reference %q", ref)
	}
	return col, row, nil
}
