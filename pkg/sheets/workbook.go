package sheets

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Workbook implements Client on top of a local .xlsx file. Every mutating call
// saves the file, so the workbook on disk always reflects completed writes.
type Workbook struct {
	mu   sync.Mutex
	path string
	file *xlsx.File
}

// OpenWorkbook opens path, or starts an empty workbook that is created on the
// first write when the file does not exist yet.
func OpenWorkbook(path string) (*Workbook, error) {
	if path == "" {
		return nil, eris.New("sheets: workbook path is required")
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return &Workbook{path: path, file: xlsx.NewFile()}, nil
	}
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sheets: open workbook %s", path)
	}
	return &Workbook{path: path, file: f}, nil
}

// SheetTitles lists tab titles in workbook order.
func (w *Workbook) SheetTitles(_ context.Context) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	titles := make([]string, 0, len(w.file.Sheets))
	for _, s := range w.file.Sheets {
		titles = append(titles, s.Name)
	}
	return titles, nil
}

// AddSheet creates an empty tab.
func (w *Workbook) AddSheet(_ context.Context, title string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.file.Sheet[title]; ok {
		return eris.Errorf("sheets: tab %q already exists", title)
	}
	if _, err := w.file.AddSheet(title); err != nil {
		return eris.Wrapf(err, "sheets: add tab %q", title)
	}
	return w.save()
}

// GetValues returns the cells inside rng. Trailing empty cells and rows are
// trimmed, matching what the Sheets API returns.
func (w *Workbook) GetValues(_ context.Context, rng string) ([][]string, error) {
	r, err := ParseA1(rng)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	sheet, err := w.sheet(r.Title)
	if err != nil {
		return nil, err
	}

	first := max(r.FromRow, 1) - 1
	last := len(sheet.Rows)
	if r.ToRow > 0 && r.ToRow < last {
		last = r.ToRow
	}
	firstCol := max(r.FromCol, 1) - 1

	var out [][]string
	for i := first; i < last; i++ {
		row := sheet.Rows[i]
		var cells []string
		if row != nil {
			lastCol := len(row.Cells)
			if r.ToCol > 0 && r.ToCol < lastCol {
				lastCol = r.ToCol
			}
			for j := firstCol; j < lastCol; j++ {
				cells = append(cells, row.Cells[j].String())
			}
		}
		out = append(out, trimTrailing(cells))
	}

	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

// UpdateValues overwrites cells starting at the top-left corner of rng.
func (w *Workbook) UpdateValues(_ context.Context, rng string, values [][]string) error {
	r, err := ParseA1(rng)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	sheet, err := w.sheet(r.Title)
	if err != nil {
		return err
	}

	firstRow := max(r.FromRow, 1) - 1
	firstCol := max(r.FromCol, 1) - 1
	for i, vals := range values {
		for len(sheet.Rows) <= firstRow+i {
			sheet.AddRow()
		}
		row := sheet.Rows[firstRow+i]
		for j, v := range vals {
			for len(row.Cells) <= firstCol+j {
				row.AddCell()
			}
			row.Cells[firstCol+j].SetString(v)
		}
	}
	return w.save()
}

// AppendValues adds rows after the last non-empty row of the tab.
func (w *Workbook) AppendValues(_ context.Context, rng string, values [][]string) (int, error) {
	r, err := ParseA1(rng)
	if err != nil {
		return 0, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	sheet, err := w.sheet(r.Title)
	if err != nil {
		return 0, err
	}

	next := len(sheet.Rows)
	for next > 0 && rowEmpty(sheet.Rows[next-1]) {
		next--
	}

	firstCol := max(r.FromCol, 1) - 1
	for i, vals := range values {
		var row *xlsx.Row
		if next+i < len(sheet.Rows) && sheet.Rows[next+i] != nil {
			row = sheet.Rows[next+i]
		} else {
			row = sheet.AddRow()
		}
		for j, v := range vals {
			for len(row.Cells) <= firstCol+j {
				row.AddCell()
			}
			row.Cells[firstCol+j].SetString(v)
		}
	}
	if err := w.save(); err != nil {
		return 0, err
	}
	return len(values), nil
}

func (w *Workbook) sheet(title string) (*xlsx.Sheet, error) {
	s, ok := w.file.Sheet[title]
	if !ok {
		return nil, eris.Errorf("sheets: tab %q not found", title)
	}
	return s, nil
}

func (w *Workbook) save() error {
	if err := w.file.Save(w.path); err != nil {
		return eris.Wrapf(err, "sheets: save workbook %s", w.path)
	}
	return nil
}

func rowEmpty(row *xlsx.Row) bool {
	if row == nil {
		return true
	}
	for _, c := range row.Cells {
		if c.String() != "" {
			return false
		}
	}
	return true
}

func trimTrailing(cells []string) []string {
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	if cells == nil {
		return []string{}
	}
	return cells
}
