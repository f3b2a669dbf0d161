package model

// Category run statuses reported in a RunSummary.
const (
	CategoryOK      = "ok"
	CategoryFailed  = "failed"
	CategorySkipped = "skipped"
)

// CategorySummary reports what a single category contributed to a run.
type CategorySummary struct {
	Category string `json:"category" yaml:"category"`
	Found    int    `json:"found" yaml:"found"`
	Added    int    `json:"added" yaml:"added"`
	Status   string `json:"status" yaml:"status"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// RunSummary is built fresh per request and never persisted.
type RunSummary struct {
	RunID       string            `json:"run_id" yaml:"run_id"`
	Status      string            `json:"status" yaml:"status"`
	SheetName   string            `json:"sheetName" yaml:"sheet_name"`
	TotalFound  int               `json:"total_found" yaml:"total_found"`
	TotalAdded  int               `json:"total_added" yaml:"total_added"`
	PerCategory []CategorySummary `json:"per_category" yaml:"per_category"`
	Results     []OutputRow       `json:"results,omitempty" yaml:"results,omitempty"`
}
