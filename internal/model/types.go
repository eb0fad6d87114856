package model

// ClipRequest asks for a series of short clips from one source video.
// SourceURL is already normalized; Offsets are seconds into the video,
// in the order they appeared in the input cell.
type ClipRequest struct {
	SourceURL string    `json:"source_url"`
	Offsets   []float64 `json:"offsets"`
}

// RowJob is one line of the input table. SourceLine is the 1-based line
// number in the CSV, kept for log context; a blank line yields a RowJob
// with no requests.
type RowJob struct {
	SourceLine int           `json:"source_line"`
	Requests   []ClipRequest `json:"requests"`
}

func (r RowJob) Empty() bool {
	return len(r.Requests) == 0
}

func (r RowJob) ClipCount() int {
	n := 0
	for _, req := range r.Requests {
		n += len(req.Offsets)
	}
	return n
}

// JobTable is the parsed input table, one RowJob per CSV row (blank rows
// included as empty RowJobs). Built once per run, never mutated.
type JobTable struct {
	Rows []RowJob `json:"rows"`
}

// NonEmptyRows returns the rows that carry work, in table order.
func (t JobTable) NonEmptyRows() []RowJob {
	out := make([]RowJob, 0, len(t.Rows))
	for _, r := range t.Rows {
		if !r.Empty() {
			out = append(out, r)
		}
	}
	return out
}

// TotalClips is the precomputed progress denominator: the sum of offset
// counts across all surviving requests.
func (t JobTable) TotalClips() int {
	n := 0
	for _, r := range t.Rows {
		n += r.ClipCount()
	}
	return n
}

// RowResult records how one non-empty row fared during execution.
type RowResult struct {
	Row            int    `json:"row"`
	SourceLine     int    `json:"source_line"`
	Status         string `json:"status"`
	ClipsRequested int    `json:"clips_requested"`
	ClipsProduced  int    `json:"clips_produced"`
	ClipsFailed    int    `json:"clips_failed"`
	LastError      string `json:"last_error,omitempty"`
}

// RunSummary is the canonical record of a finished batch.
type RunSummary struct {
	SchemaVersion       int         `json:"schema_version"`
	StartedAt           string      `json:"started_at"`
	FinishedAt          string      `json:"finished_at"`
	InputCSV            string      `json:"input_csv"`
	OutputDir           string      `json:"output_dir"`
	Strategy            string      `json:"strategy"`
	RowsTotal           int         `json:"rows_total"`
	RowsCompleted       int         `json:"rows_completed"`
	RowsPartiallyFailed int         `json:"rows_partially_failed"`
	RowsCanceled        int         `json:"rows_canceled"`
	ClipsRequested      int         `json:"clips_requested"`
	ClipsProduced       int         `json:"clips_produced"`
	ClipsFailed         int         `json:"clips_failed"`
	Canceled            bool        `json:"canceled"`
	Rows                []RowResult `json:"rows"`
}
