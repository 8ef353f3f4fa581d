package model

type BlobStatus string

const (
	BlobUploaded  BlobStatus = "uploaded"
	BlobCompleted BlobStatus = "completed"
	BlobError     BlobStatus = "error"
)

// Blob is an uploaded file held in memory for the lifetime of the
// process. The converted fields stay empty until a conversion job
// completes the record.
type Blob struct {
	ID                 string
	Filename           string
	Data               []byte
	MediaType          string
	Status             BlobStatus
	Converted          []byte
	ConvertedMediaType string
	DownloadName       string
}

type JobStatus string

const (
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
)

type ItemOutcome string

const (
	ItemCompleted ItemOutcome = "completed"
	ItemError     ItemOutcome = "error"
)

// ItemResult is the per-file outcome of a conversion job. Failures are
// kept as error values and only rendered to a message string when the
// result crosses the API boundary.
type ItemResult struct {
	FileID       string
	Outcome      ItemOutcome
	DownloadName string
	Err          error
}

func (r ItemResult) View() ItemResultView {
	v := ItemResultView{
		FileID:       r.FileID,
		Status:       r.Outcome,
		DownloadName: r.DownloadName,
	}
	if r.Err != nil {
		v.Message = r.Err.Error()
	}
	return v
}

type ItemResultView struct {
	FileID       string      `json:"file_id"`
	Status       ItemOutcome `json:"status"`
	DownloadName string      `json:"download_name,omitempty"`
	Message      string      `json:"message,omitempty"`
}

// Job is a conversion job record in the status registry. It is mutated
// by exactly one background goroutine until it reaches JobCompleted.
type Job struct {
	ID       string
	Status   JobStatus
	Progress int
	Results  []ItemResult
}

// JobView is the poll response shape. Results is always non-nil so an
// empty sequence marshals as [] rather than null.
type JobView struct {
	Status   JobStatus        `json:"status"`
	Progress int              `json:"progress"`
	Results  []ItemResultView `json:"results"`
}
