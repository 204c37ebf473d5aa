package models

// IconSpec is one rasterized icon: a square bitmap of Size pixels written as Filename
type IconSpec struct {
	Size     int    `yaml:"size" json:"size" parquet:"size"`
	Filename string `yaml:"filename" json:"filename" parquet:"filename"`
}

// AssetSpec is one remotely generated photograph
type AssetSpec struct {
	Filename string `yaml:"filename" json:"filename" parquet:"filename"`
	Prompt   string `yaml:"prompt" json:"prompt" parquet:"prompt"`
}

// JobStatus is the status string reported by the prediction service
type JobStatus string

const (
	StatusStarting   JobStatus = "starting"
	StatusProcessing JobStatus = "processing"
	StatusSucceeded  JobStatus = "succeeded"
	StatusFailed     JobStatus = "failed"
	StatusCanceled   JobStatus = "canceled"
)

// Terminal reports whether polling should stop. Only succeeded and failed
// end a job; every other status (including unknown ones) means still working.
func (s JobStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// GenerationJob tracks one remote prediction from submission to a terminal state
type GenerationJob struct {
	ID     string    `json:"id"`
	Status JobStatus `json:"status"`
	Output []string  `json:"output,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// FirstOutput returns the first output URL, if any
func (j *GenerationJob) FirstOutput() (string, bool) {
	if j == nil || len(j.Output) == 0 || j.Output[0] == "" {
		return "", false
	}
	return j.Output[0], true
}

// FailureReason returns the service-reported error or a generic default
func (j *GenerationJob) FailureReason() string {
	if j == nil || j.Error == "" {
		return "unknown error"
	}
	return j.Error
}
