package task

type ReindexRetryTask struct {
	Source     string `json:"source"`      // catalog source that failed
	RetryCount int    `json:"retry_count"` // Number of times this source has been retried
	Error      string `json:"error"`       // Error message from the original failure
}

func (t *ReindexRetryTask) TaskType() string {
	return "ReindexRetryTask"
}

func (t *ReindexRetryTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
