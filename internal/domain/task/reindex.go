package task

type ReindexTask struct {
	Source string `json:"source"` // catalog source (namespace) to recategorize
	Force  bool   `json:"force"`  // recategorize even if the inputs did not change
}

func (t *ReindexTask) TaskType() string {
	return "ReindexTask"
}

func (t *ReindexTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
