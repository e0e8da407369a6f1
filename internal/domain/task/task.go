package task

import "encoding/json"

// Stream task types, in the order their streams are created
var TaskTypes = []string{
	(&ReindexTask{}).TaskType(),
	(&ReindexRetryTask{}).TaskType(),
}

type Task interface {
	TaskType() string
	TaskValue() ([]byte, error)
}

// DefaultTaskValue provides a common implementation for TaskValue
func DefaultTaskValue(task interface{}) ([]byte, error) {
	return json.Marshal(task)
}

// UnmarshalTask decodes a task payload. T is a pointer type such as *ReindexTask.
func UnmarshalTask[T Task](data []byte) (T, error) {
	var t T
	err := json.Unmarshal(data, &t)
	return t, err
}
