package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskTypes(t *testing.T) {
	assert.Equal(t, []string{"ReindexTask", "ReindexRetryTask"}, TaskTypes)
}

func TestUnmarshalTask(t *testing.T) {
	data, err := (&ReindexRetryTask{Source: "dev", RetryCount: 2, Error: "timeout"}).TaskValue()
	require.NoError(t, err)

	got, err := UnmarshalTask[*ReindexRetryTask](data)
	require.NoError(t, err)
	assert.Equal(t, &ReindexRetryTask{Source: "dev", RetryCount: 2, Error: "timeout"}, got)

	_, err = UnmarshalTask[*ReindexTask]([]byte("{"))
	assert.Error(t, err)
}
