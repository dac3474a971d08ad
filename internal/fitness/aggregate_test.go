package fitness

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateResponseSum(t *testing.T) {
	raw := `{"bucket":[
		{"dataset":[{"point":[{"value":[{"intVal":1200}]},{"value":[{"intVal":800}]}]}]},
		{"dataset":[{"point":[{"value":[{"fpVal":12.5},{"intVal":0}]}]},{"point":[]}]}
	]}`
	var resp aggregateResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	total, points := resp.sum()
	assert.Equal(t, 2012.5, total)
	assert.Equal(t, 3, points)
}

func TestAggregateResponseSum_Empty(t *testing.T) {
	for _, raw := range []string{`{}`, `{"bucket":[]}`, `{"bucket":[{"dataset":[{"point":[]}]}]}`} {
		var resp aggregateResponse
		require.NoError(t, json.Unmarshal([]byte(raw), &resp))
		total, points := resp.sum()
		assert.Zero(t, total, raw)
		assert.Zero(t, points, raw)
	}
}

func TestNewAggregateRequest(t *testing.T) {
	b, err := json.Marshal(newAggregateRequest(StepsDataType, 1000, 86_401_000))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"aggregateBy":[{"dataTypeName":"com.google.step_count.delta"}],
		"bucketByTime":{"durationMillis":86400000},
		"startTimeMillis":1000,
		"endTimeMillis":86401000
	}`, string(b))
}
