package prompt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberAcceptsNumbersAndNumericStrings(t *testing.T) {
	var out SentimentResponse
	raw := `{"overall":"Positive","score":"0.8","positive":75,"neutral":" 20 ","negative":null,"confidence":"1e-1"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &out))

	assert.Equal(t, Number(0.8), out.Score)
	assert.Equal(t, Number(75), out.Positive)
	assert.Equal(t, Number(20), out.Neutral)
	assert.Equal(t, Number(0), out.Negative)
	assert.Equal(t, Number(0.1), out.Confidence)
}

func TestNumberRejectsText(t *testing.T) {
	var out KeywordsResponse
	assert.Error(t, json.Unmarshal([]byte(`{"keywords":[{"text":"go","confidence":"high"}]}`), &out))
	assert.Error(t, json.Unmarshal([]byte(`{"keywords":[{"text":"go","confidence":"NaN"}]}`), &out))
}
