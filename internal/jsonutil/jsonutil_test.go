package jsonutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
}

func TestMarshalUnmarshal(t *testing.T) {
	data, err := MarshalJSON(sample{Name: "gdrive", Success: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"gdrive","success":true}`, string(data))

	got, err := UnmarshalJSON[sample](data)
	require.NoError(t, err)
	assert.Equal(t, "gdrive", got.Name)
	assert.True(t, got.Success)
}

func TestMarshalJSON_Error(t *testing.T) {
	_, err := MarshalJSON(make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal to JSON")
}

func TestUnmarshalJSON_Error(t *testing.T) {
	_, err := UnmarshalJSON[sample]([]byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal JSON")
}

func TestEncodeIndented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeIndented(&buf, map[string]string{"pattern": "<tmp>&"}))
	assert.Equal(t, "{\n  \"pattern\": \"<tmp>&\"\n}\n", buf.String())
}
