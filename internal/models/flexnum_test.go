package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexInt64_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"number", `128000`, 128000, false},
		{"string", `"128000"`, 128000, false},
		{"negative string", `"-5"`, -5, false},
		{"float number", `1.5`, 0, true},
		{"non-numeric string", `"abc"`, 0, true},
		{"empty string", `""`, 0, true},
		{"null", `null`, 0, true},
		{"bool", `true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexInt64
			err := json.Unmarshal([]byte(tt.input), &f)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Int64())
		})
	}
}

func TestFlexFloat64_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"number", `0.7`, 0.7, false},
		{"integer number", `1`, 1.0, false},
		{"string", `"1.5"`, 1.5, false},
		{"integer string", `"3"`, 3.0, false},
		{"non-numeric string", `"warm"`, 0, true},
		{"empty string", `""`, 0, true},
		{"null", `null`, 0, true},
		{"object", `{}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexFloat64
			err := json.Unmarshal([]byte(tt.input), &f)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Float64())
		})
	}
}

func TestFlexTypes_MarshalNormalizes(t *testing.T) {
	var mc ModelConfig
	require.NoError(t, json.Unmarshal([]byte(`{"contextWindow":"128000","temperature":"1.5"}`), &mc))

	out, err := json.Marshal(mc)
	require.NoError(t, err)

	// String numerals come back out as JSON numbers.
	assert.JSONEq(t, `{"contextWindow":128000,"temperature":1.5}`, string(out))
}
