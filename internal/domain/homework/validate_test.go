package homework

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantErr  error
		wantDate int64
		wantLen  int
	}{
		{
			name:     "empty list is valid",
			body:     `{"homeworks": [], "current_date": 1000}`,
			wantDate: 1000,
		},
		{
			name:     "records keep order",
			body:     `{"homeworks": [{"homework_name": "hw2", "status": "approved"}, {"homework_name": "hw1", "status": "rejected"}], "current_date": 1700000000}`,
			wantDate: 1700000000,
			wantLen:  2,
		},
		{name: "not an object", body: `[1, 2]`, wantErr: ErrMalformedPayload},
		{name: "missing homeworks", body: `{"current_date": 1000}`, wantErr: ErrEmptyResponse},
		{name: "missing current_date", body: `{"homeworks": []}`, wantErr: ErrEmptyResponse},
		{name: "homeworks not a list", body: `{"homeworks": {}, "current_date": 1000}`, wantErr: ErrMalformedPayload},
		{name: "current_date is a string", body: `{"homeworks": [], "current_date": "1000"}`, wantErr: ErrMalformedPayload},
		{name: "current_date is fractional", body: `{"homeworks": [], "current_date": 10.5}`, wantErr: ErrMalformedPayload},
		{name: "first record not an object", body: `{"homeworks": ["hw1"], "current_date": 1000}`, wantErr: ErrMalformedPayload},
		{
			name:     "trailing entry not checked",
			body:     `{"homeworks": [{"homework_name": "hw1", "status": "approved"}, "junk"], "current_date": 1000}`,
			wantDate: 1000,
			wantLen:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := CheckResponse(decode(t, tt.body))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDate, batch.CurrentDate)
			assert.Len(t, batch.Homeworks, tt.wantLen)
		})
	}
}

func TestCheckResponse_PreservesFirstRecord(t *testing.T) {
	batch, err := CheckResponse(decode(t, `{"homeworks": [{"homework_name": "first", "status": "reviewing"}, {"homework_name": "second", "status": "approved"}], "current_date": 5}`))
	require.NoError(t, err)

	first, ok := batch.First()
	require.True(t, ok)
	name, ok := first.Name()
	assert.True(t, ok)
	assert.Equal(t, "first", name)
}

func TestCheckResponse_NativeValues(t *testing.T) {
	batch, err := CheckResponse(map[string]any{
		"homeworks":    []any{},
		"current_date": 42,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), batch.CurrentDate)
	_, ok := batch.First()
	assert.False(t, ok)

	_, err = CheckResponse(nil)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
