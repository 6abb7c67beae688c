package homework

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	verdicts := DefaultVerdicts()

	tests := []struct {
		status Status
		want   string
	}{
		{StatusApproved, `Изменился статус проверки работы "hw1". Работа проверена: ревьюеру всё понравилось. Ура!`},
		{StatusReviewing, `Изменился статус проверки работы "hw1". Работа взята на проверку ревьюером.`},
		{StatusRejected, `Изменился статус проверки работы "hw1". Работа проверена: у ревьюера есть замечания.`},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			msg, err := verdicts.ParseStatus(Record{"homework_name": "hw1", "status": string(tt.status)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestParseStatus_Errors(t *testing.T) {
	verdicts := DefaultVerdicts()

	tests := []struct {
		name    string
		record  Record
		wantErr error
	}{
		{"missing name", Record{"status": "approved"}, ErrMissingField},
		{"name not a string", Record{"homework_name": 7, "status": "approved"}, ErrMissingField},
		{"missing status", Record{"homework_name": "hw1"}, ErrUnknownStatus},
		{"unknown status", Record{"homework_name": "hw1", "status": "lost"}, ErrUnknownStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := verdicts.ParseStatus(tt.record)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, msg)
		})
	}
}

func TestNewVerdicts_CopiesTable(t *testing.T) {
	table := map[Status]string{"done": "Готово."}
	verdicts := NewVerdicts(table)
	table["done"] = "changed"
	table["extra"] = "extra"

	text, ok := verdicts.Lookup("done")
	assert.True(t, ok)
	assert.Equal(t, "Готово.", text)

	_, ok = verdicts.Lookup("extra")
	assert.False(t, ok)

	msg, err := verdicts.ParseStatus(Record{"homework_name": "x", "status": "done"})
	require.NoError(t, err)
	assert.Equal(t, `Изменился статус проверки работы "x". Готово.`, msg)
}

func TestEndpointError_Unwraps(t *testing.T) {
	err := &EndpointError{StatusCode: 500, Reason: "Internal Server Error", Body: "oops", Params: "from_date=1"}
	assert.ErrorIs(t, err, ErrEndpointUnavailable)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "from_date=1")
}

func TestEndpointError_TruncatesBody(t *testing.T) {
	body := strings.Repeat("x", 4096)
	err := &EndpointError{StatusCode: 502, Reason: "Bad Gateway", Body: body, Params: "from_date=1"}

	msg := err.Error()
	assert.Contains(t, msg, strings.Repeat("x", maxBodyInError)+"…")
	assert.NotContains(t, msg, strings.Repeat("x", maxBodyInError+1))
	assert.Less(t, utf8.RuneCountInString(msg), maxBodyInError+100)
	assert.Equal(t, body, err.Body)
}

func TestEndpointError_ShortBodyUntouched(t *testing.T) {
	err := &EndpointError{StatusCode: 500, Body: "тело ответа"}
	assert.True(t, strings.HasSuffix(err.Error(), "body: тело ответа"))
}
