package homework

import (
	"encoding/json"
	"fmt"
)

const (
	keyHomeworks   = "homeworks"
	keyCurrentDate = "current_date"
	keyName        = "homework_name"
	keyStatus      = "status"
)

// Record is a single homework entry as returned by the API.
// Fields are kept untyped so absence and type mismatches can be reported precisely.
type Record map[string]any

// Name returns homework_name when it is present and a string.
func (r Record) Name() (string, bool) {
	name, ok := r[keyName].(string)
	return name, ok
}

// Status returns the raw status value, or "" when it is absent or not a string.
func (r Record) Status() Status {
	s, _ := r[keyStatus].(string)
	return Status(s)
}

// Batch is the validated content of one API response.
// Homeworks keeps the raw entries in API order; only the first one is checked.
type Batch struct {
	Homeworks   []any
	CurrentDate int64
}

// First returns the most recent homework record, if there is one.
func (b Batch) First() (Record, bool) {
	if len(b.Homeworks) == 0 {
		return nil, false
	}
	rec, ok := b.Homeworks[0].(map[string]any)
	return Record(rec), ok
}

// integer accepts only integral JSON numbers and Go integer types.
func integer(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Int64()
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return 0, fmt.Errorf("got %T", v)
	}
}
