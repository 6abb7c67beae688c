package homework

import "fmt"

// CheckResponse validates a decoded API payload.
//
// A missing homeworks or current_date key is reported as ErrEmptyResponse; a value of the
// wrong type is ErrMalformedPayload. An empty homework list is valid. Only the first entry is
// read downstream, so only the first entry has to be an object.
func CheckResponse(raw any) (Batch, error) {
	payload, ok := raw.(map[string]any)
	if !ok {
		return Batch{}, fmt.Errorf("%w: response is %T, not an object", ErrMalformedPayload, raw)
	}

	rawHomeworks, ok := payload[keyHomeworks]
	if !ok {
		return Batch{}, fmt.Errorf("%w: no %q key", ErrEmptyResponse, keyHomeworks)
	}
	rawDate, ok := payload[keyCurrentDate]
	if !ok {
		return Batch{}, fmt.Errorf("%w: no %q key", ErrEmptyResponse, keyCurrentDate)
	}

	list, ok := rawHomeworks.([]any)
	if !ok {
		return Batch{}, fmt.Errorf("%w: %q is %T, not a list", ErrMalformedPayload, keyHomeworks, rawHomeworks)
	}
	currentDate, err := integer(rawDate)
	if err != nil {
		return Batch{}, fmt.Errorf("%w: %q is not an integer: %v", ErrMalformedPayload, keyCurrentDate, err)
	}

	if len(list) > 0 {
		if _, ok := list[0].(map[string]any); !ok {
			return Batch{}, fmt.Errorf("%w: %s[0] is %T, not an object", ErrMalformedPayload, keyHomeworks, list[0])
		}
	}
	return Batch{Homeworks: list, CurrentDate: currentDate}, nil
}
