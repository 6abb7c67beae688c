package homework

import "fmt"

// ParseStatus builds the user-facing message for a homework record.
func (v Verdicts) ParseStatus(rec Record) (string, error) {
	if _, present := rec[keyName]; !present {
		return "", fmt.Errorf("%w: no %q key", ErrMissingField, keyName)
	}
	name, ok := rec.Name()
	if !ok {
		return "", fmt.Errorf("%w: %q is %T, not a string", ErrMissingField, keyName, rec[keyName])
	}

	status := rec.Status()
	verdict, ok := v.Lookup(status)
	if !ok {
		return "", fmt.Errorf("%w: %v", ErrUnknownStatus, rec[keyStatus])
	}
	return fmt.Sprintf(statusChangedTemplate, name, verdict), nil
}
