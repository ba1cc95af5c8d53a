package metadata

import (
	"fmt"
	"strings"
)

// MetadataNotFoundError reports that a scene directory holds zero or more
// than one metadata file.
type MetadataNotFoundError struct {
	Dir     string
	Suffix  string
	Matches []string
}

func (e *MetadataNotFoundError) Error() string {
	if len(e.Matches) == 0 {
		return fmt.Sprintf("no metadata file ending in %q found in %s", e.Suffix, e.Dir)
	}
	return fmt.Sprintf("expected one metadata file ending in %q in %s, found %d: %s",
		e.Suffix, e.Dir, len(e.Matches), strings.Join(e.Matches, ", "))
}

// MissingFieldError reports a lookup of a key that is not in the metadata.
type MissingFieldError struct {
	Key string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("metadata field %s not found", e.Key)
}

// MalformedValueError reports a field that could not be parsed as a number.
type MalformedValueError struct {
	Key   string
	Value string
	Err   error
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("metadata field %s: cannot parse %q as a number: %v", e.Key, e.Value, e.Err)
}

func (e *MalformedValueError) Unwrap() error {
	return e.Err
}
