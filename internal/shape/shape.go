// Package shape validates the envelope of fetched documents before any
// domain logic touches them.
package shape

import (
	"errors"
	"fmt"

	"cfpipe/internal/dataset"
)

// Envelope validation errors, one per rejection reason.
var (
	ErrNotAMapping         = errors.New("top-level value is not a mapping")
	ErrMissingKey          = errors.New("expected key is missing")
	ErrValueNotList        = errors.New("keyed value is not a list")
	ErrElementsNotMappings = errors.New("list elements are not mappings")
)

// ExpectListUnderKey checks that v is a mapping holding a list of mappings
// under key, and returns the records. Malformed input is classified, never
// panicked on. An empty list is valid.
func ExpectListUnderKey(v any, key string) ([]dataset.Record, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotAMapping
	}

	raw, ok := obj[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, key)
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrValueNotList, key)
	}

	records := make([]dataset.Record, 0, len(list))

	for _, el := range list {
		m, ok := el.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrElementsNotMappings, key)
		}

		records = append(records, dataset.Record(m))
	}

	return records, nil
}

// Reason renders the diagnostics string for a validation outcome. The
// strings are stable; operators grep for them.
func Reason(err error, key string) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotAMapping):
		return "top_level_not_dict"
	case errors.Is(err, ErrMissingKey):
		return "missing_key:" + key
	case errors.Is(err, ErrValueNotList):
		return "value_not_list:" + key
	case errors.Is(err, ErrElementsNotMappings):
		return "list_elements_not_dict:" + key
	default:
		return err.Error()
	}
}
