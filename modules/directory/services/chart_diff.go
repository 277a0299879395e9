package services

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/wI2L/jsondiff"
)

// ChartDiff returns the RFC 6902 patch turning a previously published chart
// into the current one. Identical charts give an empty array.
func ChartDiff(before, after []byte) ([]byte, error) {
	patch, err := jsondiff.CompareJSON(before, after)
	if err != nil {
		return nil, errors.Wrap(err, "compare charts")
	}
	if len(patch) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(patch)
}
