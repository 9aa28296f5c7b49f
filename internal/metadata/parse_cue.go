// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	_ "embed"
	"errors"

	"github.com/featgen/featgen/pkg/cueutil"
)

//go:embed feature_schema.cue
var featureSchema string

func parseCUE(data []byte, displayPath string) (*document, error) {
	result, err := cueutil.ParseAndDecodeString[document](
		featureSchema,
		data,
		"#Feature",
		cueutil.WithFilename(displayPath),
	)
	if err != nil {
		var verr *cueutil.ValidationError
		if errors.As(err, &verr) {
			return nil, &Error{File: displayPath, Field: verr.CUEPath, Detail: verr.Detail(), Err: err}
		}
		return nil, &Error{File: displayPath, Detail: err.Error(), Err: err}
	}
	return result.Value, nil
}
