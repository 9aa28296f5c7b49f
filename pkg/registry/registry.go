// SPDX-License-Identifier: MPL-2.0

package registry

import "slices"

// ArtifactIsVersion1 is referenced by generated artifacts. Artifacts produced
// for an incompatible contract reference a different constant and fail to
// compile against this package.
const ArtifactIsVersion1 = true

// ImportPath is the import path generated artifacts and feature modules use
// for this package.
const ImportPath = "github.com/featgen/featgen/pkg/registry"

type (
	// Feature summarizes one discovered feature.
	Feature struct {
		ID          string
		Title       string
		Description string
		// Dir is the feature directory relative to the project root.
		Dir    string
		Routes []Route
	}

	// Route is one path served by a feature.
	Route struct {
		Path    string
		Title   string
		Primary bool
	}

	// NavEntry is one resolved navigation menu entry. Navigation slices are
	// emitted in their final order and are rendered as-is.
	NavEntry struct {
		FeatureID string
		Label     string
		Path      string
		Order     int
		// Ordered is false when the feature declared no explicit order.
		Ordered bool
	}
)

// Lookup returns the feature with the given id.
func Lookup(features []Feature, id string) (Feature, bool) {
	i := slices.IndexFunc(features, func(f Feature) bool { return f.ID == id })
	if i < 0 {
		return Feature{}, false
	}
	return features[i], true
}

// PrimaryRoute returns the feature's primary route, if it has one.
func (f Feature) PrimaryRoute() (Route, bool) {
	i := slices.IndexFunc(f.Routes, func(r Route) bool { return r.Primary })
	if i < 0 {
		return Route{}, false
	}
	return f.Routes[i], true
}
