// SPDX-License-Identifier: MPL-2.0

package feature

const (
	// ModuleFileName is the module-composition file every feature directory carries.
	ModuleFileName = "module.go"
	// ModuleFuncName is the function module.go must declare: func Module() registry.Module.
	ModuleFuncName = "Module"
)

type (
	// Descriptor is the typed shape of one discovered feature. Descriptors are
	// built fresh by discovery on every pass and are not mutated afterwards.
	Descriptor struct {
		// ID is the feature identifier; unique across the discovered set.
		ID string `json:"id"`
		// Title is the human-readable feature name.
		Title string `json:"title"`
		// Description is optional free text.
		Description string `json:"description,omitempty"`
		// Routes lists the paths the feature serves. Paths are unique across all features.
		Routes []Route `json:"routes"`
		// Nav is the optional navigation entry, linked to the unique primary route.
		Nav *Nav `json:"nav,omitempty"`
		// SourceLocation is the slash-separated metadata file path relative to the project root.
		SourceLocation string `json:"source"`
		// Module references the feature's module-composition unit.
		Module ModuleRef `json:"module"`
	}

	// Route is one path served by a feature.
	Route struct {
		Path    string `json:"path"`
		Title   string `json:"title"`
		Primary bool   `json:"primary,omitempty"`
	}

	// Nav declares a navigation menu entry for the feature's primary route.
	Nav struct {
		Label string `json:"label"`
		// Order sorts entries ascending; nil sorts after every entry that has one.
		Order *int `json:"order,omitempty"`
	}

	// ModuleRef is a stable reference to a feature's module.go, re-imported by
	// the aggregator artifact.
	ModuleRef struct {
		// Dir is the slash-separated feature directory relative to the project root.
		Dir string `json:"dir"`
		// ImportPath is the Go import path of the feature package.
		ImportPath string `json:"import_path"`
		// PackageName is the package clause of module.go.
		PackageName string `json:"package"`
		// File is the slash-separated module.go path relative to the project root.
		File string `json:"file"`
	}

	// NavEntry is a resolved (label, path, order) navigation triple.
	NavEntry struct {
		FeatureID string `json:"feature"`
		Label     string `json:"label"`
		Path      string `json:"path"`
		Order     *int   `json:"order,omitempty"`
	}

	// Navigation is the ordered navigation model. Its order is final: consumers
	// render it as-is.
	Navigation []NavEntry
)

// PrimaryRoutes returns the routes marked primary, in declaration order.
func (d *Descriptor) PrimaryRoutes() []Route {
	var out []Route
	for _, r := range d.Routes {
		if r.Primary {
			out = append(out, r)
		}
	}
	return out
}

// HasOrder reports whether the entry declares an explicit order.
func (e NavEntry) HasOrder() bool { return e.Order != nil }

// IntPtr returns a pointer to v. Used for optional orders.
func IntPtr(v int) *int { return &v }
