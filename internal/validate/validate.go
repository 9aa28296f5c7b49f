// SPDX-License-Identifier: MPL-2.0

// Package validate enforces the cross-feature rules over a discovered feature
// set and resolves the navigation model.
//
// Validate is a pure function: it never touches the filesystem and returns
// the same result for the same input. Navigation is only returned when no
// error-severity diagnostic was produced.
package validate

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/featgen/featgen/internal/feature"
)

type (
	// Result is the outcome of validating one discovered set.
	Result struct {
		// Diagnostics holds every rule violation, errors and warnings, in a
		// deterministic order.
		Diagnostics []feature.Diagnostic
		// Navigation is the resolved navigation model. It is nil when any
		// diagnostic is an error, and an empty non-nil slice when the set is
		// valid but declares no navigation.
		Navigation feature.Navigation
	}

	// routeClaim records one route declaring a path.
	routeClaim struct {
		featureID string
		source    string
		field     string
	}

	// navCandidate is a navigation entry with its discovery index as the final tiebreak.
	navCandidate struct {
		entry feature.NavEntry
		index int
	}
)

// Validate checks features for duplicate ids, duplicate route paths, primary
// route cardinality and nav/primary pairing, then builds and orders the
// navigation model.
func Validate(features []feature.Descriptor) Result {
	var diags []feature.Diagnostic
	diags = append(diags, duplicateIDs(features)...)
	diags = append(diags, duplicateRoutePaths(features)...)
	diags = append(diags, primaryRouteRules(features)...)

	nav := buildNavigation(features)
	diags = append(diags, duplicateNavLabels(nav)...)

	if feature.HasErrors(diags) {
		return Result{Diagnostics: diags}
	}
	return Result{Diagnostics: diags, Navigation: nav}
}

// duplicateIDs yields one diagnostic per id declared more than once, listing
// every declaring source location.
func duplicateIDs(features []feature.Descriptor) []feature.Diagnostic {
	var order []string
	sources := make(map[string][]string)
	for i := range features {
		id := features[i].ID
		if _, seen := sources[id]; !seen {
			order = append(order, id)
		}
		sources[id] = append(sources[id], features[i].SourceLocation)
	}

	var diags []feature.Diagnostic
	for _, id := range order {
		locs := sources[id]
		if len(locs) < 2 {
			continue
		}
		msg := fmt.Sprintf("feature id %q is declared %d times: %s", id, len(locs), strings.Join(locs, ", "))
		diags = append(diags, feature.NewError(feature.CodeDuplicateID, id, msg).
			WithFile(locs[0]).
			WithField("id").
			WithRelated(locs...))
	}
	return diags
}

// duplicateRoutePaths yields one diagnostic per path claimed by more than one
// route, whether the claims come from different features or the same one.
func duplicateRoutePaths(features []feature.Descriptor) []feature.Diagnostic {
	var order []string
	claims := make(map[string][]routeClaim)
	for i := range features {
		f := &features[i]
		for j, r := range f.Routes {
			if _, seen := claims[r.Path]; !seen {
				order = append(order, r.Path)
			}
			claims[r.Path] = append(claims[r.Path], routeClaim{
				featureID: f.ID,
				source:    f.SourceLocation,
				field:     fmt.Sprintf("routes[%d].path", j),
			})
		}
	}

	var diags []feature.Diagnostic
	for _, p := range order {
		cs := claims[p]
		if len(cs) < 2 {
			continue
		}

		var ids, related []string
		for _, c := range cs {
			if !slices.Contains(ids, c.featureID) {
				ids = append(ids, c.featureID)
			}
			if !slices.Contains(related, c.source) {
				related = append(related, c.source)
			}
		}

		var msg string
		if len(ids) == 1 {
			msg = fmt.Sprintf("route path %q is declared %d times by feature %s", p, len(cs), ids[0])
		} else {
			msg = fmt.Sprintf("route path %q is claimed by multiple features: %s", p, strings.Join(ids, ", "))
		}
		diags = append(diags, feature.NewError(feature.CodeDuplicateRoutePath, cs[0].featureID, msg).
			WithFile(cs[0].source).
			WithField(cs[0].field).
			WithRelated(related...))
	}
	return diags
}

// primaryRouteRules checks per feature that at most one route is primary and
// that nav is only declared alongside exactly one primary route.
func primaryRouteRules(features []feature.Descriptor) []feature.Diagnostic {
	var diags []feature.Diagnostic
	for i := range features {
		f := &features[i]
		primaries := len(f.PrimaryRoutes())
		switch {
		case primaries > 1:
			diags = append(diags, feature.NewError(feature.CodeMultiplePrimaryRoutes, f.ID,
				fmt.Sprintf("feature declares %d primary routes; at most one is allowed", primaries)).
				WithFile(f.SourceLocation).
				WithField("routes"))
		case primaries == 0 && f.Nav != nil:
			diags = append(diags, feature.NewError(feature.CodeNavWithoutPrimary, f.ID,
				"nav declared without a primary route").
				WithFile(f.SourceLocation).
				WithField("nav"))
		}
	}
	return diags
}

// buildNavigation creates one entry per feature with nav and exactly one
// primary route, ordered by (order, label, discovery index). Entries without
// an order sort after every entry that has one.
func buildNavigation(features []feature.Descriptor) feature.Navigation {
	var candidates []navCandidate
	for i := range features {
		f := &features[i]
		if f.Nav == nil {
			continue
		}
		primaries := f.PrimaryRoutes()
		if len(primaries) != 1 {
			continue
		}
		candidates = append(candidates, navCandidate{
			entry: feature.NavEntry{
				FeatureID: f.ID,
				Label:     f.Nav.Label,
				Path:      primaries[0].Path,
				Order:     f.Nav.Order,
			},
			index: i,
		})
	}

	slices.SortFunc(candidates, compareNav)

	nav := make(feature.Navigation, 0, len(candidates))
	for _, c := range candidates {
		nav = append(nav, c.entry)
	}
	return nav
}

func compareNav(a, b navCandidate) int {
	switch {
	case a.entry.HasOrder() && !b.entry.HasOrder():
		return -1
	case !a.entry.HasOrder() && b.entry.HasOrder():
		return 1
	case a.entry.HasOrder() && b.entry.HasOrder():
		if c := cmp.Compare(*a.entry.Order, *b.entry.Order); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(a.entry.Label, b.entry.Label); c != 0 {
		return c
	}
	return cmp.Compare(a.index, b.index)
}

// duplicateNavLabels warns once per label shared by more than one entry.
// Labels are compared as written; the warning does not block emission.
func duplicateNavLabels(nav feature.Navigation) []feature.Diagnostic {
	var order []string
	owners := make(map[string][]string)
	for _, e := range nav {
		if _, seen := owners[e.Label]; !seen {
			order = append(order, e.Label)
		}
		owners[e.Label] = append(owners[e.Label], e.FeatureID)
	}

	var diags []feature.Diagnostic
	for _, label := range order {
		ids := owners[label]
		if len(ids) < 2 {
			continue
		}
		diags = append(diags, feature.NewWarning(feature.CodeDuplicateNavLabel, ids[1],
			fmt.Sprintf("nav label %q is used by features %s", label, strings.Join(ids, ", "))).
			WithField("nav.label"))
	}
	return diags
}
