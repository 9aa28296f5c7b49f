// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"slices"
	"strings"
	"testing"

	"github.com/featgen/featgen/internal/feature"

	"github.com/google/go-cmp/cmp"
)

// feat builds a descriptor whose source location is derived from its id.
func feat(id string, nav *feature.Nav, routes ...feature.Route) feature.Descriptor {
	if routes == nil {
		routes = []feature.Route{}
	}
	return feature.Descriptor{
		ID:             id,
		Title:          strings.ToUpper(id),
		Routes:         routes,
		Nav:            nav,
		SourceLocation: "internal/features/" + id + "/feature.cue",
	}
}

func primary(path string) feature.Route {
	return feature.Route{Path: path, Title: path, Primary: true}
}

func route(path string) feature.Route {
	return feature.Route{Path: path, Title: path}
}

func nav(label string, order ...int) *feature.Nav {
	n := &feature.Nav{Label: label}
	if len(order) > 0 {
		n.Order = feature.IntPtr(order[0])
	}
	return n
}

func codes(diags []feature.Diagnostic) []feature.Code {
	out := make([]feature.Code, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func navPaths(n feature.Navigation) []string {
	out := make([]string, 0, len(n))
	for _, e := range n {
		out = append(out, e.Path)
	}
	return out
}

func TestValidate_ValidSet(t *testing.T) {
	t.Parallel()

	features := []feature.Descriptor{
		feat("blog", nav("Blog"), primary("/blog"), route("/blog/archive")),
		feat("shop", nil, route("/shop"), route("/shop/cart")),
		feat("admin", nil),
	}

	result := Validate(features)
	if len(result.Diagnostics) != 0 {
		t.Fatalf("Diagnostics = %v, want none", result.Diagnostics)
	}
	want := feature.Navigation{{FeatureID: "blog", Label: "Blog", Path: "/blog"}}
	if diff := cmp.Diff(want, result.Navigation); diff != "" {
		t.Errorf("Navigation mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_EmptySet(t *testing.T) {
	t.Parallel()

	result := Validate(nil)
	if len(result.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %v, want none", result.Diagnostics)
	}
	if result.Navigation == nil || len(result.Navigation) != 0 {
		t.Errorf("Navigation = %#v, want empty non-nil", result.Navigation)
	}
}

func TestValidate_ScenarioA_NavOrder(t *testing.T) {
	t.Parallel()

	features := []feature.Descriptor{
		feat("blog", nav("Blog", 10), primary("/blog")),
		feat("shop", nav("Shop", 5), primary("/shop")),
	}

	result := Validate(features)
	if len(result.Diagnostics) != 0 {
		t.Fatalf("Diagnostics = %v, want none", result.Diagnostics)
	}
	if diff := cmp.Diff([]string{"/shop", "/blog"}, navPaths(result.Navigation)); diff != "" {
		t.Errorf("navigation order mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_ScenarioB_MultiplePrimaryRoutes(t *testing.T) {
	t.Parallel()

	features := []feature.Descriptor{
		feat("blog", nav("Blog"), primary("/blog"), primary("/blog/latest")),
		feat("shop", nav("Shop"), primary("/shop")),
	}

	result := Validate(features)
	if diff := cmp.Diff([]feature.Code{feature.CodeMultiplePrimaryRoutes}, codes(result.Diagnostics)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	d := result.Diagnostics[0]
	if d.FeatureID != "blog" || !strings.Contains(d.Message, "2 primary routes") {
		t.Errorf("diagnostic = %+v, want blog with count 2", d)
	}
	if result.Navigation != nil {
		t.Errorf("Navigation = %v, want nil on error", result.Navigation)
	}
}

func TestValidate_ScenarioC_DuplicateRoutePath(t *testing.T) {
	t.Parallel()

	features := []feature.Descriptor{
		feat("a", nil, route("/dash")),
		feat("b", nil, route("/dash")),
	}

	result := Validate(features)
	if diff := cmp.Diff([]feature.Code{feature.CodeDuplicateRoutePath}, codes(result.Diagnostics)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	d := result.Diagnostics[0]
	for _, want := range []string{"a", "b", "/dash"} {
		if !strings.Contains(d.Message, want) {
			t.Errorf("Message = %q, want to mention %q", d.Message, want)
		}
	}
	wantRelated := []string{"internal/features/a/feature.cue", "internal/features/b/feature.cue"}
	if diff := cmp.Diff(wantRelated, d.Related); diff != "" {
		t.Errorf("Related mismatch (-want +got):\n%s", diff)
	}
	if d.Field != "routes[0].path" {
		t.Errorf("Field = %q, want routes[0].path", d.Field)
	}
}

func TestValidate_DuplicateRoutePathWithinFeature(t *testing.T) {
	t.Parallel()

	result := Validate([]feature.Descriptor{
		feat("blog", nil, route("/blog"), route("/blog")),
	})
	if diff := cmp.Diff([]feature.Code{feature.CodeDuplicateRoutePath}, codes(result.Diagnostics)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(result.Diagnostics[0].Message, "2 times by feature blog") {
		t.Errorf("Message = %q", result.Diagnostics[0].Message)
	}
}

func TestValidate_ScenarioD_NoFeatures(t *testing.T) {
	t.Parallel()

	result := Validate([]feature.Descriptor{})
	if result.Diagnostics != nil {
		t.Errorf("Diagnostics = %v, want nil", result.Diagnostics)
	}
	if result.Navigation == nil {
		t.Error("Navigation = nil, want empty model")
	}
}

func TestValidate_ScenarioE_NavWithoutPrimary(t *testing.T) {
	t.Parallel()

	features := []feature.Descriptor{
		feat("ok", nav("OK", 1), primary("/ok")),
		feat("x", nav("X"), route("/x")),
	}

	result := Validate(features)
	if diff := cmp.Diff([]feature.Code{feature.CodeNavWithoutPrimary}, codes(result.Diagnostics)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if result.Diagnostics[0].FeatureID != "x" {
		t.Errorf("FeatureID = %q, want x", result.Diagnostics[0].FeatureID)
	}
	if result.Navigation != nil {
		t.Errorf("Navigation = %v, want nil: the whole pass fails", result.Navigation)
	}
}

func TestValidate_NavWithOnePrimaryNeverFlagged(t *testing.T) {
	t.Parallel()

	result := Validate([]feature.Descriptor{feat("x", nav("X"), route("/x/a"), primary("/x"))})
	if len(result.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %v, want none", result.Diagnostics)
	}
}

func TestValidate_DuplicateIDs(t *testing.T) {
	t.Parallel()

	a := feat("blog", nil, route("/a"))
	b := feat("blog", nil, route("/b"))
	b.SourceLocation = "internal/features/news/feature.cue"
	c := feat("blog", nil, route("/c"))
	c.SourceLocation = "internal/features/posts/feature.yaml"

	result := Validate([]feature.Descriptor{a, b, c})
	if diff := cmp.Diff([]feature.Code{feature.CodeDuplicateID}, codes(result.Diagnostics)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	want := []string{
		"internal/features/blog/feature.cue",
		"internal/features/news/feature.cue",
		"internal/features/posts/feature.yaml",
	}
	d := result.Diagnostics[0]
	if diff := cmp.Diff(want, d.Related); diff != "" {
		t.Errorf("Related mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(d.Message, "3 times") {
		t.Errorf("Message = %q, want count", d.Message)
	}
}

func TestValidate_ReportsAllRulesInOrder(t *testing.T) {
	t.Parallel()

	features := []feature.Descriptor{
		feat("a", nil, route("/same")),
		feat("a", nil, route("/same")),
		feat("b", nav("B"), primary("/b1"), primary("/b2")),
		feat("c", nav("C")),
	}

	result := Validate(features)
	want := []feature.Code{
		feature.CodeDuplicateID,
		feature.CodeDuplicateRoutePath,
		feature.CodeMultiplePrimaryRoutes,
		feature.CodeNavWithoutPrimary,
	}
	if diff := cmp.Diff(want, codes(result.Diagnostics)); diff != "" {
		t.Errorf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_NavOrdering(t *testing.T) {
	t.Parallel()

	features := []feature.Descriptor{
		feat("zeta", nav("Zeta"), primary("/zeta")),
		feat("alpha", nav("Alpha"), primary("/alpha")),
		feat("ten", nav("Ten", 10), primary("/ten")),
		feat("neg", nav("Negative", -1), primary("/neg")),
		feat("beta", nav("Beta", 10), primary("/beta")),
	}

	result := Validate(features)
	want := []string{"/neg", "/beta", "/ten", "/alpha", "/zeta"}
	if diff := cmp.Diff(want, navPaths(result.Navigation)); diff != "" {
		t.Errorf("navigation order mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_NavOrderIndependentOfDiscoveryOrder(t *testing.T) {
	t.Parallel()

	base := []feature.Descriptor{
		feat("a", nav("Apps", 2), primary("/a")),
		feat("b", nav("Blog"), primary("/b")),
		feat("c", nav("Cart", 2), primary("/c")),
		feat("d", nav("Docs", 1), primary("/d")),
	}
	want := navPaths(Validate(base).Navigation)

	for _, perm := range permutations(len(base)) {
		shuffled := make([]feature.Descriptor, len(base))
		for i, j := range perm {
			shuffled[i] = base[j]
		}
		got := navPaths(Validate(shuffled).Navigation)
		if !slices.Equal(want, got) {
			t.Errorf("permutation %v: navigation = %v, want %v", perm, got, want)
		}
	}
}

func TestValidate_DuplicateNavLabelWarning(t *testing.T) {
	t.Parallel()

	features := []feature.Descriptor{
		feat("first", nav("Home"), primary("/first")),
		feat("second", nav("Home"), primary("/second")),
	}

	result := Validate(features)
	if diff := cmp.Diff([]feature.Code{feature.CodeDuplicateNavLabel}, codes(result.Diagnostics)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if result.Diagnostics[0].IsError() {
		t.Error("duplicate nav label must be a warning")
	}
	// Equal label and order fall back to discovery order.
	if diff := cmp.Diff([]string{"/first", "/second"}, navPaths(result.Navigation)); diff != "" {
		t.Errorf("navigation mismatch (-want +got):\n%s", diff)
	}
}

// permutations returns every ordering of 0..n-1.
func permutations(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	var out [][]int
	for _, p := range permutations(n - 1) {
		for i := 0; i <= len(p); i++ {
			q := make([]int, 0, n)
			q = append(q, p[:i]...)
			q = append(q, n-1)
			q = append(q, p[i:]...)
			out = append(out, q)
		}
	}
	return out
}
