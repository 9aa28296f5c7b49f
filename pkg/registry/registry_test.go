// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func bindModule(key string, value any) Module {
	return ModuleFunc(func(b Binder) error { return b.Bind(key, value) })
}

func TestCompose_InstallsInOrder(t *testing.T) {
	t.Parallel()

	var order []string
	record := func(name string) Module {
		return ModuleFunc(func(Binder) error {
			order = append(order, name)
			return nil
		})
	}

	c := Compose(record("blog"), nil, record("shop"))
	if err := c.Install(NewContainer()); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if diff := cmp.Diff([]string{"blog", "shop"}, order); diff != "" {
		t.Errorf("install order mismatch (-want +got):\n%s", diff)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestCompose_Empty(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	if err := Compose().Install(c); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if len(c.Keys()) != 0 {
		t.Errorf("Keys() = %v, want none", c.Keys())
	}
}

func TestCompose_DuplicateBindingFails(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	err := Compose(bindModule("handler", 1), bindModule("handler", 2)).Install(c)
	if !errors.Is(err, ErrDuplicateBinding) {
		t.Fatalf("Install() error = %v, want ErrDuplicateBinding", err)
	}
	var ierr *InstallError
	if !errors.As(err, &ierr) || ierr.Index != 1 {
		t.Errorf("error = %#v, want InstallError at index 1", err)
	}
	if v, _ := c.Get("handler"); v != 1 {
		t.Errorf("handler = %v, want first binding kept", v)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	if err := Compose(bindModule("name", "blog"), bindModule("count", 3)).Install(c); err != nil {
		t.Fatal(err)
	}

	name, err := Resolve[string](c, "name")
	if err != nil || name != "blog" {
		t.Errorf("Resolve[string](name) = %q, %v", name, err)
	}
	if _, err := Resolve[string](c, "count"); err == nil {
		t.Error("Resolve[string](count) expected type error")
	}
	if _, err := Resolve[int](c, "missing"); err == nil {
		t.Error("Resolve[int](missing) expected error")
	}
	if diff := cmp.Diff([]string{"count", "name"}, c.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupAndPrimaryRoute(t *testing.T) {
	t.Parallel()

	features := []Feature{
		{ID: "blog", Routes: []Route{{Path: "/blog/archive"}, {Path: "/blog", Primary: true}}},
		{ID: "api"},
	}

	f, ok := Lookup(features, "blog")
	if !ok {
		t.Fatal("Lookup(blog) not found")
	}
	if r, ok := f.PrimaryRoute(); !ok || r.Path != "/blog" {
		t.Errorf("PrimaryRoute() = %+v, %v", r, ok)
	}
	if _, ok := features[1].PrimaryRoute(); ok {
		t.Error("api has no primary route")
	}
	if _, ok := Lookup(features, "shop"); ok {
		t.Error("Lookup(shop) should not find anything")
	}
}

func TestContainer_ZeroValue(t *testing.T) {
	t.Parallel()

	var c Container
	if _, ok := c.Get("missing"); ok {
		t.Error("Get() on an empty container reported a binding")
	}
	if err := Compose(bindModule("name", "blog")).Install(&c); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if diff := cmp.Diff([]string{"name"}, c.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}
