// SPDX-License-Identifier: MPL-2.0

// Package registry is the runtime contract between featgen's generated
// artifacts and the application that imports them.
//
// The registry artifact declares plain data:
//
//	var Features = []registry.Feature{...}
//	var Navigation = []registry.NavEntry{...}
//
// The aggregator artifact composes every feature's module.go:
//
//	var Module = registry.Compose(blog.Module(), shop.Module())
//
// A feature package provides its module with:
//
//	func Module() registry.Module {
//		return registry.ModuleFunc(func(b registry.Binder) error {
//			return b.Bind("blog.handler", NewHandler())
//		})
//	}
//
// The application's composition root installs the aggregated module into a
// Binder, for example a Container.
package registry
