// SPDX-License-Identifier: MPL-2.0

// featgen is a build-time feature registry generator.
package main

import "github.com/featgen/featgen/cmd/featgen"

func main() {
	cmd.Execute()
}
