// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"

	"github.com/featgen/featgen/internal/feature"
)

// aliasedImport is one feature package import in the aggregator artifact.
type aliasedImport struct {
	Alias string
	Path  string
}

// reservedAliases cannot be used as import aliases in the aggregator:
// either the artifact declares them or Go forbids them as package names.
var reservedAliases = map[string]bool{
	"registry": true,
	"Module":   true,
	"init":     true,
}

// assignAliases derives a deterministic, collision-free import alias for each
// feature from its directory relative to the feature root
// (admin/users becomes admin_users). Clashes get a numeric suffix in
// discovery order.
func assignAliases(features []feature.Descriptor, featureRoot string) []aliasedImport {
	used := make(map[string]bool, len(features))
	imports := make([]aliasedImport, 0, len(features))

	for i := range features {
		base := aliasBase(features[i].Module.Dir, featureRoot)
		alias := base
		for n := 2; used[alias]; n++ {
			alias = base + "_" + strconv.Itoa(n)
		}
		used[alias] = true
		imports = append(imports, aliasedImport{Alias: alias, Path: features[i].Module.ImportPath})
	}
	return imports
}

func aliasBase(dir, featureRoot string) string {
	rel := dir
	if featureRoot != "" && featureRoot != "." {
		rel = strings.TrimPrefix(rel, strings.TrimSuffix(featureRoot, "/"))
	}
	rel = strings.Trim(rel, "/")

	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(rel) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore && b.Len() > 0 {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	alias := strings.TrimSuffix(b.String(), "_")
	switch {
	case alias == "":
		alias = "feature"
	case unicode.IsDigit(rune(alias[0])):
		alias = "f" + alias
	}
	if token.IsKeyword(alias) || reservedAliases[alias] {
		alias += "_feature"
	}
	return alias
}
