// Package unicodeprops resolves the property names and values that may appear in ECMAScript \p{...} and
// \P{...} escapes to Go *unicode.RangeTable values. Tables come from the standard library's unicode package,
// which pins the Unicode version to the Go release; binary properties the standard library lacks are
// derived from their UCD definitions with golang.org/x/text/unicode/rangetable.
package unicodeprops

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// Tables is the provider. It keeps no state, so it is safe for concurrent use; derived tables are built
// on every lookup.
type Tables struct{}

// Default is the provider the rewriter uses unless told otherwise.
var Default = Tables{}

// Lookup resolves a property and value. For binary properties, value must be "". The second return
// is false if the pair is unknown.
func (Tables) Lookup(property, value string) (*unicode.RangeTable, bool) {
	if canonical, ok := propertyAliases[property]; ok {
		if value == "" {
			return nil, false
		}
		switch canonical {
		case "General_Category":
			return categoryTable(value)
		case "Script_Extensions":
			return scriptExtensionsTable(value)
		default:
			return scriptTable(value)
		}
	}
	if value != "" {
		return nil, false
	}
	return binaryTable(property)
}

func categoryTable(value string) (*unicode.RangeTable, bool) {
	category, ok := generalCategoryAliases[value]
	if !ok {
		return nil, false
	}
	switch category {
	case "Cn":
		return complement(assigned()), true
	case "C":
		return rangetable.Merge(unicode.C, complement(assigned())), true
	case "LC":
		return rangetable.Merge(unicode.Lu, unicode.Ll, unicode.Lt), true
	}
	rt, ok := unicode.Categories[category]
	return rt, ok
}

func scriptTable(value string) (*unicode.RangeTable, bool) {
	name := value
	if long, ok := scriptCodes[value]; ok {
		name = long
	}
	rt, ok := unicode.Scripts[name]
	return rt, ok
}

// scriptExtensionsTable answers scx lookups from the Script table, which is only right for scripts that no
// code point lists in ScriptExtensions.txt. Go ships no extension data, so the others are reported unknown
// rather than resolved to a smaller set.
func scriptExtensionsTable(value string) (*unicode.RangeTable, bool) {
	name := value
	if long, ok := scriptCodes[value]; ok {
		name = long
	}
	if extendedScripts[name] {
		return nil, false
	}
	return scriptTable(name)
}

func binaryTable(name string) (*unicode.RangeTable, bool) {
	if canonical, ok := binaryAliases[name]; ok {
		name = canonical
	}
	if derive, ok := derivedProperties[name]; ok {
		return derive(), true
	}
	for _, p := range ucdProperties {
		if p == name {
			rt, ok := unicode.Properties[name]
			return rt, ok
		}
	}
	return nil, false
}
