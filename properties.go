package regexpu

import (
	"strings"
	"unicode"

	"github.com/ldklab/regexpu/unicodeprops"
)

// PropertyProvider resolves Unicode property escapes to code points. property may be a canonical name or
// an alias ("General_Category", "gc", "Script", "sc", "Script_Extensions", "scx", or a binary property
// such as "Alphabetic"); for binary properties value is "". A provider is read-only as far as the
// rewriter is concerned, and it must be safe for concurrent use if RewritePattern is called concurrently.
type PropertyProvider interface {
	Lookup(property, value string) (*unicode.RangeTable, bool)
}

const generalCategory = "General_Category"

// propertyEscapeSet resolves the body of \p{...}. A lone name is first tried as a General_Category value,
// then as a binary property. A Name=Value pair must name a non-binary property.
func propertyEscapeSet(provider PropertyProvider, value string, negative bool) (*CodePointSet, error) {
	var table *unicode.RangeTable
	var ok bool
	name, propValue, paired := strings.Cut(value, "=")
	if paired {
		if name == "" || propValue == "" {
			return nil, unsupportedf("invalid property escape \\p{%s}", value)
		}
		table, ok = provider.Lookup(name, propValue)
		if !ok {
			return nil, unsupportedf("failed to recognize value `%s` for property `%s`", propValue, name)
		}
	} else {
		table, ok = provider.Lookup(generalCategory, name)
		if !ok {
			table, ok = provider.Lookup(name, "")
		}
		if !ok {
			return nil, unsupportedf("failed to recognize property or value `%s`", name)
		}
	}
	set := FromRangeTable(table)
	if negative {
		set.Complement()
	}
	return set, nil
}

func defaultPropertyProvider() PropertyProvider {
	return unicodeprops.Default
}
