// Package regexpu rewrites ECMAScript regular expressions so that engines without support for the u flag,
// the s flag, named capture groups, or Unicode property escapes can run them with the same results.
//
// RewritePattern is the entry point. It parses the pattern into a tree of Nodes, replaces the constructs
// the target engine lacks with equivalents built from explicit code-point sets (astral code points become
// UTF-16 surrogate pairs, case-insensitive matches are spelled out, property escapes are expanded), and
// writes the tree back out as pattern source. Parse, Generate, and CodePointSet are exported for callers
// that want to work on trees or sets directly.
//
// Property escapes are resolved through a PropertyProvider; by default the tables of Go's unicode package,
// via package unicodeprops, are used, so the Unicode version follows the Go release.
//
// Errors match one of ErrSyntax, ErrUnsupported, ErrStructural, or ErrConfig under errors.Is.
package regexpu
