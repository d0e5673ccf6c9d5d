// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import "strings"

// NormalizeRef returns the canonical form of a dataset ref: surrounding
// whitespace and path separators stripped. The normalized ref is what goes
// into the Candidate ID and the catalog URL template.
func NormalizeRef(ref string) string {
	return strings.Trim(strings.TrimSpace(ref), "/")
}

// RefTail returns the fragment after the last "/" in a dataset ref. Used as
// the title fallback when a catalog gives no distinct title: "stanford/imdb"
// yields "imdb", a bare "squad" yields "squad".
func RefTail(ref string) string {
	ref = NormalizeRef(ref)
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
