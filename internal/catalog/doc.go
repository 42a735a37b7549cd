// Package catalog holds the set of compression formats a user can choose from.
//
// The catalog is fetched from the compression service once per session and
// merged with a static metadata table (display name, description, icon). When
// the fetch fails for any reason the built-in default catalog is used instead,
// without surfacing an error. The package also owns the format policies that
// decide which files a format accepts and how results are worded, and a
// Selector enforcing single-choice selection.
package catalog
