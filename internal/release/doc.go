// Package release reconciles upstream release history into the model pages are
// rendered from.
//
// An Aggregator fetches raw releases from a forge client, parses each manifest and
// produces a Context. A project without reachable or usable history still gets a
// Context: a single placeholder release describing the current working tree.
package release
