// Package manifest decodes release manifests attached to published releases.
//
// Parsing never fails outright: every payload yields an Outcome whose Status says
// how much of the manifest could be trusted. Callers decide how loudly to report
// partial or unparseable outcomes.
package manifest
