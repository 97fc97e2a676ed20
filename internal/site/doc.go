// Package site builds a project's website from its configuration and release history.
//
// A build runs as a pipeline of named stages. Output preparation and page writing
// are structural: their failure aborts the build. Release data and each content
// component (artifacts, changelog, funding, additional pages, book) are isolated:
// a failure there is logged as a warning, recorded in the build Report and the
// component's pages are dropped. Exactly one index page is always produced.
//
// Workspaces build every member in turn into its own subdirectory of the
// workspace output and finish with an index page linking the members. All paths
// are resolved against each member's root explicitly; the process working
// directory is never changed.
package site
