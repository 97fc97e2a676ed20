// Package daemon keeps a site current without manual rebuilds.
//
// The periodic daemon rebuilds on a fixed interval so newly published releases
// show up on the site, optionally serving Prometheus metrics. The dev loop
// rebuilds whenever a project source file changes. Both route every build
// through a Runner so two builds never write the same output directory.
package daemon
