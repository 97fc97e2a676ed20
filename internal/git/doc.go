// Package git reads local repository metadata with go-git: the origin remote used
// to infer a project's repository and the HEAD commit describing the working tree.
package git
