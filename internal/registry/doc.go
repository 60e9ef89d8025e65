// Package registry maintains the set of registered post types and the
// taxonomies each type supports. It ships the builtin WordPress
// definitions, merges custom definitions declared in a YAML file, and
// exposes the read-only lookups the conversion engine validates against.
package registry
