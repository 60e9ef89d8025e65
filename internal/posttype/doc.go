// Package posttype implements the bulk post type conversion engine behind
// the post-type-switch command. The engine validates the requested type
// pair against the registry, snapshots the matching records in stable
// identifier order, converts each record independently of its neighbors'
// failures, optionally migrates taxonomy relationships, and invalidates
// affected cache entries once the batch completes.
package posttype
