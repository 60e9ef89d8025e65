// Package store persists and retrieves WordPress content records. It
// exposes the narrow surface the conversion engine needs: ID-ordered
// record selection, single-row post type updates, and taxonomy-scoped
// relationship deletion, all built with go-sqlbuilder and executed over
// sqlx against the standard WordPress table layout.
package store
