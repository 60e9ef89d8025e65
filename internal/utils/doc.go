// Package utils provides shared infrastructure for pressctl commands:
// a zap logger factory honoring configured level and format, and a
// Viper-backed configuration loader merging defaults, files, and
// environment overrides.
package utils
