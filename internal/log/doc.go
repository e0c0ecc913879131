// Package log provides a logging backend based on go-logging.
//
// One Backend is built from configuration at startup; each component asks it
// for a module logger. Key material is never logged, only fingerprints.
package log
