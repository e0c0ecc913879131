// Package app wires application dependencies for the CLI.
//
// It opens the log backend and the keyring database described by a
// config.Config and builds counselor keyrings over them, so commands only
// deal with passphrases and keyring operations.
package app
