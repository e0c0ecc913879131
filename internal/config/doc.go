// Package config loads the confidant TOML configuration.
//
// A minimal file:
//
//	[Logging]
//	  Level = "INFO"
//
//	[Keyring]
//	  DataDir = "/var/lib/confidant"
//	  OneTimeKeys = 100
//	  LowWaterMark = 20
//	  MaxLookahead = 1000
package config
