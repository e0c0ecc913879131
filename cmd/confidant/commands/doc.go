// Package commands defines the confidant CLI.
//
// Commands
//
//   - init           Create the counselor identity and fill the one-time pool
//   - fingerprint    Print the counselor fingerprint and pool status
//   - bundle         Print the signed pre-key bundle for publication
//   - replenish      Add one-time pre-keys to the pool
//   - rotate-prekey  Replace the signed pre-key
//   - handshake      Run a local guest/counselor round trip
//   - introduce      Guest side: exchange against a bundle, print the introduction
//   - accept         Counselor side: accept an introduction, decrypt messages
//
// # Implementation
//
// The root command loads the TOML config (or a default rooted at --datadir)
// and opens the app context before any subcommand runs; it is closed again
// after the subcommand returns.
package commands
