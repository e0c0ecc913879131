// Package keyring manages the key material of the two roles.
//
// A Guest owns one ephemeral key pair and can complete exactly one exchange.
// A Counselor owns a long-term signing identity, a signed pre-key and a pool
// of one-time pre-keys; each exchange consumes one pool entry for good.
package keyring
