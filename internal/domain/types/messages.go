package types

// EncryptionScheme names the primitives a message was produced with.
type EncryptionScheme struct {
	Cipher   string `cbor:"1,keyasint"`
	Exchange string `cbor:"2,keyasint"`
	Hash     string `cbor:"3,keyasint"`
	Version  string `cbor:"4,keyasint"`
}

// DefaultScheme is the only scheme this build produces or accepts.
var DefaultScheme = EncryptionScheme{
	Cipher:   "ChaCha20-Poly1305",
	Exchange: "X3DH-25519",
	Hash:     "SHA-256",
	Version:  "1",
}

// Recognized reports whether s is a scheme this build understands.
func (s EncryptionScheme) Recognized() bool { return s == DefaultScheme }

// String returns a compact form such as "X3DH-25519/ChaCha20-Poly1305/SHA-256 v1".
func (s EncryptionScheme) String() string {
	return s.Exchange + "/" + s.Cipher + "/" + s.Hash + " v" + s.Version
}

// EncryptedMessage is every payload after the introduction, in either direction.
type EncryptedMessage struct {
	Sequence       uint64           `cbor:"1,keyasint"`
	Nonce          Nonce            `cbor:"2,keyasint"`
	Ciphertext     []byte           `cbor:"3,keyasint"`
	AssociatedData []byte           `cbor:"4,keyasint,omitempty"`
	Scheme         EncryptionScheme `cbor:"5,keyasint"`
}
