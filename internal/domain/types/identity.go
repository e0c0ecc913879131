package types

// CounselorIdentity holds a counselor's long-term signing key and the
// current medium-term signed pre-key.
type CounselorIdentity struct {
	SigningPrivate  Ed25519Private `cbor:"1,keyasint"`
	SigningPublic   Ed25519Public  `cbor:"2,keyasint"`
	PreKeyPrivate   X25519Private  `cbor:"3,keyasint"`
	PreKeyPublic    X25519Public   `cbor:"4,keyasint"`
	PreKeySignature Signature      `cbor:"5,keyasint"`
	RotatedAt       int64          `cbor:"6,keyasint"`
}

// PublicOnly returns a copy with every private field cleared.
func (id CounselorIdentity) PublicOnly() CounselorIdentity {
	return CounselorIdentity{
		SigningPublic:   id.SigningPublic,
		PreKeyPublic:    id.PreKeyPublic,
		PreKeySignature: id.PreKeySignature,
		RotatedAt:       id.RotatedAt,
	}
}
