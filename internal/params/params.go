package params

const (
	SecParam  = 256
	SecBytes  = SecParam / 8
	StatParam = 80

	// L bounds the plaintext proven by a range proof: |x| < 2ˡ.
	// Every secp256k1 scalar fits, since q < 2²⁵⁶.
	L            = 1 * SecParam // = 256
	Epsilon      = 2 * SecParam // = 512
	LPlusEpsilon = L + Epsilon  // = 768

	BitsIntModN  = 8 * SecParam    // = 2048
	BytesIntModN = BitsIntModN / 8 // = 256

	BitsBlumPrime = 4 * SecParam      // = 1024
	BitsPaillier  = 2 * BitsBlumPrime // = 2048

	BytesPaillier   = BitsPaillier / 8  // = 256
	BytesCiphertext = 2 * BytesPaillier // = 512

	BytesScalar = 32
	BytesPoint  = 33
)
