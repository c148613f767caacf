package usecases

// Sealer encrypts credential secrets at rest.
type Sealer interface {
	Seal(plaintext string) (ciphertext, iv []byte, err error)
	Open(ciphertext, iv []byte) (string, error)
}
