package hasher

import "golang.org/x/crypto/bcrypt"

// Hasher produces and verifies one-way password hashes.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Compare(hash string, plaintext string) error
}

type Bcrypt struct {
	cost int
}

var _ Hasher = Bcrypt{}

func NewBcrypt(cost int) Bcrypt {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return Bcrypt{cost: cost}
}

func (h Bcrypt) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h Bcrypt) Compare(hash string, plaintext string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
}
