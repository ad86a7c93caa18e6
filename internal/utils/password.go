package utils

import "golang.org/x/crypto/bcrypt"

// PasswordHasher hashes admin passwords with bcrypt at the configured cost.
// The zero value hashes at bcrypt.DefaultCost.
type PasswordHasher struct{ cost int }

// NewPasswordHasher returns a hasher for BCRYPT_COST. Costs outside
// bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return PasswordHasher{cost: cost}
}

func (h PasswordHasher) Cost() int {
	if h.cost == 0 {
		return bcrypt.DefaultCost
	}
	return h.cost
}

// Hash returns the bcrypt hash of plain. Inputs longer than 72 bytes fail
// with bcrypt.ErrPasswordTooLong.
func (h PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches hash.
func (h PasswordHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NeedsRehash reports whether hash was made at a different cost than the
// hasher's, so a successful login can upgrade it.
func (h PasswordHasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	return err != nil || cost != h.Cost()
}
