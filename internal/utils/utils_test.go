package utils

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	want := model.Identity{ID: 7, Username: "admin", Role: model.RoleAdmin}

	tok, err := NewAccessToken("secret", want, 24*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), tok.Exp)

	got, err := ParseAccessToken("secret", tok.Token, now.Add(23*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAccessTokenExpired(t *testing.T) {
	now := time.Now()
	tok, err := NewAccessToken("secret", model.Identity{ID: 1, Username: "a", Role: "admin"}, time.Hour, now)
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", tok.Token, now.Add(time.Hour+time.Second))
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestAccessTokenWrongSecret(t *testing.T) {
	now := time.Now()
	tok, err := NewAccessToken("secret", model.Identity{ID: 1}, time.Hour, now)
	require.NoError(t, err)

	_, err = ParseAccessToken("other", tok.Token, now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := AdminClaims{
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", raw, time.Now())
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	hash, err := h.Hash("s3cret!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2"))
	assert.True(t, h.Verify(hash, "s3cret!"))
	assert.False(t, h.Verify(hash, "wrong"))
	assert.False(t, h.Verify("not-a-hash", "s3cret!"))

	_, err = h.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}

func TestPasswordHasherCost(t *testing.T) {
	assert.Equal(t, 12, NewPasswordHasher(12).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(2).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, bcrypt.DefaultCost, PasswordHasher{}.Cost())
}

func TestPasswordNeedsRehash(t *testing.T) {
	hash, err := NewPasswordHasher(bcrypt.MinCost).Hash("s3cret!")
	require.NoError(t, err)

	assert.False(t, NewPasswordHasher(bcrypt.MinCost).NeedsRehash(hash))
	assert.True(t, NewPasswordHasher(bcrypt.MinCost+1).NeedsRehash(hash))
	assert.True(t, NewPasswordHasher(bcrypt.MinCost).NeedsRehash("garbage"))
}

func TestSanitizeHTML(t *testing.T) {
	out := SanitizeHTML(`<p onclick="x()">Hello <b>world</b><script>alert(1)</script></p>`)
	assert.Contains(t, out, "<b>world</b>")
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "onclick")

	var nilPtr *string
	SanitizeHTMLPtr(nilPtr)
	s := `<img src=x onerror=alert(1)>`
	SanitizeHTMLPtr(&s)
	assert.NotContains(t, s, "onerror")
}
