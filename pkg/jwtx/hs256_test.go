package jwtx_test

import (
	"testing"
	"time"

	"github.com/tasklight/tasklight/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "tasklight-auth"

var exampleSecret = []byte("0123456789abcdef0123456789abcdef")

func TestHS256SignAndVerify(t *testing.T) {
	signer, err := jwtx.NewSignerHS256(exampleSecret)
	require.NoError(t, err)
	require.NoError(t, signer.Validate())
	require.Equal(t, "HS256", signer.Alg())

	now := time.Now().UTC()
	claims := jwtx.NewAccessClaims(
		"user-123",          // subject
		"alice@example.com", // email
		2*time.Minute,       // TTL
		exampleIssuer,       // issuer
		now,                 // issued at time
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	verifier := jwtx.NewCommonHS256(exampleSecret, exampleIssuer)

	parsed, err := verifier.Verify(token)
	require.NoError(t, err)

	require.Equal(t, "user-123", parsed.Subject)
	require.Equal(t, "alice@example.com", parsed.Email)
	require.Equal(t, exampleIssuer, parsed.Issuer)
	require.NotEmpty(t, parsed.ID) // JTI should be set
}

func TestHS256RejectsEmptySecret(t *testing.T) {
	_, err := jwtx.NewSignerHS256(nil)
	require.Error(t, err)
}

func TestHS256VerifyFailsForWrongSecret(t *testing.T) {
	signer, err := jwtx.NewSignerHS256(exampleSecret)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims(
		"user-123", "alice@example.com", time.Minute, exampleIssuer, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier := jwtx.NewCommonHS256([]byte("a-completely-different-secret!!!"), exampleIssuer)
	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestHS256VerifyFailsForWrongIssuer(t *testing.T) {
	signer, err := jwtx.NewSignerHS256(exampleSecret)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims(
		"user-123", "alice@example.com", time.Minute, "someone-else", time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier := jwtx.NewCommonHS256(exampleSecret, exampleIssuer)
	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestHS256VerifyFailsForExpiredToken(t *testing.T) {
	signer, err := jwtx.NewSignerHS256(exampleSecret)
	require.NoError(t, err)

	// Issued far enough in the past that it is already expired
	past := time.Now().UTC().Add(-10 * time.Minute)
	claims := jwtx.NewAccessClaims(
		"user-123", "alice@example.com", time.Minute, exampleIssuer, past)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier := jwtx.NewCommonHS256(exampleSecret, exampleIssuer)
	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestHS256VerifyFailsForGarbage(t *testing.T) {
	verifier := jwtx.NewCommonHS256(exampleSecret, exampleIssuer)

	for _, tok := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		_, err := verifier.Verify(tok)
		require.Error(t, err)
	}
}

func TestHS256VerifyFailsForTamperedToken(t *testing.T) {
	signer, err := jwtx.NewSignerHS256(exampleSecret)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims(
		"user-123", "alice@example.com", time.Minute, exampleIssuer, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	// Flip a character in the payload segment
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}

	verifier := jwtx.NewCommonHS256(exampleSecret, exampleIssuer)
	_, err = verifier.Verify(string(tampered))
	require.Error(t, err)
}
