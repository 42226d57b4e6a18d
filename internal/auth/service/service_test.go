package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tasklight/tasklight/internal/auth/store"
	"github.com/tasklight/tasklight/internal/auth/store/drivers/memory"
	"github.com/tasklight/tasklight/pkg/cryptox"
	"github.com/tasklight/tasklight/pkg/jwtx"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "tasklight-service-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

const testIssuer = "tasklight-test"

var testSecret = []byte("service-test-secret")

type testEnv struct {
	Store    store.Store
	Sessions *SessionService
	Tokens   *TokenService
	Limiter  *LoginLimiter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := memory.NewStore()
	t.Cleanup(func() { _ = st.Close() })

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier := jwtx.NewCommonHS256(testSecret, testIssuer)

	creds := &CredentialService{Store: st}
	tokens := &TokenService{
		Signer:   signer,
		Verifier: verifier,
		Store:    st,
		Issuer:   testIssuer,
	}
	limiter := NewLoginLimiter(DefaultLoginWindow, DefaultMaxLoginFailures)

	return &testEnv{
		Store:   st,
		Tokens:  tokens,
		Limiter: limiter,
		Sessions: &SessionService{
			Credentials: creds,
			Tokens:      tokens,
			Limiter:     limiter,
		},
	}
}
