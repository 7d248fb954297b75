package ownership

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newTestGate(t *testing.T, scheme Scheme) (*Gate, *clock.Mock, KeyPair) {
	t.Helper()
	v, err := NewVerifier(scheme)
	require.NoError(t, err)
	key, err := GenerateKey(scheme)
	require.NoError(t, err)
	clk := clock.NewMock()
	clk.Add(1700000000 * time.Second)
	return NewGate(v, WithClock(clk)), clk, key
}

func TestIssueChallengeFormat(t *testing.T) {
	require := require.New(t)
	g, _, _ := newTestGate(t, SchemeEd25519)

	challenge, err := g.IssueChallenge("alice")
	require.NoError(err)
	require.Equal("alice:1700000000:starRegistry", challenge)

	c, err := ParseChallenge(challenge)
	require.NoError(err)
	require.Equal(Challenge{Identity: "alice", Timestamp: 1700000000, DomainTag: DefaultDomainTag}, c)

	_, err = g.IssueChallenge("")
	require.True(errors.Is(err, ErrInvalidIdentity))
	_, err = g.IssueChallenge("a:b")
	require.True(errors.Is(err, ErrInvalidIdentity))
}

func TestVerifyConsumesChallenge(t *testing.T) {
	for _, scheme := range Schemes() {
		t.Run(string(scheme), func(t *testing.T) {
			require := require.New(t)
			g, _, key := newTestGate(t, scheme)

			challenge, err := g.IssueChallenge(key.Identity)
			require.NoError(err)
			sig, err := Sign(scheme, key.PrivateKey, []byte(challenge))
			require.NoError(err)

			require.NoError(g.Verify(key.Identity, challenge, sig))
			err = g.Verify(key.Identity, challenge, sig)
			require.True(errors.Is(err, ErrChallengeNotFound), "got %v", err)
		})
	}
}

func TestVerifyFailureStillConsumes(t *testing.T) {
	require := require.New(t)
	g, _, key := newTestGate(t, SchemeEd25519)
	other, err := GenerateKey(SchemeEd25519)
	require.NoError(err)

	challenge, err := g.IssueChallenge(key.Identity)
	require.NoError(err)
	forged, err := Sign(SchemeEd25519, other.PrivateKey, []byte(challenge))
	require.NoError(err)
	require.True(errors.Is(g.Verify(key.Identity, challenge, forged), ErrSignatureInvalid))

	good, err := Sign(SchemeEd25519, key.PrivateKey, []byte(challenge))
	require.NoError(err)
	require.True(errors.Is(g.Verify(key.Identity, challenge, good), ErrChallengeNotFound))
}

func TestVerifyExpiryBoundary(t *testing.T) {
	cases := []struct {
		elapsed time.Duration
		expired bool
	}{
		{299 * time.Second, false},
		{300 * time.Second, true},
		{301 * time.Second, true},
	}
	for _, tc := range cases {
		t.Run(tc.elapsed.String(), func(t *testing.T) {
			require := require.New(t)
			g, clk, key := newTestGate(t, SchemeEthereum)

			challenge, err := g.IssueChallenge(key.Identity)
			require.NoError(err)
			sig, err := Sign(SchemeEthereum, key.PrivateKey, []byte(challenge))
			require.NoError(err)

			clk.Add(tc.elapsed)
			err = g.Verify(key.Identity, challenge, sig)
			if tc.expired {
				require.True(errors.Is(err, ErrChallengeExpired), "got %v", err)
			} else {
				require.NoError(err)
			}
			require.True(errors.Is(g.Verify(key.Identity, challenge, sig), ErrChallengeNotFound))
		})
	}
}

func TestReissueReplacesOutstandingChallenge(t *testing.T) {
	require := require.New(t)
	g, clk, key := newTestGate(t, SchemeSchnorr)

	first, err := g.IssueChallenge(key.Identity)
	require.NoError(err)
	clk.Add(time.Second)
	second, err := g.IssueChallenge(key.Identity)
	require.NoError(err)
	require.NotEqual(first, second)

	sig, err := Sign(SchemeSchnorr, key.PrivateKey, []byte(first))
	require.NoError(err)
	require.True(errors.Is(g.Verify(key.Identity, first, sig), ErrChallengeNotFound))

	// the mismatched attempt did not consume the current challenge
	sig, err = Sign(SchemeSchnorr, key.PrivateKey, []byte(second))
	require.NoError(err)
	require.NoError(g.Verify(key.Identity, second, sig))
}

func TestVerifyRejectsChallengeForAnotherIdentity(t *testing.T) {
	require := require.New(t)
	g, _, key := newTestGate(t, SchemeEd25519)
	other, err := GenerateKey(SchemeEd25519)
	require.NoError(err)

	challenge, err := g.IssueChallenge(other.Identity)
	require.NoError(err)
	sig, err := Sign(SchemeEd25519, key.PrivateKey, []byte(challenge))
	require.NoError(err)
	require.True(errors.Is(g.Verify(key.Identity, challenge, sig), ErrChallengeNotFound))
}

func TestConcurrentVerifySucceedsOnce(t *testing.T) {
	require := require.New(t)
	g, _, key := newTestGate(t, SchemeEd25519)

	challenge, err := g.IssueChallenge(key.Identity)
	require.NoError(err)
	sig, err := Sign(SchemeEd25519, key.PrivateKey, []byte(challenge))
	require.NoError(err)

	var ok, notFound int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch err := g.Verify(key.Identity, challenge, sig); {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, ErrChallengeNotFound):
				atomic.AddInt32(&notFound, 1)
			}
		}()
	}
	wg.Wait()
	require.Equal(int32(1), ok)
	require.Equal(int32(15), notFound)
}

func TestParseChallengeRejectsMalformed(t *testing.T) {
	for _, s := range []string{
		"",
		"alice",
		"alice:123",
		"alice:abc:starRegistry",
		":123:starRegistry",
		"alice:123:",
		"a:b:123:starRegistry",
	} {
		_, err := ParseChallenge(s)
		require.True(t, errors.Is(err, ErrMalformedChallenge), "input %q", s)
	}
	c := Challenge{Identity: "x", Timestamp: -5, DomainTag: "t"}
	back, err := ParseChallenge(c.String())
	require.NoError(t, err)
	require.Equal(t, c, back)
}

func TestCustomDomainTagAndWindow(t *testing.T) {
	require := require.New(t)
	v, err := NewVerifier(SchemeEd25519)
	require.NoError(err)
	clk := clock.NewMock()
	g := NewGate(v, WithClock(clk), WithDomainTag("other"), WithWindow(10*time.Second))
	require.Equal(10*time.Second, g.Window())

	key, err := GenerateKey(SchemeEd25519)
	require.NoError(err)
	challenge, err := g.IssueChallenge(key.Identity)
	require.NoError(err)
	require.True(strings.HasSuffix(challenge, ":other"))
	require.Equal(fmt.Sprintf("%s:%s:other", key.Identity, strconv.FormatInt(clk.Now().Unix(), 10)), challenge)

	sig, err := Sign(SchemeEd25519, key.PrivateKey, []byte(challenge))
	require.NoError(err)
	clk.Add(10 * time.Second)
	require.True(errors.Is(g.Verify(key.Identity, challenge, sig), ErrChallengeExpired))
}

func TestVerifyLongExpiredChallenge(t *testing.T) {
	for _, elapsed := range []time.Duration{11 * time.Minute, time.Hour, 30 * 24 * time.Hour} {
		t.Run(elapsed.String(), func(t *testing.T) {
			require := require.New(t)
			g, clk, key := newTestGate(t, SchemeEd25519)

			challenge, err := g.IssueChallenge(key.Identity)
			require.NoError(err)
			sig, err := Sign(SchemeEd25519, key.PrivateKey, []byte(challenge))
			require.NoError(err)

			clk.Add(elapsed)
			err = g.Verify(key.Identity, challenge, sig)
			require.True(errors.Is(err, ErrChallengeExpired), "got %v", err)
			require.True(errors.Is(g.Verify(key.Identity, challenge, sig), ErrChallengeNotFound))
		})
	}
}

func TestExpiryIgnoresWallClock(t *testing.T) {
	if testing.Short() {
		t.Skip("waits on the wall clock")
	}
	require := require.New(t)
	g := NewGate(Ed25519Verifier{}, WithWindow(time.Second))
	key, err := GenerateKey(SchemeEd25519)
	require.NoError(err)

	challenge, err := g.IssueChallenge(key.Identity)
	require.NoError(err)
	sig, err := Sign(SchemeEd25519, key.PrivateKey, []byte(challenge))
	require.NoError(err)

	time.Sleep(2100 * time.Millisecond)
	err = g.Verify(key.Identity, challenge, sig)
	require.True(errors.Is(err, ErrChallengeExpired), "got %v", err)
}

func TestEthereumIdentitySpellings(t *testing.T) {
	require := require.New(t)
	g, _, key := newTestGate(t, SchemeEthereum)
	lower := strings.ToLower(key.Identity)
	require.Equal(key.Identity, g.NormalizeIdentity(lower))
	require.Equal("alice", g.NormalizeIdentity("alice"))

	challenge, err := g.IssueChallenge(lower)
	require.NoError(err)
	require.True(strings.HasPrefix(challenge, key.Identity+":"))
	sig, err := Sign(SchemeEthereum, key.PrivateKey, []byte(challenge))
	require.NoError(err)
	require.NoError(g.Verify(key.Identity, challenge, sig))

	ed, _, edKey := newTestGate(t, SchemeEd25519)
	require.Equal(edKey.Identity, ed.NormalizeIdentity(edKey.Identity))
}
