package registry

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/alexsserban/starledger/ledger"
	"github.com/alexsserban/starledger/ownership"
)

type memArchive struct {
	mu      sync.Mutex
	records []ledger.Record
	fail    error
}

func (a *memArchive) Put(rec ledger.Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fail != nil {
		return a.fail
	}
	a.records = append(a.records, rec)
	return nil
}

type fixture struct {
	svc     *Service
	clk     *clock.Mock
	archive *memArchive
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clk := clock.NewMock()
	clk.Add(1700000000 * time.Second)
	archive := &memArchive{}
	store := ledger.NewStore(ledger.WithClock(clk))
	gate := ownership.NewGate(ownership.EthereumVerifier{}, ownership.WithClock(clk))
	svc := New(store, gate, WithArchive(archive))
	require.NoError(t, svc.Start())
	return fixture{svc: svc, clk: clk, archive: archive}
}

func (f fixture) submit(t *testing.T, key ownership.KeyPair, star Star) (ledger.Record, error) {
	t.Helper()
	msg, err := f.svc.RequestValidation(key.Identity)
	require.NoError(t, err)
	sig, err := ownership.Sign(key.Scheme, key.PrivateKey, []byte(msg))
	require.NoError(t, err)
	rec, violations, err := f.svc.SubmitStar(key.Identity, msg, sig, star)
	require.Empty(t, violations)
	return rec, err
}

func TestStartArchivesGenesisOnce(t *testing.T) {
	f := newFixture(t)
	require.Len(t, f.archive.records, 1)
	require.True(t, f.archive.records[0].Payload.IsGenesis())

	require.NoError(t, f.svc.Start())
	require.Len(t, f.archive.records, 1)
}

func TestSubmitStarFlow(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	alice, err := ownership.GenerateKey(ownership.SchemeEthereum)
	require.NoError(err)
	bob, err := ownership.GenerateKey(ownership.SchemeEthereum)
	require.NoError(err)

	stars := []struct {
		key  ownership.KeyPair
		star Star
	}{
		{alice, Star{Dec: "68° 52' 56.9", Ra: "16h 29m 1.0s", Story: "first"}},
		{bob, Star{Dec: "-26° 29' 24.9", Ra: "16h 29m 1.0s", Story: "bob's"}},
		{alice, Star{Dec: "12° 00' 00.0", Ra: "01h 00m 0.0s", Story: "second"}},
	}
	var last ledger.Record
	for i, s := range stars {
		f.clk.Add(time.Second)
		rec, err := f.submit(t, s.key, s.star)
		require.NoError(err)
		require.Equal(uint64(i+1), rec.Height)
		require.Equal(s.key.Identity, rec.Payload.Owner)
		last = rec
	}

	owned, err := f.svc.StarsByOwner(alice.Identity)
	require.NoError(err)
	require.Len(owned, 2)
	require.Equal("first", owned[0].Star.Story)
	require.Equal("second", owned[1].Star.Story)
	require.Equal(alice.Identity, owned[0].Owner)

	none, err := f.svc.StarsByOwner("0x0000000000000000000000000000000000000000")
	require.NoError(err)
	require.Empty(none)

	got, ok := f.svc.BlockByHash(last.LinkHash)
	require.True(ok)
	require.Equal(last, got)
	got, ok = f.svc.BlockByHeight(2)
	require.True(ok)
	require.Equal(bob.Identity, got.Payload.Owner)

	height, ok := f.svc.Height()
	require.True(ok)
	require.Equal(uint64(3), height)
	require.Empty(f.svc.ValidateChain())
	require.Len(f.archive.records, 4)
}

func TestSubmitStarRejections(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	alice, err := ownership.GenerateKey(ownership.SchemeEthereum)
	require.NoError(err)
	mallory, err := ownership.GenerateKey(ownership.SchemeEthereum)
	require.NoError(err)
	star := Star{Dec: "1", Ra: "2", Story: "s"}

	_, _, err = f.svc.SubmitStar(alice.Identity, "", nil, Star{Ra: "2"})
	require.True(errors.Is(err, ErrInvalidStar))

	msg, err := f.svc.RequestValidation(alice.Identity)
	require.NoError(err)
	forged, err := ownership.Sign(ownership.SchemeEthereum, mallory.PrivateKey, []byte(msg))
	require.NoError(err)
	_, _, err = f.svc.SubmitStar(alice.Identity, msg, forged, star)
	require.True(errors.Is(err, ownership.ErrSignatureInvalid))

	msg, err = f.svc.RequestValidation(alice.Identity)
	require.NoError(err)
	sig, err := ownership.Sign(ownership.SchemeEthereum, alice.PrivateKey, []byte(msg))
	require.NoError(err)
	f.clk.Add(5 * time.Minute)
	_, _, err = f.svc.SubmitStar(alice.Identity, msg, sig, star)
	require.True(errors.Is(err, ownership.ErrChallengeExpired))

	_, _, err = f.svc.SubmitStar(alice.Identity, msg, sig, star)
	require.True(errors.Is(err, ownership.ErrChallengeNotFound))

	height, _ := f.svc.Height()
	require.Equal(uint64(0), height)
}

func TestSubmitStarReportsArchiveFailure(t *testing.T) {
	f := newFixture(t)
	f.archive.fail = errors.New("disk full")
	alice, err := ownership.GenerateKey(ownership.SchemeEthereum)
	require.NoError(t, err)

	rec, err := f.submit(t, alice, Star{Dec: "1", Ra: "2"})
	require.Error(t, err)
	require.Equal(t, uint64(1), rec.Height)
}

func TestStarsByOwnerAcceptsAnyAddressCase(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	alice, err := ownership.GenerateKey(ownership.SchemeEthereum)
	require.NoError(err)
	lower := strings.ToLower(alice.Identity)

	msg, err := f.svc.RequestValidation(lower)
	require.NoError(err)
	sig, err := ownership.Sign(alice.Scheme, alice.PrivateKey, []byte(msg))
	require.NoError(err)
	rec, _, err := f.svc.SubmitStar(lower, msg, sig, Star{Dec: "1", Ra: "2", Story: "lower"})
	require.NoError(err)
	require.Equal(alice.Identity, rec.Payload.Owner)

	f.clk.Add(time.Second)
	_, err = f.submit(t, alice, Star{Dec: "3", Ra: "4", Story: "checksummed"})
	require.NoError(err)

	for _, query := range []string{alice.Identity, lower, "0x" + strings.ToUpper(lower[2:])} {
		owned, err := f.svc.StarsByOwner(query)
		require.NoError(err)
		require.Len(owned, 2, "query %s", query)
		require.Equal("lower", owned[0].Star.Story)
		require.Equal("checksummed", owned[1].Star.Story)
	}
}
