package main

import (
	"bytes"
	"encoding/hex"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/require"

	"github.com/alexsserban/starledger/archive"
	"github.com/alexsserban/starledger/ledger"
	"github.com/alexsserban/starledger/ownership"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	pterm.DisableOutput()
	t.Cleanup(pterm.EnableOutput)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSignCommand(t *testing.T) {
	require := require.New(t)
	key, err := ownership.GenerateKey(ownership.SchemeEd25519)
	require.NoError(err)

	out, err := runCmd(t, "sign", "--scheme", "ed25519", "--key", key.PrivateKey, "--message", "x:1:starRegistry")
	require.NoError(err)
	sig, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(out), "0x"))
	require.NoError(err)
	require.NoError(ownership.Ed25519Verifier{}.Verify(key.Identity, []byte("x:1:starRegistry"), sig))

	_, err = runCmd(t, "sign", "--scheme", "rsa", "--key", "00", "--message", "m")
	require.Error(err)
}

func TestVerifyCommand(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "chain.db")

	arch, err := archive.Open(path)
	require.NoError(err)
	s := ledger.NewStore()
	require.NoError(s.Initialize())
	_, _, err = s.Append(ledger.Payload{Owner: "alice", Kind: "star", Data: []byte("{}")})
	require.NoError(err)
	for _, rec := range s.Records() {
		require.NoError(arch.Put(rec))
	}
	require.NoError(arch.Close())

	_, err = runCmd(t, "verify", "--db", path)
	require.NoError(err)

	_, err = runCmd(t, "verify", "--db", path, "--hash", "blake3")
	require.Error(err)
}

func TestPtermLevel(t *testing.T) {
	require.Equal(t, pterm.LogLevelDebug, ptermLevel(slog.LevelDebug))
	require.Equal(t, pterm.LogLevelInfo, ptermLevel(slog.LevelInfo))
	require.Equal(t, pterm.LogLevelWarn, ptermLevel(slog.LevelWarn))
	require.Equal(t, pterm.LogLevelError, ptermLevel(slog.LevelError))
}
