package ownership

import (
	"log/slog"
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

// Gate issues challenges and verifies signatures over them. It holds at
// most one outstanding challenge per identity.
type Gate struct {
	mu       sync.Mutex
	pending  *cache.Cache
	verifier Verifier

	window    time.Duration
	domainTag string
	clock     clock.Clock
	logger    *slog.Logger
}

// NewGate returns a gate that checks signatures with v.
func NewGate(v Verifier, opts ...GateOption) *Gate {
	cfg := gateConfig{
		window:    DefaultWindow,
		domainTag: DefaultDomainTag,
		clock:     clock.New(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	return &Gate{
		// entries never expire on their own: age is judged against the
		// gate clock in Verify, and take removes whatever it matches
		pending:   cache.New(cache.NoExpiration, 0),
		verifier:  v,
		window:    cfg.window,
		domainTag: cfg.domainTag,
		clock:     cfg.clock,
		logger:    cfg.logger,
	}
}

// DomainTag returns the tag carried by every challenge this gate issues.
func (g *Gate) DomainTag() string { return g.domainTag }

// Window returns the challenge validity window.
func (g *Gate) Window() time.Duration { return g.window }

// NormalizeIdentity returns the spelling of identity under which challenges
// are issued and ownership is recorded.
func (g *Gate) NormalizeIdentity(identity string) string {
	if n, ok := g.verifier.(IdentityNormalizer); ok {
		return n.NormalizeIdentity(identity)
	}
	return identity
}

// IssueChallenge returns a new challenge for identity, replacing any
// challenge still outstanding for it.
func (g *Gate) IssueChallenge(identity string) (string, error) {
	identity = g.NormalizeIdentity(identity)
	if err := checkIdentity(identity); err != nil {
		return "", err
	}
	challenge := Challenge{
		Identity:  identity,
		Timestamp: g.clock.Now().Unix(),
		DomainTag: g.domainTag,
	}.String()

	g.mu.Lock()
	g.pending.Set(identity, challenge, cache.NoExpiration)
	g.mu.Unlock()

	g.logger.Debug("challenge issued", "identity", identity)
	return challenge, nil
}

// Verify checks signature over challenge for identity. The outstanding
// challenge is removed before any check runs, so whatever the outcome a
// second call with the same challenge returns ErrChallengeNotFound.
func (g *Gate) Verify(identity, challenge string, signature []byte) error {
	identity = g.NormalizeIdentity(identity)
	if !g.take(identity, challenge) {
		return ErrChallengeNotFound
	}

	c, err := ParseChallenge(challenge)
	if err != nil {
		return err
	}
	elapsed := g.clock.Now().Unix() - c.Timestamp
	if elapsed >= int64(g.window/time.Second) {
		g.logger.Info("challenge expired", "identity", identity, "elapsed_seconds", elapsed)
		return errors.Wrapf(ErrChallengeExpired, "issued %ds ago", elapsed)
	}

	if err := g.verifier.Verify(identity, []byte(challenge), signature); err != nil {
		g.logger.Info("signature rejected", "identity", identity, "error", err)
		if errors.Is(err, ErrSignatureInvalid) {
			return err
		}
		return errors.Wrap(ErrSignatureInvalid, err.Error())
	}
	return nil
}

// take removes the outstanding challenge of identity if it equals
// challenge. A submission that does not match leaves the outstanding one in
// place.
func (g *Gate) take(identity, challenge string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	stored, ok := g.pending.Get(identity)
	if !ok || stored.(string) != challenge {
		return false
	}
	g.pending.Delete(identity)
	return true
}
