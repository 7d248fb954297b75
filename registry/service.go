package registry

import (
	"encoding/json"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/alexsserban/starledger/ledger"
	"github.com/alexsserban/starledger/ownership"
)

// ErrInvalidStar is returned for a star missing its coordinates.
var ErrInvalidStar = errors.New("registry: invalid star")

// Archive persists sealed records.
type Archive interface {
	Put(rec ledger.Record) error
}

type serviceConfig struct {
	archive Archive
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(serviceConfig) serviceConfig

// WithArchive persists every sealed record to a.
func WithArchive(a Archive) Option {
	return func(c serviceConfig) serviceConfig {
		c.archive = a
		return c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c serviceConfig) serviceConfig {
		if l != nil {
			c.logger = l
		}
		return c
	}
}

// Service is the star registry: ownership-gated submissions on top of a
// ledger store.
type Service struct {
	store   *ledger.Store
	gate    *ownership.Gate
	archive Archive
	logger  *slog.Logger
}

// New wires a registry over store and gate.
func New(store *ledger.Store, gate *ownership.Gate, opts ...Option) *Service {
	cfg := serviceConfig{logger: slog.Default()}
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	return &Service{
		store:   store,
		gate:    gate,
		archive: cfg.archive,
		logger:  cfg.logger,
	}
}

// Start initializes the store, archiving the genesis record when this call
// created it.
func (s *Service) Start() error {
	_, initialized := s.store.CurrentHeight()
	if err := s.store.Initialize(); err != nil {
		return errors.Wrap(err, "initialize ledger")
	}
	if initialized {
		return nil
	}
	genesis, _ := s.store.GetByHeight(0)
	return s.persist(genesis)
}

// RequestValidation returns the message address has to sign before
// submitting a star.
func (s *Service) RequestValidation(address string) (string, error) {
	return s.gate.IssueChallenge(address)
}

// SubmitStar verifies the signed challenge and seals star as owned by
// address. Violations found in the chain after the append are returned next
// to the sealed record.
func (s *Service) SubmitStar(address, message string, signature []byte, star Star) (ledger.Record, []ledger.Violation, error) {
	if err := star.validate(); err != nil {
		return ledger.Record{}, nil, err
	}
	address = s.gate.NormalizeIdentity(address)
	if err := s.gate.Verify(address, message, signature); err != nil {
		return ledger.Record{}, nil, err
	}

	data, err := json.Marshal(star)
	if err != nil {
		return ledger.Record{}, nil, errors.Wrap(err, "encode star")
	}
	rec, violations, err := s.store.Append(ledger.Payload{Owner: address, Kind: StarKind, Data: data})
	if err != nil {
		return ledger.Record{}, violations, err
	}
	if len(violations) > 0 {
		s.logger.Warn("star sealed onto a chain with violations",
			"block_height", rec.Height,
			"violations", len(violations),
		)
	}
	s.logger.Info("star registered", "identity", address, "block_height", rec.Height, "hash_hex", rec.LinkHash)
	return rec, violations, s.persist(rec)
}

func (s *Service) persist(rec ledger.Record) error {
	if s.archive == nil {
		return nil
	}
	if err := s.archive.Put(rec); err != nil {
		s.logger.Error("failed to archive record", "block_height", rec.Height, "error", err)
		return errors.Wrapf(err, "archive record %d", rec.Height)
	}
	return nil
}

// BlockByHash returns the record sealed with hash.
func (s *Service) BlockByHash(hash string) (ledger.Record, bool) {
	return s.store.GetByHash(hash)
}

// BlockByHeight returns the record at height.
func (s *Service) BlockByHeight(height uint64) (ledger.Record, bool) {
	return s.store.GetByHeight(height)
}

// StarsByOwner returns the stars registered by address in sequence order.
// Any accepted spelling of address finds the same stars.
func (s *Service) StarsByOwner(address string) ([]OwnedStar, error) {
	stars := make([]OwnedStar, 0)
	for _, p := range s.store.GetByOwner(s.gate.NormalizeIdentity(address)) {
		if p.Kind != StarKind {
			continue
		}
		star, err := decodeStar(p.Data)
		if err != nil {
			return nil, err
		}
		stars = append(stars, OwnedStar{Owner: p.Owner, Star: star})
	}
	return stars, nil
}

// ValidateChain re-verifies the whole chain.
func (s *Service) ValidateChain() []ledger.Violation {
	return s.store.Validate()
}

// Height returns the height of the tail record.
func (s *Service) Height() (uint64, bool) {
	return s.store.CurrentHeight()
}
