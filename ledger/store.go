package ledger

import (
	"log/slog"
	"sync"

	"github.com/facebookgo/clock"
)

// Store owns the ordered sequence of sealed records.
type Store struct {
	mu      sync.RWMutex
	records []Record

	hasher Hasher
	clock  clock.Clock
	logger *slog.Logger
	strict bool
}

// NewStore creates an empty store. Call Initialize before appending.
func NewStore(opts ...Option) *Store {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	return &Store{
		records: make([]Record, 0),
		hasher:  cfg.hasher,
		clock:   cfg.clock,
		logger:  cfg.logger,
		strict:  cfg.strict,
	}
}

// Restore builds a store from previously sealed records without resealing
// them, and reports the violations found in the restored chain.
func Restore(records []Record, opts ...Option) (*Store, []Violation) {
	s := NewStore(opts...)
	for _, rec := range records {
		s.records = append(s.records, rec.clone())
	}
	violations := Validate(s.hasher, s.records)
	if len(violations) > 0 {
		s.logger.Warn("restored chain has integrity violations",
			"records", len(s.records),
			"violations", len(violations),
		)
	}
	return s, violations
}

// Hasher returns the digest used by the store.
func (s *Store) Hasher() Hasher { return s.hasher }

// Initialize seals and appends the genesis record if the store is empty.
// Calling it on a non-empty store is a no-op unless the existing genesis
// record fails its integrity checks.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) > 0 {
		return s.checkGenesis()
	}

	genesis := s.seal(GenesisPayload(), nil)
	s.records = append(s.records, genesis)
	s.logger.Info("genesis record sealed", "hash_hex", genesis.LinkHash)
	return nil
}

func (s *Store) checkGenesis() error {
	g := s.records[0]
	switch {
	case g.Height != 0:
		return ErrAlreadyInitializedMismatch
	case g.PreviousLinkHash != "":
		return ErrAlreadyInitializedMismatch
	case !g.Payload.IsGenesis():
		return ErrAlreadyInitializedMismatch
	case LinkHash(s.hasher, g) != g.LinkHash:
		return ErrAlreadyInitializedMismatch
	}
	return nil
}

// Append seals payload onto the tail of the chain and returns the sealed
// record. The whole chain is validated after the push; violations found
// there do not fail the append and are returned to the caller instead.
func (s *Store) Append(payload Payload) (Record, []Violation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		return Record{}, nil, ErrStoreUninitialized
	}
	if s.strict {
		if violations := Validate(s.hasher, s.records); len(violations) > 0 {
			return Record{}, violations, ErrChainCorrupted
		}
	}

	tail := s.records[len(s.records)-1]
	rec := s.seal(payload.clone(), &tail)
	s.records = append(s.records, rec)

	violations := Validate(s.hasher, s.records)
	if len(violations) > 0 {
		s.logger.Warn("chain has integrity violations after append",
			"block_height", rec.Height,
			"violations", len(violations),
		)
	}
	s.logger.Debug("record appended", "block_height", rec.Height, "hash_hex", rec.LinkHash)
	return rec.clone(), violations, nil
}

// seal assigns height, timestamp and links. The timestamp never goes
// backwards relative to the tail.
func (s *Store) seal(payload Payload, tail *Record) Record {
	rec := Record{
		Timestamp: s.clock.Now().Unix(),
		Payload:   payload,
	}
	if tail != nil {
		rec.Height = tail.Height + 1
		rec.PreviousLinkHash = tail.LinkHash
		if rec.Timestamp < tail.Timestamp {
			rec.Timestamp = tail.Timestamp
		}
	}
	rec.LinkHash = LinkHash(s.hasher, rec)
	return rec
}

// GetByHash returns the first record whose LinkHash equals hash.
func (s *Store) GetByHash(hash string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.records {
		if rec.LinkHash == hash {
			return rec.clone(), true
		}
	}
	return Record{}, false
}

// GetByHeight returns the first record whose stored Height equals height.
// On a chain restored with out-of-sequence heights the record found may sit
// at a different position.
func (s *Store) GetByHeight(height uint64) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if height < uint64(len(s.records)) && s.records[height].Height == height {
		return s.records[height].clone(), true
	}
	for _, rec := range s.records {
		if rec.Height == height {
			return rec.clone(), true
		}
	}
	return Record{}, false
}

// GetByOwner returns, in sequence order, the payloads attributed to
// identity. The result is empty when nothing matches.
func (s *Store) GetByOwner(identity string) []Payload {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payloads := make([]Payload, 0)
	if identity == "" {
		return payloads
	}
	for _, rec := range s.records {
		if rec.Payload.Owner == identity {
			payloads = append(payloads, rec.Payload.clone())
		}
	}
	return payloads
}

// CurrentHeight returns the height of the tail record. ok is false before
// the genesis record has been sealed.
func (s *Store) CurrentHeight() (height uint64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return 0, false
	}
	return s.records[len(s.records)-1].Height, true
}

// Validate checks a consistent snapshot of the chain.
func (s *Store) Validate() []Violation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Validate(s.hasher, s.records)
}

// Records returns a copy of the whole chain.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.clone()
	}
	return out
}
