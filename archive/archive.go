// Package archive persists sealed ledger records in a bbolt file, one
// record per height, in the ledger's export shape.
package archive

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/alexsserban/starledger/ledger"
)

var recordsBucket = []byte("records")

// ErrRecordExists is returned when a height is already archived with
// different content.
var ErrRecordExists = errors.New("archive: a different record is already stored at this height")

// Archive is an append-only record file.
type Archive struct {
	db *bolt.DB
}

// Open opens or creates the archive at path.
func Open(path string) (*Archive, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open archive %s", path)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(recordsBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create records bucket")
	}
	return &Archive{db: db}, nil
}

// Close closes the underlying file.
func (a *Archive) Close() error {
	return a.db.Close()
}

func heightKey(height uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], height)
	return k[:]
}

// Put stores rec under its height. Storing the same record twice is a
// no-op.
func (a *Archive) Put(rec ledger.Record) error {
	value, err := json.Marshal(rec.Export())
	if err != nil {
		return errors.Wrapf(err, "encode record %d", rec.Height)
	}
	return a.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		key := heightKey(rec.Height)
		if existing := b.Get(key); existing != nil {
			if bytes.Equal(existing, value) {
				return nil
			}
			return errors.Wrapf(ErrRecordExists, "height %d", rec.Height)
		}
		return b.Put(key, value)
	})
}

// Records returns every archived record in height order.
func (a *Archive) Records() ([]ledger.Record, error) {
	records := make([]ledger.Record, 0)
	err := a.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(recordsBucket).ForEach(func(k, v []byte) error {
			var e ledger.Export
			if err := json.Unmarshal(v, &e); err != nil {
				return errors.Wrapf(err, "decode record at key %x", k)
			}
			rec, err := ledger.FromExport(e)
			if err != nil {
				return err
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Len returns the number of archived records.
func (a *Archive) Len() (int, error) {
	var n int
	err := a.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(recordsBucket).Stats().KeyN
		return nil
	})
	return n, err
}
