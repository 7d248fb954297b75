package ledger

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

// GenesisKind is the payload kind of the record at height 0.
const GenesisKind = "genesis"

var genesisData = []byte("Genesis Block")

// Payload is the application data carried by a record. Owner is optional
// and is the only field the store itself ever inspects.
type Payload struct {
	Owner string
	Kind  string
	Data  []byte
}

// Record is a sealed entry of the chain.
type Record struct {
	Height           uint64
	Timestamp        int64
	PreviousLinkHash string
	LinkHash         string
	Payload          Payload
}

// GenesisPayload returns the sentinel payload of the genesis record.
func GenesisPayload() Payload {
	return Payload{Kind: GenesisKind, Data: append([]byte(nil), genesisData...)}
}

// IsGenesis reports whether p is the sentinel genesis payload.
func (p Payload) IsGenesis() bool {
	return p.Owner == "" && p.Kind == GenesisKind && string(p.Data) == string(genesisData)
}

func (p Payload) clone() Payload {
	if p.Data != nil {
		p.Data = append([]byte(nil), p.Data...)
	}
	return p
}

func (r Record) clone() Record {
	r.Payload = r.Payload.clone()
	return r
}

// PayloadExport is the JSON form of a Payload. Data is hex encoded.
type PayloadExport struct {
	Owner string `json:"owner,omitempty"`
	Kind  string `json:"kind"`
	Data  string `json:"data"`
}

// Export is the serialization unit handed to persistence and display
// collaborators.
type Export struct {
	Height           uint64        `json:"height"`
	Timestamp        int64         `json:"timestamp"`
	PreviousLinkHash string        `json:"previousLinkHash"`
	LinkHash         string        `json:"linkHash"`
	Payload          PayloadExport `json:"payload"`
}

// Export returns the export shape of r.
func (r Record) Export() Export {
	return Export{
		Height:           r.Height,
		Timestamp:        r.Timestamp,
		PreviousLinkHash: r.PreviousLinkHash,
		LinkHash:         r.LinkHash,
		Payload: PayloadExport{
			Owner: r.Payload.Owner,
			Kind:  r.Payload.Kind,
			Data:  hex.EncodeToString(r.Payload.Data),
		},
	}
}

// FromExport rebuilds a record from its export shape. The hashes are taken
// as-is; use Validate to check them.
func FromExport(e Export) (Record, error) {
	data, err := hex.DecodeString(e.Payload.Data)
	if err != nil {
		return Record{}, errors.Wrapf(err, "record %d: invalid payload data", e.Height)
	}
	return Record{
		Height:           e.Height,
		Timestamp:        e.Timestamp,
		PreviousLinkHash: e.PreviousLinkHash,
		LinkHash:         e.LinkHash,
		Payload: Payload{
			Owner: e.Payload.Owner,
			Kind:  e.Payload.Kind,
			Data:  data,
		},
	}, nil
}
