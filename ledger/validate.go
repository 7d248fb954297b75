package ledger

import "fmt"

// ViolationKind classifies an integrity violation.
type ViolationKind string

const (
	// Tampered means the stored LinkHash does not match the recomputed one.
	Tampered ViolationKind = "TAMPERED"
	// BrokenLink means PreviousLinkHash does not match the predecessor's LinkHash.
	BrokenLink ViolationKind = "BROKEN_LINK"
	// OutOfSequence means the height does not match the position in the chain.
	OutOfSequence ViolationKind = "OUT_OF_SEQUENCE"
	// TimeRegression means the timestamp is earlier than the predecessor's.
	TimeRegression ViolationKind = "TIME_REGRESSION"
)

// Violation is one integrity finding. Violations are data, not errors.
type Violation struct {
	Height  uint64        `json:"height"`
	Kind    ViolationKind `json:"kind"`
	Message string        `json:"message,omitempty"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s at height %d: %s", v.Kind, v.Height, v.Message)
}

// Validate walks records once and returns every violation found, in
// sequence order. A valid chain yields an empty, non-nil slice.
//
// Violations are tagged with the position of the offending record in
// records, never with its stored Height, which may itself be forged.
//
// A link is intact only when PreviousLinkHash equals both the stored and
// the recomputed LinkHash of the predecessor, so a modified record is
// reported as TAMPERED at its own height and as BROKEN_LINK at the next.
//
// Besides TAMPERED and BROKEN_LINK the report carries OUT_OF_SEQUENCE when
// a stored height differs from its position and TIME_REGRESSION when a
// timestamp precedes its predecessor's. Consumers switching on Kind must
// expect all four; a backdated timestamp, for instance, yields TAMPERED and
// TIME_REGRESSION at its height and BROKEN_LINK at the next.
func Validate(h Hasher, records []Record) []Violation {
	violations := make([]Violation, 0)
	var previousRecomputed string
	for i, rec := range records {
		height := uint64(i)
		if rec.Height != height {
			violations = append(violations, Violation{
				Height:  height,
				Kind:    OutOfSequence,
				Message: fmt.Sprintf("stored height %d", rec.Height),
			})
		}

		recomputed := LinkHash(h, rec)
		if rec.LinkHash != recomputed {
			violations = append(violations, Violation{
				Height:  height,
				Kind:    Tampered,
				Message: fmt.Sprintf("link hash %s, recomputed %s", rec.LinkHash, recomputed),
			})
		}
		previous := previousRecomputed
		previousRecomputed = recomputed

		if i == 0 {
			if rec.PreviousLinkHash != "" {
				violations = append(violations, Violation{
					Height:  height,
					Kind:    BrokenLink,
					Message: "genesis record has a previous link",
				})
			}
			continue
		}

		predecessor := records[i-1]
		switch {
		case rec.PreviousLinkHash != predecessor.LinkHash:
			violations = append(violations, Violation{
				Height:  height,
				Kind:    BrokenLink,
				Message: fmt.Sprintf("previous link %s, predecessor hash %s", rec.PreviousLinkHash, predecessor.LinkHash),
			})
		case rec.PreviousLinkHash != previous:
			violations = append(violations, Violation{
				Height:  height,
				Kind:    BrokenLink,
				Message: fmt.Sprintf("previous link %s, predecessor recomputes to %s", rec.PreviousLinkHash, previous),
			})
		}
		if rec.Timestamp < predecessor.Timestamp {
			violations = append(violations, Violation{
				Height:  height,
				Kind:    TimeRegression,
				Message: fmt.Sprintf("timestamp %d before predecessor %d", rec.Timestamp, predecessor.Timestamp),
			})
		}
	}
	return violations
}
