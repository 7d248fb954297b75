package registry

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// StarKind is the payload kind of a registered star.
const StarKind = "star"

// Star is the celestial object a user registers.
type Star struct {
	Dec   string `json:"dec"`
	Ra    string `json:"ra"`
	Mag   string `json:"mag,omitempty"`
	Cen   string `json:"cen,omitempty"`
	Story string `json:"story"`
}

// OwnedStar is a star together with the address that registered it.
type OwnedStar struct {
	Owner string `json:"owner"`
	Star  Star   `json:"star"`
}

func (s Star) validate() error {
	if strings.TrimSpace(s.Dec) == "" {
		return errors.Wrap(ErrInvalidStar, "dec is required")
	}
	if strings.TrimSpace(s.Ra) == "" {
		return errors.Wrap(ErrInvalidStar, "ra is required")
	}
	return nil
}

func decodeStar(data []byte) (Star, error) {
	var s Star
	if err := json.Unmarshal(data, &s); err != nil {
		return Star{}, errors.Wrap(err, "decode star")
	}
	return s, nil
}
