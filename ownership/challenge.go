package ownership

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const challengeSeparator = ":"

// Challenge is the parsed form of a challenge string.
type Challenge struct {
	Identity  string
	Timestamp int64
	DomainTag string
}

// String returns the exact string that has to be signed.
func (c Challenge) String() string {
	return c.Identity + challengeSeparator + strconv.FormatInt(c.Timestamp, 10) + challengeSeparator + c.DomainTag
}

// ParseChallenge splits s into its three fields.
func ParseChallenge(s string) (Challenge, error) {
	parts := strings.Split(s, challengeSeparator)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return Challenge{}, errors.Wrapf(ErrMalformedChallenge, "%q", s)
	}
	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Challenge{}, errors.Wrapf(ErrMalformedChallenge, "timestamp %q", parts[1])
	}
	return Challenge{Identity: parts[0], Timestamp: ts, DomainTag: parts[2]}, nil
}

func checkIdentity(identity string) error {
	if strings.TrimSpace(identity) == "" {
		return errors.Wrap(ErrInvalidIdentity, "empty")
	}
	if strings.Contains(identity, challengeSeparator) {
		return errors.Wrapf(ErrInvalidIdentity, "%q contains %q", identity, challengeSeparator)
	}
	return nil
}
