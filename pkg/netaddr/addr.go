package netaddr

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidAddr = errors.New("invalid address")

// parseOctets splits s by sep and parses exactly len(dst) groups, each one
// an unsigned byte in the given base.
func parseOctets(dst []byte, s string, sep string, base int) error {
	fields := strings.Split(s, sep)
	if len(fields) != len(dst) {
		return errors.Wrapf(ErrInvalidAddr, "%q: expect %d groups, got %d", s, len(dst), len(fields))
	}
	for i, field := range fields {
		v, err := strconv.ParseUint(field, base, 8)
		if err != nil {
			return errors.Wrapf(ErrInvalidAddr, "%q: group %d %q", s, i, field)
		}
		dst[i] = byte(v)
	}
	return nil
}

func isAllOnes(b []byte) bool {
	for _, v := range b {
		if v != 0xff {
			return false
		}
	}
	return true
}
