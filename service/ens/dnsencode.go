package ens

import (
	"strings"

	"golang.org/x/xerrors"

	ensdomain "github.com/x-xyz/ensapi/domain/ens"
)

const maxLabelLength = 255

// DNSEncode returns name in DNS wire format: every label prefixed with its
// length, terminated by a zero byte. The root name encodes to a single zero.
func DNSEncode(name string) ([]byte, error) {
	if name == "" {
		return []byte{0}, nil
	}
	out := make([]byte, 0, len(name)+2)
	for _, label := range strings.Split(name, ".") {
		if label == "" || len(label) > maxLabelLength {
			return nil, xerrors.Errorf("dns encode label %q: %w", label, ensdomain.ErrInvalidDomainName)
		}
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	return append(out, 0), nil
}
