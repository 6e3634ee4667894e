package ens

import (
	"errors"
	"strings"
	"unicode/utf8"

	goens "github.com/wealdtech/go-ens/v3"
	"golang.org/x/xerrors"

	ensdomain "github.com/x-xyz/ensapi/domain/ens"
)

// NormalizePolicy decides how a name is transformed before hashing
type NormalizePolicy string

const (
	// NormalizeNone hashes names exactly as given, upper case included
	NormalizeNone NormalizePolicy = "none"
	// NormalizeUTS46 applies the UTS-46 mapping of ENS names, which
	// lower-cases ASCII and rejects disallowed code points
	NormalizeUTS46 NormalizePolicy = "uts46"
)

var ErrInvalidNormalizePolicy = errors.New("invalid normalize policy")

func ParseNormalizePolicy(s string) (NormalizePolicy, error) {
	switch NormalizePolicy(strings.ToLower(s)) {
	case "", NormalizeNone:
		return NormalizeNone, nil
	case NormalizeUTS46:
		return NormalizeUTS46, nil
	}
	return "", xerrors.Errorf("%q: %w", s, ErrInvalidNormalizePolicy)
}

// Apply validates name and returns the form that gets hashed
func (p NormalizePolicy) Apply(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	if p != NormalizeUTS46 {
		return name, nil
	}
	normalized, err := goens.Normalize(name)
	if err != nil {
		return "", xerrors.Errorf("normalize %q: %v: %w", name, err, ensdomain.ErrInvalidDomainName)
	}
	if err := validateName(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// validateName rejects what cannot name a node: the empty name, empty labels
// and invalid utf-8.
func validateName(name string) error {
	if name == "" {
		return xerrors.Errorf("empty name: %w", ensdomain.ErrInvalidDomainName)
	}
	if !utf8.ValidString(name) {
		return xerrors.Errorf("name %q is not utf-8: %w", name, ensdomain.ErrInvalidDomainName)
	}
	for _, label := range strings.Split(name, ".") {
		if label == "" {
			return xerrors.Errorf("name %q has an empty label: %w", name, ensdomain.ErrInvalidDomainName)
		}
		if len(label) > maxLabelLength {
			return xerrors.Errorf("name %q has a label over %d bytes: %w", name, maxLabelLength, ensdomain.ErrInvalidDomainName)
		}
	}
	return nil
}
