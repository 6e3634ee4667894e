package ens

import (
	"errors"
	"strings"

	"golang.org/x/xerrors"
)

// Mode selects how far a resolution may go beyond a direct registry hit
type Mode string

const (
	// ModeOnchain calls the name's own resolver only. No wildcard
	// delegation and no offchain continuation.
	ModeOnchain Mode = "onchain"
	// ModeAllowOffchainLookup allows wildcard delegation to an ancestor
	// resolver and follows OffchainLookup reverts through gateways.
	ModeAllowOffchainLookup Mode = "offchain"

	DefaultMode = ModeAllowOffchainLookup
)

// ParseMode accepts "onchain" or "offchain", case-insensitive. Empty input
// yields DefaultMode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultMode, nil
	case ModeOnchain:
		return ModeOnchain, nil
	case ModeAllowOffchainLookup:
		return ModeAllowOffchainLookup, nil
	}
	return "", xerrors.Errorf("mode %q: %w", s, ErrInvalidMode)
}

func (m Mode) AllowWildcard() bool {
	return m == ModeAllowOffchainLookup
}

func (m Mode) AllowOffchain() bool {
	return m == ModeAllowOffchainLookup
}

func (m Mode) String() string {
	return string(m)
}

// Direction tells a batch item whether to resolve a name or an address
type Direction string

const (
	// DirectionForward resolves a name to an address
	DirectionForward Direction = "forward"
	// DirectionReverse resolves an address to a name
	DirectionReverse Direction = "reverse"
)

func (d Direction) IsValid() bool {
	return d == DirectionForward || d == DirectionReverse
}

// Item is one entry of a batch
type Item struct {
	Input     string    `json:"input"`
	Direction Direction `json:"direction"`
}

// ErrorKind is the per-item error classification of a batch
type ErrorKind string

const (
	KindNone                    ErrorKind = ""
	KindInvalidDomainName       ErrorKind = "invalidDomainName"
	KindNoResolver              ErrorKind = "noResolver"
	KindEnsUnknown              ErrorKind = "ensUnknown"
	KindTransport               ErrorKind = "transportError"
	KindOffchainLookupInvalid   ErrorKind = "offchainLookupInvalid"
	KindOffchainLookupExhausted ErrorKind = "offchainLookupExhausted"
	KindOffchainLookupTooDeep   ErrorKind = "offchainLookupTooDeep"
)

// ResolveOutput is the outcome of one batch item. Result is the checksummed
// address for forward items and the name for reverse items. Exactly one of
// Result and Error is set.
type ResolveOutput struct {
	Item
	Result string    `json:"result,omitempty"`
	Error  ErrorKind `json:"error,omitempty"`
}

func (o ResolveOutput) Resolved() bool {
	return o.Error == KindNone
}

var (
	ErrInvalidMode = errors.New("invalid resolution mode")

	ErrInvalidDomainName       = errors.New("invalid domain name")
	ErrNoResolver              = errors.New("no resolver")
	ErrEnsUnknown              = errors.New("ens unknown")
	ErrTransport               = errors.New("transport error")
	ErrOffchainLookupInvalid   = errors.New("offchain lookup invalid")
	ErrOffchainLookupExhausted = errors.New("offchain lookup exhausted")
	ErrOffchainLookupTooDeep   = errors.New("offchain lookup too deep")
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidDomainName, KindInvalidDomainName},
	{ErrNoResolver, KindNoResolver},
	{ErrEnsUnknown, KindEnsUnknown},
	{ErrOffchainLookupInvalid, KindOffchainLookupInvalid},
	{ErrOffchainLookupExhausted, KindOffchainLookupExhausted},
	{ErrOffchainLookupTooDeep, KindOffchainLookupTooDeep},
	{ErrTransport, KindTransport},
}

// KindOf classifies err. Errors outside the taxonomy, context errors
// included, are transport errors.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindTransport
}

// Err returns the sentinel error of the kind, nil for KindNone
func (k ErrorKind) Err() error {
	for _, kk := range kinds {
		if kk.kind == k {
			return kk.err
		}
	}
	if k == KindNone {
		return nil
	}
	return ErrTransport
}

// Terminal reports whether retrying the same input can change the answer
func (k ErrorKind) Terminal() bool {
	switch k {
	case KindInvalidDomainName, KindNoResolver, KindEnsUnknown:
		return true
	}
	return false
}
