package ens

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/xerrors"
)

type EnsDomainTestSuite struct {
	suite.Suite
}

func TestEnsDomainTestSuite(t *testing.T) {
	suite.Run(t, new(EnsDomainTestSuite))
}

func (s *EnsDomainTestSuite) TestParseMode() {
	tests := []struct {
		in     string
		exp    Mode
		expErr bool
	}{
		{"", DefaultMode, false},
		{"onchain", ModeOnchain, false},
		{" OnChain ", ModeOnchain, false},
		{"offchain", ModeAllowOffchainLookup, false},
		{"wildcard", "", true},
	}
	for _, t := range tests {
		m, err := ParseMode(t.in)
		if t.expErr {
			s.ErrorIs(err, ErrInvalidMode, t.in)
			continue
		}
		s.NoError(err, t.in)
		s.Equal(t.exp, m, t.in)
	}
}

func (s *EnsDomainTestSuite) TestModeCapabilities() {
	s.False(ModeOnchain.AllowWildcard())
	s.False(ModeOnchain.AllowOffchain())
	s.True(ModeAllowOffchainLookup.AllowWildcard())
	s.True(ModeAllowOffchainLookup.AllowOffchain())
}

func (s *EnsDomainTestSuite) TestKindOf() {
	tests := []struct {
		err error
		exp ErrorKind
	}{
		{nil, KindNone},
		{xerrors.Errorf("name %q: %w", "a..b", ErrInvalidDomainName), KindInvalidDomainName},
		{xerrors.Errorf("wrap: %w", ErrNoResolver), KindNoResolver},
		{ErrEnsUnknown, KindEnsUnknown},
		{xerrors.Errorf("registry: %w", ErrTransport), KindTransport},
		{ErrOffchainLookupInvalid, KindOffchainLookupInvalid},
		{ErrOffchainLookupExhausted, KindOffchainLookupExhausted},
		{ErrOffchainLookupTooDeep, KindOffchainLookupTooDeep},
		{context.DeadlineExceeded, KindTransport},
		{errors.New("something else"), KindTransport},
	}
	for _, t := range tests {
		s.Equal(t.exp, KindOf(t.err), "%v", t.err)
		if t.exp != KindNone {
			s.ErrorIs(t.exp.Err(), KindOf(t.exp.Err()).Err())
		}
	}
	s.Nil(KindNone.Err())
}

func (s *EnsDomainTestSuite) TestTerminal() {
	s.True(KindEnsUnknown.Terminal())
	s.True(KindNoResolver.Terminal())
	s.False(KindTransport.Terminal())
	s.False(KindOffchainLookupExhausted.Terminal())
}

func (s *EnsDomainTestSuite) TestResolved() {
	s.True(ResolveOutput{Result: "0x01"}.Resolved())
	s.False(ResolveOutput{Error: KindEnsUnknown}.Resolved())
}
