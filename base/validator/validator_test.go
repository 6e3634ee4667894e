package validator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ValidatorTestSuite struct {
	suite.Suite
}

func TestValidatorTestSuite(t *testing.T) {
	suite.Run(t, new(ValidatorTestSuite))
}

func (s *ValidatorTestSuite) TestIsValidAddress() {
	tests := []struct {
		desc       string
		address    string
		expIsValid bool
	}{
		{
			desc:       "invalid address",
			address:    "0x000",
			expIsValid: false,
		},
		{
			desc:       "valid address - checksummed",
			address:    "0x4FaBE0A3a4DDd9968A7b4565184Ad0eFA7BE5411",
			expIsValid: true,
		},
		{
			desc:       "valid address - lower case",
			address:    "0x939ae6a4c8dfdbb1f7085189574f0a938013952b",
			expIsValid: true,
		},
		{
			desc:       "invalid address - bad checksum",
			address:    "0x4fABE0A3a4DDd9968A7b4565184Ad0eFA7BE5411",
			expIsValid: false,
		},
		{
			desc:       "invalid address - name",
			address:    "vitalik.eth",
			expIsValid: false,
		},
	}
	for _, t := range tests {
		s.Equal(t.expIsValid, IsValidAddress(t.address), t.desc)
	}
}

type reverseRequest struct {
	Address string `validate:"required,ethaddr"`
	Mode    string `validate:"omitempty,oneof=onchain offchain"`
}

func (s *ValidatorTestSuite) TestCustomValidator() {
	v := NewCustomValidator(New())

	s.NoError(v.Validate(&reverseRequest{Address: "0x939ae6a4c8dfdbb1f7085189574f0a938013952b"}))
	s.NoError(v.Validate(&reverseRequest{Address: "0x939ae6a4c8dfdbb1f7085189574f0a938013952b", Mode: "offchain"}))
	s.Error(v.Validate(&reverseRequest{Address: "0x1234"}))
	s.Error(v.Validate(&reverseRequest{Address: "0x939ae6a4c8dfdbb1f7085189574f0a938013952b", Mode: "fast"}))
	s.Error(v.Validate(&reverseRequest{}))
}
