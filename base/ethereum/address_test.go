package ethereum

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		desc    string
		input   string
		want    common.Address
		wantErr error
	}{
		{
			desc:  "lower case",
			input: "0xb0b874220ff95d62a676f58d186c832b3e6529c8",
			want:  common.HexToAddress("0xb0b874220ff95d62a676f58d186c832b3e6529c8"),
		},
		{
			desc:  "checksummed",
			input: "0x4FaBE0A3a4DDd9968A7b4565184Ad0eFA7BE5411",
			want:  common.HexToAddress("0x4fabe0a3a4ddd9968a7b4565184ad0efa7be5411"),
		},
		{
			desc:  "no prefix",
			input: "09b5bd82f3351a4c8437fc6d7772a9e6cd5d25a1",
			want:  common.HexToAddress("0x09b5bd82f3351a4c8437fc6d7772a9e6cd5d25a1"),
		},
		{
			desc:    "bad checksum",
			input:   "0x4FABE0A3a4DDd9968A7b4565184Ad0eFA7BE5411",
			wantErr: ErrInvalidAddress,
		},
		{
			desc:    "too short",
			input:   "0x1234",
			wantErr: ErrInvalidAddress,
		},
		{
			desc:    "name",
			input:   "vitalik.eth",
			wantErr: ErrInvalidAddress,
		},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := ParseAddress(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLowerHexNoPrefix(t *testing.T) {
	addr := common.HexToAddress("0x4FaBE0A3a4DDd9968A7b4565184Ad0eFA7BE5411")
	assert.Equal(t, "4fabe0a3a4ddd9968a7b4565184ad0efa7be5411", LowerHexNoPrefix(addr))
	assert.False(t, IsZero(addr))
	assert.True(t, IsZero(common.Address{}))
}
