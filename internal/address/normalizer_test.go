package address

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomAddress(r *rand.Rand) common.Address {
	var a common.Address
	r.Read(a[:])
	if a[0] == 0 {
		a[0] = 1
	}
	return a
}

func TestRoundTripOrdinaryAddress(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		a := randomAddress(r)
		lower := strings.ToLower(a.Hex())

		id, err := ToNativeID(lower)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(id, "0.0."), id)

		back, err := ToEvmAddress(id)
		require.NoError(t, err)
		assert.True(t, strings.EqualFold(lower, back), "%s != %s", lower, back)
		assert.Equal(t, a.Hex(), back)
	}
}

func TestRoundTripTokenServiceAddress(t *testing.T) {
	for _, addr := range []string{
		"0x0000000000000000000000000000000000001234",
		"0x00000000000000000000000200000000000000a9",
		"0x00000000000000000000000000000001000000ff",
	} {
		id, err := ToNativeID(addr)
		require.NoError(t, err, addr)
		back, err := ToEvmAddress(id)
		require.NoError(t, err)
		assert.True(t, strings.EqualFold(addr, back), "%s -> %s -> %s", addr, id, back)
	}
}

func TestToNativeIDTokenService(t *testing.T) {
	id, err := ToNativeID("0x0000000000000000000000000000000000001234")
	require.NoError(t, err)
	assert.Equal(t, "0.0.4660", id)

	id, err = ToNativeID("0x0000000000000000000000020000000000000009")
	require.NoError(t, err)
	assert.Equal(t, "0.2.9", id)
}

func TestToNativeIDFallbackRange(t *testing.T) {
	// account slot empty, number placed in the realm slot
	id, err := ToNativeID("0x0000000000000000000000070000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "0.0.7", id)
}

func TestToNativeIDUnresolvable(t *testing.T) {
	_, err := ToNativeID("0x0000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, ErrUnresolvableAddress)
}

func TestToNativeIDInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "0x1234", "0.0.1234", "0xzz00000000000000000000000000000000000000"} {
		_, err := ToNativeID(input)
		assert.ErrorIs(t, err, ErrInvalidAddress, "input %q", input)
	}
}

func TestToEvmAddressIdempotent(t *testing.T) {
	for _, input := range []string{
		"0xabcdefabcdefabcdefabcdefabcdefabcdefabcd",
		"abcdefabcdefabcdefabcdefabcdefabcdefabcd",
		"0xAbCdEfabcdefabcdefabcdefabcdefabcdefabcd",
	} {
		out, err := ToEvmAddress(input)
		require.NoError(t, err)
		assert.Equal(t, input, out)
	}
}

func TestToEvmAddressFromNativeID(t *testing.T) {
	out, err := ToEvmAddress("0.0.4660")
	require.NoError(t, err)
	assert.Equal(t, "0x0000000000000000000000000000000000001234", out)

	out, err = ToEvmAddress("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "0x0000000100000000000000020000000000000003", out)
}

func TestToEvmAddressInvalid(t *testing.T) {
	for _, input := range []string{"", "0.0", "a.b.c", "0.0.-1", "0.0.1.2", "0x12"} {
		_, err := ToEvmAddress(input)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, "input %q", input)
	}
}

func TestIsTokenServiceAddress(t *testing.T) {
	assert.True(t, IsTokenServiceAddress("0x0000000000000000000000000000000000001234"))
	assert.True(t, IsTokenServiceAddress("00000000ffffffffffffffffffffffffffffffff"))
	assert.False(t, IsTokenServiceAddress("not-an-address"))

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		assert.False(t, IsTokenServiceAddress(randomAddress(r).Hex()))
	}
}

func TestEqual(t *testing.T) {
	lower := "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"
	checksum := common.HexToAddress(lower).Hex()

	assert.True(t, Equal(lower, checksum))
	assert.True(t, Equal(lower, strings.TrimPrefix(lower, "0x")))
	assert.True(t, Equal("0.0.4660", "0x0000000000000000000000000000000000001234"))
	assert.False(t, Equal("", ""))
	assert.False(t, Equal(lower, ""))
	assert.False(t, Equal(lower, "0x0000000000000000000000000000000000001234"))
}

func TestParseAddresses(t *testing.T) {
	got, err := ParseAddresses([]string{" 0.0.4660 ", "", "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, common.HexToAddress("0x1234"), got[0])

	_, err = ParseAddresses([]string{"bogus"})
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}
