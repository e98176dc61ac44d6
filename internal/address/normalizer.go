package address

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInvalidAddress      = errors.New("invalid address")
	ErrInvalidIdentifier   = errors.New("invalid identifier")
	ErrUnresolvableAddress = errors.New("unresolvable token-service address")
)

// tokenServicePrefixLen is the number of leading zero bytes that mark an
// address as backed by the native token service.
const tokenServicePrefixLen = 4

// IsTokenServiceAddress reports whether addr is a well-formed 20-byte address
// whose leading bytes match the token-service zero prefix.
func IsTokenServiceAddress(addr string) bool {
	addr = strings.TrimSpace(addr)
	if !common.IsHexAddress(addr) {
		return false
	}
	return isTokenService(common.HexToAddress(addr))
}

func isTokenService(a common.Address) bool {
	for _, b := range a[:tokenServicePrefixLen] {
		if b != 0 {
			return false
		}
	}
	return true
}

// ToNativeID converts a 20-byte hex address into a native ledger identifier.
//
// Token-service addresses carry shard, realm and account number in fixed
// slots (4, 8 and 8 bytes). Some minted addresses leave the account slot
// empty and place the number in the realm slot instead, so an empty account
// slot falls back to bytes [4:12]. When both are zero the address is
// reported as unresolvable. Any other address maps to the shard.realm.alias
// form which embeds the full address.
func ToNativeID(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	if !common.IsHexAddress(addr) {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}

	a := common.HexToAddress(addr)
	if !isTokenService(a) {
		return fmt.Sprintf("0.0.%x", a.Bytes()), nil
	}

	realm := binary.BigEndian.Uint64(a[4:12])
	num := binary.BigEndian.Uint64(a[12:20])
	if num == 0 {
		num, realm = realm, 0
	}
	if num == 0 {
		return "", fmt.Errorf("%w: %s", ErrUnresolvableAddress, addr)
	}
	return fmt.Sprintf("0.%d.%d", realm, num), nil
}

// ToEvmAddress converts a native identifier into a checksum-cased hex address.
// Input that is already a hex address is returned unchanged.
func ToEvmAddress(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	if common.IsHexAddress(id) {
		return id, nil
	}

	parts := strings.Split(id, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: %s", ErrInvalidIdentifier, id)
	}
	shard, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return "", fmt.Errorf("%w: shard %q", ErrInvalidIdentifier, parts[0])
	}
	realm, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: realm %q", ErrInvalidIdentifier, parts[1])
	}

	// shard.realm.<40 hex> embeds the address directly.
	if len(parts[2]) == 2*common.AddressLength && common.IsHexAddress(parts[2]) {
		return common.HexToAddress(parts[2]).Hex(), nil
	}

	num, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: num %q", ErrInvalidIdentifier, parts[2])
	}

	var a common.Address
	binary.BigEndian.PutUint32(a[0:4], uint32(shard))
	binary.BigEndian.PutUint64(a[4:12], realm)
	binary.BigEndian.PutUint64(a[12:20], num)
	return a.Hex(), nil
}

// Normalize resolves either encoding into a common.Address.
func Normalize(input string) (common.Address, error) {
	evm, err := ToEvmAddress(input)
	if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(evm), nil
}

// Canonical returns the lowercase 0x-prefixed form used for equality.
func Canonical(input string) (string, bool) {
	a, err := Normalize(input)
	if err != nil {
		return "", false
	}
	return strings.ToLower(a.Hex()), true
}

// Equal compares two addresses in any supported encoding. Inputs that fail
// to normalize are never equal, including two empty strings.
func Equal(a, b string) bool {
	ca, ok := Canonical(a)
	if !ok {
		return false
	}
	cb, ok := Canonical(b)
	if !ok {
		return false
	}
	return ca == cb
}
