package address

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ParseAddresses converts identifiers or hex addresses into common.Address.
func ParseAddresses(inputs []string) ([]common.Address, error) {
	addresses := make([]common.Address, 0, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		addr, err := Normalize(input)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", input, err)
		}
		addresses = append(addresses, addr)
	}
	return addresses, nil
}
