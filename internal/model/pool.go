package model

// PoolRecord is a liquidity pair as recorded in the pools snapshot.
type PoolRecord struct {
	PairAddress    string `json:"pairAddress"`
	PairName       string `json:"pairName,omitempty"`
	PairSymbol     string `json:"pairSymbol,omitempty"`
	Token0Address  string `json:"token0Address,omitempty"`
	Token0Symbol   string `json:"token0Symbol"`
	Token0Decimals uint8  `json:"token0Decimals"`
	Token1Address  string `json:"token1Address,omitempty"`
	Token1Symbol   string `json:"token1Symbol"`
	Token1Decimals uint8  `json:"token1Decimals"`
}

func (p PoolRecord) Token0() TokenRef {
	return TokenRef{Address: p.Token0Address, Decimals: p.Token0Decimals, Symbol: p.Token0Symbol}
}

func (p PoolRecord) Token1() TokenRef {
	return TokenRef{Address: p.Token1Address, Decimals: p.Token1Decimals, Symbol: p.Token1Symbol}
}

// Label returns a short human-readable name for reports.
func (p PoolRecord) Label() string {
	if p.PairName != "" {
		return p.PairName
	}
	if p.Token0Symbol != "" || p.Token1Symbol != "" {
		return p.Token0Symbol + "/" + p.Token1Symbol
	}
	return p.PairAddress
}
