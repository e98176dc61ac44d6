package model

import "encoding/json"

// FarmRecord is a staking contract as recorded in the farms snapshot.
//
// StakingTokenAddress and PoolData.PairAddress are filled by different
// upstream processes and either may be empty or stale.
type FarmRecord struct {
	Address             string          `json:"address"`
	StakingTokenAddress string          `json:"stakingTokenAddress"`
	PoolData            *FarmPoolData   `json:"poolData,omitempty"`
	IsFarmDeprecated    bool            `json:"isFarmDeprecated"`
	RewardsData         json.RawMessage `json:"rewardsData,omitempty"`
}

// FarmPoolData is the partial pool snapshot embedded in a farm record.
type FarmPoolData struct {
	PairAddress  string `json:"pairAddress"`
	PairSymbol   string `json:"pairSymbol,omitempty"`
	Token0Symbol string `json:"token0Symbol,omitempty"`
	Token1Symbol string `json:"token1Symbol,omitempty"`
}

// PoolPairAddress returns the nested pool pair address, or "" when absent.
func (f FarmRecord) PoolPairAddress() string {
	if f.PoolData == nil {
		return ""
	}
	return f.PoolData.PairAddress
}
