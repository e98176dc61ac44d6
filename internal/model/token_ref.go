package model

// TokenRef identifies one side of a pool.
type TokenRef struct {
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
}
