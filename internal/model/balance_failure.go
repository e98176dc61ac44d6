package model

const (
	FailureSourceUser = "user"
	FailureSourceLP   = "lp"
	FailureSourceFarm = "farm"
	// FailureSourcePool marks a snapshot pool whose pair address is malformed.
	FailureSourcePool = "pool"
)

// BalanceFailure records a read that was degraded to zero.
type BalanceFailure struct {
	Pool   string `json:"pool"`
	Farm   string `json:"farm,omitempty"`
	User   string `json:"user"`
	Source string `json:"source"`
	Error  string `json:"error"`
}
