package aggregate

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"farmScope/internal/address"
	"farmScope/internal/chain"
	"farmScope/internal/match"
	"farmScope/internal/model"
)

const (
	defaultBatchSize    = 20
	defaultConcurrency  = 32
	defaultRetryBackoff = 200 * time.Millisecond
)

// Config controls aggregation behavior.
type Config struct {
	BatchSize    int
	Concurrency  int
	MaxRetries   int
	RetryBackoff time.Duration
}

// Result holds the outcome of a cross-product aggregation. Positions lists
// every evaluated (pool, user) pair, including empty ones; Failures lists
// items that could not be evaluated at all.
type Result struct {
	Positions []model.Position
	Failures  []model.BalanceFailure
}

// Aggregator sums a user's unstaked and staked liquidity per pool.
type Aggregator struct {
	cfg    Config
	lp     BalanceReader
	farms  BalanceReader
	logger *zap.Logger
}

func NewAggregator(cfg Config, lpReader, farmReader BalanceReader, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}

	return &Aggregator{
		cfg:    cfg,
		lp:     lpReader,
		farms:  farmReader,
		logger: logger,
	}
}

// GetPosition reads user's liquidity in pool: the unstaked liquidity-token
// balance plus the stake in every farm matching the pool. Failed reads count
// as zero and are listed in the position's Failures.
func (a *Aggregator) GetPosition(ctx context.Context, pool model.PoolRecord, farms []model.FarmRecord, user string) (model.Position, error) {
	owner, err := address.Normalize(user)
	if err != nil {
		return model.Position{}, fmt.Errorf("normalize user %s: %w", user, err)
	}
	return a.position(ctx, pool, match.FindMatchingFarms(pool, farms), owner)
}

// Positions aggregates every (pool, user) pair. Pools are processed in
// batches; within a batch all pairs run on a bounded worker pool. Item
// errors are recorded in the result; only cancellation aborts.
func (a *Aggregator) Positions(ctx context.Context, pools []model.PoolRecord, farms []model.FarmRecord, users []string) (*Result, error) {
	batches, err := SplitBatches(len(pools), a.cfg.BatchSize)
	if err != nil {
		return nil, err
	}

	idx := match.NewIndex(pools, farms)
	out := newCollector()

	owners := make([]common.Address, len(users))
	valid := make([]bool, len(users))
	for u, user := range users {
		owner, err := address.Normalize(user)
		if err != nil {
			a.logger.Warn("invalid user identifier", zap.String("user", user), zap.Error(err))
			for p := range pools {
				out.addFailure(itemKey{pool: p, user: u}, model.BalanceFailure{
					Pool:   pools[p].PairAddress,
					User:   user,
					Source: model.FailureSourceUser,
					Error:  err.Error(),
				})
			}
			continue
		}
		owners[u] = owner
		valid[u] = true
	}

	pool := pond.NewPool(a.cfg.Concurrency, pond.WithQueueSize(a.cfg.Concurrency*4))
	defer pool.StopAndWait()

	for _, batch := range batches {
		group := pool.NewGroupContext(ctx)
		submitted := 0
		for p := batch.From; p <= batch.To; p++ {
			matched := idx.FarmsForPool(p)
			for u := range users {
				if !valid[u] {
					continue
				}
				submitted++
				group.Submit(func() {
					key := itemKey{pool: p, user: u}
					pos, err := a.position(ctx, pools[p], matched, owners[u])
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						out.addFailure(key, model.BalanceFailure{
							Pool:   pools[p].PairAddress,
							User:   users[u],
							Source: model.FailureSourcePool,
							Error:  err.Error(),
						})
						return
					}
					out.addPosition(key, pos)
				})
			}
		}

		if submitted > 0 {
			if err := group.Wait(); err != nil && !errors.Is(err, pond.ErrGroupStopped) {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		a.logger.Info("batch complete",
			zap.Int("from_pool", batch.From),
			zap.Int("to_pool", batch.To),
			zap.Int("users", len(users)),
		)
	}

	return out.result(), nil
}

func (a *Aggregator) position(ctx context.Context, pool model.PoolRecord, farms []model.FarmRecord, owner common.Address) (model.Position, error) {
	pair, err := address.Normalize(pool.PairAddress)
	if err != nil {
		return model.Position{}, fmt.Errorf("normalize pool %s: %w", pool.PairAddress, err)
	}

	pos := model.Position{
		Pool:         pair.Hex(),
		PoolLabel:    pool.Label(),
		User:         owner.Hex(),
		Unstaked:     new(big.Int),
		StakedByFarm: make(map[string]*big.Int),
	}

	var mu sync.Mutex
	fail := func(farm, source string, err error) {
		mu.Lock()
		pos.Failures = append(pos.Failures, model.BalanceFailure{
			Pool:   pos.Pool,
			Farm:   farm,
			User:   pos.User,
			Source: source,
			Error:  fmt.Errorf("%w: %v", ErrBalanceQueryFailed, err).Error(),
		})
		mu.Unlock()
		a.logger.Warn("balance read degraded",
			zap.String("pool", pos.Pool),
			zap.String("farm", farm),
			zap.String("user", pos.User),
			zap.Error(err),
		)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bal, err := a.read(gctx, a.lp, pair, owner)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fail("", model.FailureSourceLP, err)
			return nil
		}
		mu.Lock()
		pos.Unstaked = bal
		mu.Unlock()
		return nil
	})

	seen := make(map[common.Address]struct{}, len(farms))
	for _, farm := range farms {
		farmAddr, err := address.Normalize(farm.Address)
		if err != nil {
			fail(farm.Address, model.FailureSourceFarm, err)
			continue
		}
		if _, ok := seen[farmAddr]; ok {
			continue
		}
		seen[farmAddr] = struct{}{}

		g.Go(func() error {
			bal, err := a.read(gctx, a.farms, farmAddr, owner)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				fail(farmAddr.Hex(), model.FailureSourceFarm, err)
				return nil
			}
			mu.Lock()
			pos.StakedByFarm[farmAddr.Hex()] = bal
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return model.Position{}, err
	}

	pos.Staked = new(big.Int)
	for farm, bal := range pos.StakedByFarm {
		pos.Staked.Add(pos.Staked, bal)
		if bal.Sign() != 0 {
			pos.ContributingFarms = append(pos.ContributingFarms, farm)
		}
	}
	sort.Strings(pos.ContributingFarms)
	sort.SliceStable(pos.Failures, func(i, j int) bool {
		return pos.Failures[i].Farm < pos.Failures[j].Farm
	})
	pos.Total = new(big.Int).Add(pos.Unstaked, pos.Staked)
	return pos, nil
}

func (a *Aggregator) read(ctx context.Context, reader BalanceReader, token, owner common.Address) (*big.Int, error) {
	if reader == nil {
		return nil, fmt.Errorf("balance reader is nil")
	}
	var bal *big.Int
	err := chain.WithRetry(ctx, a.cfg.MaxRetries, a.cfg.RetryBackoff, func(ctx context.Context) error {
		v, err := reader.BalanceOf(ctx, token, owner)
		if err != nil {
			return err
		}
		if v == nil {
			v = new(big.Int)
		}
		bal = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bal, nil
}
