package liquidator

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/session-foundation/sn-liquidator/contracts"
	"github.com/session-foundation/sn-liquidator/db"
	"github.com/session-foundation/sn-liquidator/metrics"
	"github.com/session-foundation/sn-liquidator/oxend"
)

const DefaultPollInterval = 30 * time.Second

type Daemon interface {
	GetHeight(ctx context.Context) (uint64, error)
	LiquidationList(ctx context.Context) ([]oxend.LiquidationCandidate, error)
	LiquidationRequest(ctx context.Context, pubkey string) (*oxend.LiquidationSignature, error)
}

// Registry reports the BLS keys currently registered on-chain, in oxend's hex form.
type Registry interface {
	RegisteredBLSKeys(ctx context.Context) (map[string]struct{}, error)
}

type Submitter interface {
	Describe(sig *oxend.LiquidationSignature) (string, error)
	Submit(ctx context.Context, sig *oxend.LiquidationSignature) (common.Hash, error)
}

// Store persists liquidation attempts. It is optional.
type Store interface {
	LiquidatedPubkeys() ([]string, error)
	SaveLiquidation(l *db.Liquidation) error
	SaveLastHeight(height uint64) error
}

type Config struct {
	PollInterval    time.Duration
	MaxLiquidations int
	DryRun          bool
}

type Liquidator struct {
	cfg       Config
	daemon    Daemon
	registry  Registry
	submitter Submitter
	store     Store
	txURL     func(common.Hash) string
	logger    *zap.Logger
	metrics   metrics.Metricer
}

type Option func(*Liquidator)

func WithStore(store Store) Option {
	return func(l *Liquidator) { l.store = store }
}

func WithMetrics(m metrics.Metricer) Option {
	return func(l *Liquidator) { l.metrics = m }
}

// WithTxURL sets how transaction hashes are turned into explorer links.
func WithTxURL(fn func(common.Hash) string) Option {
	return func(l *Liquidator) { l.txURL = fn }
}

func New(cfg Config, daemon Daemon, registry Registry, submitter Submitter, logger *zap.Logger, opts ...Option) *Liquidator {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	l := &Liquidator{
		cfg:       cfg,
		daemon:    daemon,
		registry:  registry,
		submitter: submitter,
		logger:    logger,
		metrics:   metrics.NoopMetrics,
		txURL:     func(h common.Hash) string { return h.Hex() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type loopState struct {
	lastHeight uint64
	liquidated map[string]struct{}
	attempts   int
}

func (l *Liquidator) newLoopState() (*loopState, error) {
	st := &loopState{liquidated: make(map[string]struct{})}
	if l.store == nil {
		return st, nil
	}
	pubkeys, err := l.store.LiquidatedPubkeys()
	if err != nil {
		return nil, err
	}
	for _, pk := range pubkeys {
		st.liquidated[pk] = struct{}{}
	}
	if len(pubkeys) > 0 {
		l.logger.Info("loaded previously liquidated nodes", zap.Int("count", len(pubkeys)))
	}
	return st, nil
}

// Run polls until the context is cancelled or the attempt cap is reached. Reaching the cap
// returns nil.
func (l *Liquidator) Run(ctx context.Context) error {
	st, err := l.newLoopState()
	if err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.iterate(ctx, st) {
			l.logger.Info("max liquidations reached, exiting", zap.Int("attempts", st.attempts))
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.cfg.PollInterval):
		}
	}
}

// iterate runs one poll cycle and reports whether the attempt cap has been reached.
func (l *Liquidator) iterate(ctx context.Context, st *loopState) bool {
	registered, err := l.registry.RegisteredBLSKeys(ctx)
	if err != nil {
		l.logger.Error("failed to fetch registered service nodes", zap.Error(err))
		l.metrics.RecordPollError("registry")
		return false
	}

	height, err := l.daemon.GetHeight(ctx)
	if err != nil {
		l.logger.Error("failed to fetch oxend height", zap.Error(err))
		l.metrics.RecordPollError("height")
		return false
	}
	l.metrics.RecordHeight(height)
	if height <= st.lastHeight {
		l.logger.Debug("height unchanged", zap.Uint64("height", height))
		return false
	}

	list, err := l.daemon.LiquidationList(ctx)
	if err != nil {
		l.logger.Error("failed to fetch liquidation list", zap.Uint64("height", height), zap.Error(err))
		l.metrics.RecordPollError("list")
		return false
	}
	st.lastHeight = height
	if l.store != nil {
		if err := l.store.SaveLastHeight(height); err != nil {
			l.logger.Warn("failed to save last height", zap.Error(err))
		}
	}

	candidates := selectLiquidatable(list, registered, st.liquidated, height, l.logger)
	l.metrics.RecordCandidates(len(list), len(candidates))
	l.logger.Debug("polled liquidation list",
		zap.Uint64("height", height),
		zap.Int("entries", len(list)),
		zap.Int("liquidatable", len(candidates)),
		zap.Int("registered", len(registered)))

	for _, c := range candidates {
		if !l.liquidate(ctx, st, c, height) {
			continue
		}
		st.attempts++
		if l.cfg.MaxLiquidations > 0 && st.attempts >= l.cfg.MaxLiquidations {
			return true
		}
	}
	return false
}

// selectLiquidatable filters the daemon's list down to nodes that are still registered,
// not yet handled in this run, and whose liquidation height has been reached.
func selectLiquidatable(list []oxend.LiquidationCandidate, registered, liquidated map[string]struct{}, height uint64, logger *zap.Logger) []oxend.LiquidationCandidate {
	var out []oxend.LiquidationCandidate
	for _, c := range list {
		if _, ok := liquidated[c.ServiceNodePubkey]; ok {
			continue
		}
		if _, ok := registered[c.BLSKey()]; !ok {
			logger.Debug("skipping node not in contract registry",
				zap.String("pubkey", c.ServiceNodePubkey),
				zap.String("bls_pubkey", c.BLSKey()))
			continue
		}
		if c.LiquidationHeight > height {
			logger.Debug("node not yet liquidatable",
				zap.String("pubkey", c.ServiceNodePubkey),
				zap.Uint64("liquidation_height", c.LiquidationHeight))
			continue
		}
		out = append(out, c)
	}
	return out
}

// liquidate handles one candidate and reports whether it counts as an attempt. A daemon
// refusing to sign does not; any other outcome does.
func (l *Liquidator) liquidate(ctx context.Context, st *loopState, c oxend.LiquidationCandidate, height uint64) bool {
	log := l.logger.With(zap.String("pubkey", c.ServiceNodePubkey))
	rec := &db.Liquidation{
		Pubkey:      c.ServiceNodePubkey,
		BLSPubkey:   c.BLSKey(),
		Height:      height,
		AttemptedAt: time.Now().UTC(),
	}
	defer l.record(log, rec)

	log.Info("liquidating service node", zap.Uint64("liquidation_height", c.LiquidationHeight))
	sig, err := l.daemon.LiquidationRequest(ctx, c.ServiceNodePubkey)
	if err != nil {
		log.Error("failed to obtain liquidation signature", zap.Error(err))
		rec.Status = db.StatusSignatureFailed
		rec.Error = err.Error()
		var rpcErr *oxend.RPCError
		return !errors.As(err, &rpcErr)
	}

	if l.cfg.DryRun {
		desc, err := l.submitter.Describe(sig)
		if err != nil {
			log.Error("failed to build liquidation call", zap.Error(err))
			rec.Status = db.StatusFailed
			rec.Error = err.Error()
			return true
		}
		log.Info("dry run, not submitting\n" + desc)
		st.liquidated[c.ServiceNodePubkey] = struct{}{}
		rec.Status = db.StatusDryRun
		return true
	}

	hash, err := l.submitter.Submit(ctx, sig)
	if err != nil {
		var cerr *contracts.ContractError
		if errors.As(err, &cerr) {
			fields := []zap.Field{zap.String("selector", cerr.Selector.String())}
			if cerr.Known() {
				fields = append(fields, zap.String("error", cerr.Name), zap.String("definition", cerr.Definition))
			}
			log.Error("liquidation rejected by contract: "+cerr.Error(), fields...)
			rec.Status = db.StatusContractError
			rec.ErrorName = cerr.Name
		} else {
			log.Error("liquidation failed", zap.Error(err))
			rec.Status = db.StatusFailed
		}
		rec.Error = err.Error()
		return true
	}

	st.liquidated[c.ServiceNodePubkey] = struct{}{}
	rec.Status = db.StatusSubmitted
	rec.TxHash = hash.Hex()
	rec.TxURL = l.txURL(hash)
	log.Info("liquidation submitted", zap.String("tx", rec.TxURL))
	return true
}

func (l *Liquidator) record(log *zap.Logger, rec *db.Liquidation) {
	l.metrics.RecordAttempt(string(rec.Status))
	if l.store == nil {
		return
	}
	if err := l.store.SaveLiquidation(rec); err != nil {
		log.Warn("failed to save liquidation", zap.Error(err))
	}
}
