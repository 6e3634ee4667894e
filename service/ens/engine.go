package ens

import (
	"errors"
	"strings"
	"time"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	baseabi "github.com/x-xyz/ensapi/base/abi"
	bCtx "github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/ethereum"
	"github.com/x-xyz/ensapi/base/metrics"
	ensdomain "github.com/x-xyz/ensapi/domain/ens"
	"github.com/x-xyz/ensapi/service/ccip"
	"github.com/x-xyz/ensapi/service/chain"
	"github.com/x-xyz/ensapi/service/chain/contract"
)

// DefaultRegistryAddress is the ENS registry on mainnet and the main testnets
var DefaultRegistryAddress = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

const (
	// "one extra level of continuation" is read as one nested lookup on top
	// of the first: two OffchainLookup reverts are followed, a third is
	// offchainLookupTooDeep
	offchainLookupLimit = 2

	defaultCallTimeout  = 10 * time.Second
	defaultBatchWorkers = 8
)

type Config struct {
	RegistryAddress common.Address
	Normalize       NormalizePolicy
	// CallTimeout bounds every registry and resolver call
	CallTimeout  time.Duration
	BatchWorkers int
}

func (c *Config) setDefaults() {
	if ethereum.IsZero(c.RegistryAddress) {
		c.RegistryAddress = DefaultRegistryAddress
	}
	if c.Normalize == "" {
		c.Normalize = NormalizeNone
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = defaultCallTimeout
	}
	if c.BatchWorkers <= 0 {
		c.BatchWorkers = defaultBatchWorkers
	}
}

// ConfigFromViper reads the ens sub tree: registry, normalize, callTimeout
// and batchWorkers. v may be nil.
func ConfigFromViper(v *viper.Viper) (Config, error) {
	cfg := Config{}
	if v == nil {
		cfg.setDefaults()
		return cfg, nil
	}
	if s := strings.TrimSpace(v.GetString("registry")); s != "" {
		addr, err := ethereum.ParseAddress(s)
		if err != nil {
			return Config{}, xerrors.Errorf("ens.registry: %w", err)
		}
		cfg.RegistryAddress = addr
	}
	policy, err := ParseNormalizePolicy(v.GetString("normalize"))
	if err != nil {
		return Config{}, xerrors.Errorf("ens.normalize: %w", err)
	}
	cfg.Normalize = policy
	cfg.CallTimeout = v.GetDuration("callTimeout")
	cfg.BatchWorkers = v.GetInt("batchWorkers")
	cfg.setDefaults()
	return cfg, nil
}

// Engine resolves names against one registry. It holds no mutable state and
// is safe for concurrent use.
type Engine struct {
	cfg       Config
	caller    chain.Caller
	registry  *Registry
	resolvers contract.EnsResolverContract
	offchain  *offchainHandler
	met       metrics.Service
}

func NewEngine(client chain.Client, gateway ccip.Gateway, met metrics.Service, cfg Config) *Engine {
	cfg.setDefaults()
	return &Engine{
		cfg:       cfg,
		caller:    client.Caller(),
		registry:  NewRegistry(contract.NewEnsRegistry(client, cfg.RegistryAddress), cfg.CallTimeout),
		resolvers: contract.NewEnsResolver(client),
		offchain: &offchainHandler{
			gateway: gateway,
			met:     met,
		},
		met: met,
	}
}

func (e *Engine) RegistryAddress() common.Address {
	return e.registry.Address()
}

// Namehash validates and normalizes name before hashing it
func (e *Engine) Namehash(name string) (common.Hash, error) {
	normalized, err := e.cfg.Normalize.Apply(name)
	if err != nil {
		return common.Hash{}, err
	}
	return Namehash(normalized), nil
}

// Owner returns the registry owner of name
func (e *Engine) Owner(ctx bCtx.Ctx, name string) (common.Address, error) {
	node, err := e.Namehash(name)
	if err != nil {
		return common.Address{}, err
	}
	owner, ok, err := e.registry.OwnerOf(ctx, node)
	if err != nil {
		e.bumpErr("owner", err)
		return common.Address{}, err
	}
	if !ok {
		return common.Address{}, xerrors.Errorf("%s has no owner: %w", name, ensdomain.ErrEnsUnknown)
	}
	return owner, nil
}

func (e *Engine) bumpErr(op string, err error) {
	e.met.BumpSum("resolve.err", 1, "op", op, "kind", string(ensdomain.KindOf(err)))
}

type targetKind int

const (
	// targetDirectNode calls the method on the resolver as is
	targetDirectNode targetKind = iota
	// targetWildcardEncoded wraps the call into resolve(dnsName, data)
	targetWildcardEncoded
)

// callTarget says how a resolver method reaches the resolver found by
// discovery. node is always the node of the full name.
type callTarget struct {
	kind     targetKind
	resolver common.Address
	node     common.Hash
	dnsName  []byte
}

func (t *callTarget) encode(inner []byte) ([]byte, error) {
	if t.kind == targetDirectNode {
		return inner, nil
	}
	return baseabi.ENSResolverABI.Pack("resolve", t.dnsName, inner)
}

func (t *callTarget) decode(res []byte) ([]byte, error) {
	if t.kind == targetDirectNode {
		return res, nil
	}
	values, err := baseabi.BytesArgs.Unpack(res)
	if err != nil {
		return nil, xerrors.Errorf("decode resolve() result: %v: %w", err, ensdomain.ErrEnsUnknown)
	}
	raw, ok := values[0].([]byte)
	if !ok {
		return nil, xerrors.Errorf("resolve() result is not bytes: %w", ensdomain.ErrEnsUnknown)
	}
	return raw, nil
}

func (e *Engine) target(ctx bCtx.Ctx, r *Resolver, name string) (*callTarget, error) {
	t := &callTarget{
		kind:     targetDirectNode,
		resolver: r.Address,
		node:     Namehash(name),
	}
	if !r.IsWildcard() {
		return t, nil
	}

	supported, err := e.supportsExtendedResolver(ctx, r.Address)
	if err != nil {
		return nil, err
	}
	if !supported {
		return nil, xerrors.Errorf("resolver %s of an ancestor of %s is not an extended resolver: %w", r.Address.Hex(), name, ensdomain.ErrEnsUnknown)
	}
	dnsName, err := DNSEncode(name)
	if err != nil {
		return nil, err
	}
	t.kind = targetWildcardEncoded
	t.dnsName = dnsName
	return t, nil
}

func (e *Engine) supportsExtendedResolver(ctx bCtx.Ctx, resolver common.Address) (bool, error) {
	c, cancel := bCtx.WithTimeout(ctx, e.cfg.CallTimeout)
	defer cancel()
	supported, err := e.resolvers.SupportsInterface(c, resolver, baseabi.ExtendedResolverInterfaceID)
	if err == nil {
		return supported, nil
	}
	// a revert or an undecodable reply both mean no ERC-165 support
	if _, ok := chain.AsRevert(err); ok || errors.Is(err, chain.ErrUnpack) {
		return false, nil
	}
	return false, xerrors.Errorf("supportsInterface on %s: %v: %w", resolver.Hex(), err, ensdomain.ErrTransport)
}

// query calls method(node) on the resolver of r and unpacks its outputs
func (e *Engine) query(ctx bCtx.Ctx, r *Resolver, name string, mode ensdomain.Mode, method string) ([]interface{}, error) {
	t, err := e.target(ctx, r, name)
	if err != nil {
		return nil, err
	}
	inner, err := baseabi.ENSResolverABI.Pack(method, t.node)
	if err != nil {
		return nil, err
	}
	data, err := t.encode(inner)
	if err != nil {
		return nil, err
	}
	res, err := e.execute(ctx, t.resolver, data, mode)
	if err != nil {
		return nil, err
	}
	raw, err := t.decode(res)
	if err != nil {
		return nil, err
	}
	out, err := baseabi.ENSResolverABI.Unpack(method, raw)
	if err != nil || len(out) == 0 {
		return nil, xerrors.Errorf("decode %s() of %s: %v: %w", method, name, err, ensdomain.ErrEnsUnknown)
	}
	return out, nil
}

// execute calls the resolver and follows OffchainLookup reverts when mode
// allows it. Any other revert is a negative answer.
func (e *Engine) execute(ctx bCtx.Ctx, resolver common.Address, data []byte, mode ensdomain.Mode) ([]byte, error) {
	for depth := 0; ; depth++ {
		res, err := e.callResolver(ctx, resolver, data)
		if err == nil {
			return res, nil
		}
		rerr, ok := chain.AsRevert(err)
		if !ok {
			return nil, xerrors.Errorf("call %s: %v: %w", resolver.Hex(), err, ensdomain.ErrTransport)
		}
		if !mode.AllowOffchain() || !isOffchainLookup(rerr.Data) {
			return nil, xerrors.Errorf("resolver %s: %v: %w", resolver.Hex(), rerr, ensdomain.ErrEnsUnknown)
		}
		if depth >= offchainLookupLimit {
			return nil, xerrors.Errorf("resolver %s after %d lookups: %w", resolver.Hex(), depth, ensdomain.ErrOffchainLookupTooDeep)
		}
		lookup, err := decodeOffchainLookup(rerr.Data)
		if err != nil {
			return nil, err
		}
		if data, err = e.offchain.handle(ctx, resolver, lookup); err != nil {
			return nil, err
		}
	}
}

func (e *Engine) callResolver(ctx bCtx.Ctx, resolver common.Address, data []byte) ([]byte, error) {
	c, cancel := bCtx.WithTimeout(ctx, e.cfg.CallTimeout)
	defer cancel()
	return e.caller.CallContract(c, goethereum.CallMsg{To: &resolver, Data: data}, nil)
}
