package ledger

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"sync"
	"time"

	"skill-ledger/internal/config"
	"skill-ledger/internal/domain/employee"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	ErrLedgerDisabled = errors.New("ledger disabled")
	ErrTxReverted     = errors.New("transaction reverted")
)

const defaultTimeout = 60 * time.Second

type Client struct {
	eth      *ethclient.Client
	contract *bind.BoundContract
	abi      abi.ABI
	address  common.Address

	key      *ecdsa.PrivateKey
	from     common.Address
	chainID  *big.Int
	gasLimit uint64
	gasPrice *big.Int
	timeout  time.Duration

	// sendMu serializes nonce selection for the single signing key.
	sendMu sync.Mutex
	logger *log.Logger
}

func Dial(ctx context.Context, cfg config.LedgerConfig, logger *log.Logger) (*Client, error) {
	parsed, err := ParseABI(cfg.ContractABI)
	if err != nil {
		return nil, err
	}
	if err := checkMethods(parsed); err != nil {
		return nil, err
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(cfg.PrivateKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.ContractAddress)
	}

	eth, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc %s: %w", cfg.RPCURL, err)
	}
	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("chain id: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	address := common.HexToAddress(cfg.ContractAddress)
	c := &Client{
		eth:      eth,
		contract: bind.NewBoundContract(address, parsed, eth, eth, eth),
		abi:      parsed,
		address:  address,
		key:      key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
		chainID:  chainID,
		gasLimit: cfg.GasLimit,
		gasPrice: new(big.Int).SetUint64(cfg.GasPrice),
		timeout:  timeout,
		logger:   logger,
	}
	if c.logger != nil {
		c.logger.Printf("[Ledger] connected | rpc=%s chain_id=%s contract=%s from=%s", cfg.RPCURL, chainID, address.Hex(), c.from.Hex())
	}
	return c, nil
}

// ParseABI decodes a base64 ABI. The payload may be the bare ABI array or a
// compiler artifact with an "abi" field.
func ParseABI(b64 string) (abi.ABI, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("decode contract abi: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var artifact struct {
			ABI json.RawMessage `json:"abi"`
		}
		if err := json.Unmarshal(raw, &artifact); err != nil {
			return abi.ABI{}, fmt.Errorf("decode contract artifact: %w", err)
		}
		raw = artifact.ABI
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse contract abi: %w", err)
	}
	return parsed, nil
}

func checkMethods(parsed abi.ABI) error {
	add, ok := parsed.Methods[methodAddSkill]
	if !ok {
		return fmt.Errorf("contract abi has no %s method", methodAddSkill)
	}
	if len(add.Inputs) != addSkillArity {
		return fmt.Errorf("%s expects %d inputs, abi declares %d", methodAddSkill, addSkillArity, len(add.Inputs))
	}
	get, ok := parsed.Methods[methodGetSkills]
	if !ok {
		return fmt.Errorf("contract abi has no %s method", methodGetSkills)
	}
	if len(get.Inputs) != 1 || len(get.Outputs) == 0 {
		return fmt.Errorf("%s must take one input and return a value", methodGetSkills)
	}
	return nil
}

func (c *Client) AddSkill(ctx context.Context, empID int64, s employee.LedgerSkill) (employee.LedgerReceipt, error) {
	args, err := addSkillArgs(c.abi.Methods[methodAddSkill], empID, s)
	if err != nil {
		return employee.LedgerReceipt{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tx, err := c.send(ctx, args)
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("[Ledger] addSkill send failed | emp_id=%d skill_id=%d err=%v", empID, s.SkillID, err)
		}
		return employee.LedgerReceipt{}, fmt.Errorf("send %s: %w", methodAddSkill, err)
	}

	rc, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return employee.LedgerReceipt{TxHash: tx.Hash().Hex()}, fmt.Errorf("wait receipt %s: %w", tx.Hash().Hex(), err)
	}

	out := employee.LedgerReceipt{
		TxHash:  rc.TxHash.Hex(),
		GasUsed: rc.GasUsed,
		Status:  rc.Status,
	}
	if rc.BlockNumber != nil {
		out.BlockNumber = rc.BlockNumber.Uint64()
	}
	if c.logger != nil {
		c.logger.Printf("[Ledger] addSkill mined | emp_id=%d skill_id=%d tx=%s block=%d status=%d", empID, s.SkillID, out.TxHash, out.BlockNumber, out.Status)
	}
	if rc.Status != types.ReceiptStatusSuccessful {
		return out, fmt.Errorf("%w: %s", ErrTxReverted, out.TxHash)
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, args []interface{}) (*types.Transaction, error) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	opts, err := bind.NewKeyedTransactorWithChainID(c.key, c.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	opts.GasLimit = c.gasLimit
	opts.GasPrice = c.gasPrice

	return c.contract.Transact(opts, methodAddSkill, args...)
}

func (c *Client) GetSkills(ctx context.Context, empID int64) ([]employee.LedgerSkill, error) {
	in := c.abi.Methods[methodGetSkills].Inputs[0]
	arg, err := coerceArg(in.Type, empID)
	if err != nil {
		return nil, fmt.Errorf("%s arg: %w", methodGetSkills, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx, From: c.from}, &out, methodGetSkills, arg); err != nil {
		return nil, fmt.Errorf("call %s: %w", methodGetSkills, err)
	}
	return decodeSkills(out)
}

func (c *Client) Close() {
	if c == nil || c.eth == nil {
		return
	}
	c.eth.Close()
}

// Noop stands in when the ledger is switched off.
type Noop struct{}

func (Noop) AddSkill(context.Context, int64, employee.LedgerSkill) (employee.LedgerReceipt, error) {
	return employee.LedgerReceipt{}, ErrLedgerDisabled
}

func (Noop) GetSkills(context.Context, int64) ([]employee.LedgerSkill, error) {
	return []employee.LedgerSkill{}, nil
}
