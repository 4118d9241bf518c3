// Package emulator implements a software stand-in for the hardware signing device.
// It keeps the seed in memory and is meant for development and tests only.
package emulator

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github/chapool/ledger-signer/internal/ledger"
	"github/chapool/ledger-signer/internal/wallet/address"
)

const (
	// DefaultVersion is reported by the handshake.
	DefaultVersion = "1.0.4-emulator"

	//nolint:dupword // BIP-39 test vector
	DefaultMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
)

// Config configures an Emulator. When KeystoreFile is set, the mnemonic is
// decrypted from it with KeystorePassword and Mnemonic is ignored.
type Config struct {
	Mnemonic         string
	Passphrase       string
	KeystoreFile     string
	KeystorePassword string
	Version          string
	// ConfirmDelay simulates the user confirming a signature on the device.
	ConfirmDelay time.Duration
}

// Emulator is both the Transport and the Device. Like the physical device it
// handles a single request at a time and answers ErrDeviceLocked otherwise.
type Emulator struct {
	version      string
	confirmDelay time.Duration
	log          zerolog.Logger

	vault *seedVault

	busy       atomic.Bool
	reject     atomic.Bool
	opens      atomic.Int32
	handshakes atomic.Int32
}

// New creates an emulator from a BIP-39 mnemonic.
func New(cfg Config) (*Emulator, error) {
	mnemonic := cfg.Mnemonic
	if cfg.KeystoreFile != "" {
		ks, err := ReadKeystore(cfg.KeystoreFile)
		if err != nil {
			return nil, err
		}

		if mnemonic, err = DecryptMnemonic(ks, cfg.KeystorePassword); err != nil {
			return nil, err
		}
	}
	if mnemonic == "" {
		mnemonic = DefaultMnemonic
	}

	vault, err := newSeedVault(mnemonic, cfg.Passphrase)
	if err != nil {
		return nil, err
	}

	version := cfg.Version
	if version == "" {
		version = DefaultVersion
	}

	return &Emulator{
		version:      version,
		confirmDelay: cfg.ConfirmDelay,
		log:          log.With().Str("component", "ledger_emulator").Logger(),
		vault:        vault,
	}, nil
}

// Open implements ledger.Transport.
//
//nolint:ireturn // Device is the transport contract
func (e *Emulator) Open(_ context.Context) (ledger.Device, error) {
	e.opens.Add(1)

	if !e.vault.initialized() {
		return nil, errors.New("emulator: device wiped")
	}

	return e, nil
}

// GetVersion implements ledger.Device.
func (e *Emulator) GetVersion(_ context.Context) (string, error) {
	if err := e.acquire(); err != nil {
		return "", err
	}
	defer e.release()

	e.handshakes.Add(1)

	return e.version, nil
}

// GetAddress implements ledger.Device.
func (e *Emulator) GetAddress(_ context.Context, path string) (string, error) {
	if err := e.acquire(); err != nil {
		return "", err
	}
	defer e.release()

	key, err := e.vault.deriveKey(path)
	if err != nil {
		return "", err
	}

	return address.FromKey(key), nil
}

// SignTransaction implements ledger.Device. The signature covers keccak256 of the
// unsigned payload; V is returned as 27/28.
func (e *Emulator) SignTransaction(ctx context.Context, accountIndex, addressIndex uint32, unsignedHex string) (*ledger.Signature, error) {
	if err := e.acquire(); err != nil {
		return nil, err
	}
	defer e.release()

	payload, err := hexutil.Decode("0x" + unsignedHex)
	if err != nil {
		return nil, errors.Wrap(ledger.ErrDevice, "malformed transaction payload")
	}

	if _, _, err := rlp.SplitList(payload); err != nil {
		return nil, errors.Wrap(ledger.ErrDevice, "transaction payload is not an RLP list")
	}

	if e.confirmDelay > 0 {
		select {
		case <-time.After(e.confirmDelay):
		case <-ctx.Done():
			return nil, errors.Wrap(ledger.ErrDevice, "confirmation aborted")
		}
	}

	if e.reject.Load() {
		return nil, errors.Wrap(ledger.ErrDevice, "rejected by user")
	}

	path := address.AccountPath(accountIndex, addressIndex)
	key, err := e.vault.deriveKey(path)
	if err != nil {
		return nil, err
	}

	sig, err := crypto.Sign(crypto.Keccak256(payload), key)
	if err != nil {
		return nil, errors.Wrap(ledger.ErrDevice, err.Error())
	}

	e.log.Debug().Str("path", path).Msg("Transaction signed")

	const recoveryOffset = 27
	return &ledger.Signature{
		V: fmt.Sprintf("%02x", sig[crypto.RecoveryIDOffset]+recoveryOffset),
		R: common.Bytes2Hex(sig[:32]),
		S: common.Bytes2Hex(sig[32:64]),
	}, nil
}

// SetReject makes every following signature request fail as if rejected on the device.
func (e *Emulator) SetReject(reject bool) {
	e.reject.Store(reject)
}

// Opens returns how many times the transport was opened.
func (e *Emulator) Opens() int {
	return int(e.opens.Load())
}

// Handshakes returns how many version requests were answered.
func (e *Emulator) Handshakes() int {
	return int(e.handshakes.Load())
}

// Wipe clears the seed from memory, the emulator can no longer be opened.
func (e *Emulator) Wipe() {
	e.vault.clear()
}

func (e *Emulator) acquire() error {
	if !e.busy.CompareAndSwap(false, true) {
		return ledger.ErrDeviceLocked
	}
	return nil
}

func (e *Emulator) release() {
	e.busy.Store(false)
}
