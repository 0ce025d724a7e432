// Copyright 2023 The lumen Authors
// This file is part of the lumen library.
//
// The lumen library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The lumen library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the lumen library. If not, see <http://www.gnu.org/licenses/>.

package runtime

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/holiman/uint256"

	"github.com/lumina-chain/lumen/common"
	"github.com/lumina-chain/lumen/core/vm"
	"github.com/lumina-chain/lumen/crypto"
	"github.com/lumina-chain/lumen/params"
)

// Account is the in-memory representation of a single account.
type Account struct {
	Nonce   uint64
	Balance *uint256.Int
	Code    []byte
	Storage map[common.Hash]common.Hash
}

func newAccount() *Account {
	return &Account{
		Balance: new(uint256.Int),
		Storage: make(map[common.Hash]common.Hash),
	}
}

func (a *Account) copy() *Account {
	cpy := &Account{
		Nonce:   a.Nonce,
		Balance: new(uint256.Int).Set(a.Balance),
		Code:    a.Code,
		Storage: make(map[common.Hash]common.Hash, len(a.Storage)),
	}
	for k, v := range a.Storage {
		cpy.Storage[k] = v
	}
	return cpy
}

// empty reports whether the account is empty according to EIP-161.
func (a *Account) empty() bool {
	return a.Nonce == 0 && a.Balance.IsZero() && len(a.Code) == 0
}

// LogRecord is a log entry emitted during execution.
type LogRecord struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

type storageSlot struct {
	addr common.Address
	key  common.Hash
}

// StateHost is an in-memory implementation of the execution host. It keeps
// the full account state, the transaction access lists and the emitted logs,
// and drives nested calls and creates on fresh engine instances. Intended
// for tests, tools and embedding, not for consensus use.
type StateHost struct {
	rev   vm.Revision
	txCtx vm.TxContext
	vmCfg vm.Config

	accounts  map[common.Address]*Account
	original  map[storageSlot]common.Hash
	destructs mapset.Set[common.Address]

	warmAccounts mapset.Set[common.Address]
	warmSlots    mapset.Set[storageSlot]

	logs    []LogRecord
	getHash func(uint64) common.Hash
}

// NewStateHost creates an empty state host executing at the given revision.
func NewStateHost(rev vm.Revision, txCtx vm.TxContext, vmCfg vm.Config) *StateHost {
	if txCtx.GasPrice == nil {
		txCtx.GasPrice = new(uint256.Int)
	}
	if txCtx.Difficulty == nil {
		txCtx.Difficulty = new(uint256.Int)
	}
	if txCtx.ChainID == nil {
		txCtx.ChainID = uint256.NewInt(1)
	}
	if txCtx.BaseFee == nil {
		txCtx.BaseFee = new(uint256.Int)
	}
	return &StateHost{
		rev:          rev,
		txCtx:        txCtx,
		vmCfg:        vmCfg,
		accounts:     make(map[common.Address]*Account),
		original:     make(map[storageSlot]common.Hash),
		destructs:    mapset.NewThreadUnsafeSet[common.Address](),
		warmAccounts: mapset.NewThreadUnsafeSet[common.Address](),
		warmSlots:    mapset.NewThreadUnsafeSet[storageSlot](),
	}
}

// SetHashFn installs the BLOCKHASH backend.
func (h *StateHost) SetHashFn(fn func(uint64) common.Hash) {
	h.getHash = fn
}

func (h *StateHost) account(addr common.Address) *Account {
	return h.accounts[addr]
}

func (h *StateHost) getOrNewAccount(addr common.Address) *Account {
	acct := h.accounts[addr]
	if acct == nil {
		acct = newAccount()
		h.accounts[addr] = acct
	}
	return acct
}

// SetNonce sets the nonce of the given account.
func (h *StateHost) SetNonce(addr common.Address, nonce uint64) {
	h.getOrNewAccount(addr).Nonce = nonce
}

// GetNonce returns the nonce of the given account.
func (h *StateHost) GetNonce(addr common.Address) uint64 {
	if acct := h.account(addr); acct != nil {
		return acct.Nonce
	}
	return 0
}

// SetBalance sets the balance of the given account.
func (h *StateHost) SetBalance(addr common.Address, balance *uint256.Int) {
	h.getOrNewAccount(addr).Balance.Set(balance)
}

// SetCode installs code at the given account.
func (h *StateHost) SetCode(addr common.Address, code []byte) {
	h.getOrNewAccount(addr).Code = common.CopyBytes(code)
}

// SetState writes a storage slot without touching the access lists or the
// original-value tracking. Meant for test fixture setup.
func (h *StateHost) SetState(addr common.Address, key, value common.Hash) {
	h.getOrNewAccount(addr).Storage[key] = value
}

// Logs returns the log records emitted so far.
func (h *StateHost) Logs() []LogRecord {
	return h.logs
}

// Destructed reports whether the account was registered for destruction.
func (h *StateHost) Destructed(addr common.Address) bool {
	return h.destructs.Contains(addr)
}

// WarmUp marks the account warm without reporting its prior status. Used for
// the transaction-start warming of origin and recipient.
func (h *StateHost) WarmUp(addrs ...common.Address) {
	for _, addr := range addrs {
		h.warmAccounts.Add(addr)
	}
}

// hostSnapshot captures the full mutable state of the host. The state volume
// of a harness run is small enough that copying beats journalling.
type hostSnapshot struct {
	accounts     map[common.Address]*Account
	original     map[storageSlot]common.Hash
	destructs    mapset.Set[common.Address]
	warmAccounts mapset.Set[common.Address]
	warmSlots    mapset.Set[storageSlot]
	logCount     int
}

func (h *StateHost) snapshot() *hostSnapshot {
	snap := &hostSnapshot{
		accounts:     make(map[common.Address]*Account, len(h.accounts)),
		original:     make(map[storageSlot]common.Hash, len(h.original)),
		destructs:    h.destructs.Clone(),
		warmAccounts: h.warmAccounts.Clone(),
		warmSlots:    h.warmSlots.Clone(),
		logCount:     len(h.logs),
	}
	for addr, acct := range h.accounts {
		snap.accounts[addr] = acct.copy()
	}
	for slot, val := range h.original {
		snap.original[slot] = val
	}
	return snap
}

func (h *StateHost) revertTo(snap *hostSnapshot) {
	h.accounts = snap.accounts
	h.original = snap.original
	h.destructs = snap.destructs
	h.warmAccounts = snap.warmAccounts
	h.warmSlots = snap.warmSlots
	h.logs = h.logs[:snap.logCount]
}

// AccountExists implements the host interface. From SpuriousDragon on, empty
// accounts count as non-existent.
func (h *StateHost) AccountExists(addr common.Address) bool {
	acct := h.account(addr)
	if acct == nil {
		return false
	}
	if h.rev >= vm.SpuriousDragon {
		return !acct.empty()
	}
	return true
}

// GetStorage implements the host interface.
func (h *StateHost) GetStorage(addr common.Address, key common.Hash) common.Hash {
	if acct := h.account(addr); acct != nil {
		return acct.Storage[key]
	}
	return common.Hash{}
}

// SetStorage implements the host interface. The original value of a slot is
// recorded the first time the slot is written within the transaction.
func (h *StateHost) SetStorage(addr common.Address, key, value common.Hash) vm.StorageStatus {
	acct := h.getOrNewAccount(addr)
	current := acct.Storage[key]
	slot := storageSlot{addr: addr, key: key}
	original, dirty := h.original[slot]
	if !dirty {
		original = current
		h.original[slot] = original
	}
	acct.Storage[key] = value
	return classifyStorage(original, current, value)
}

// classifyStorage maps the (original, current, new) triple of a storage write
// to its transition class.
func classifyStorage(original, current, value common.Hash) vm.StorageStatus {
	zero := common.Hash{}
	if current == value {
		return vm.StorageAssigned
	}
	if original == current {
		switch {
		case original == zero:
			return vm.StorageAdded
		case value == zero:
			return vm.StorageDeleted
		default:
			return vm.StorageModified
		}
	}
	switch {
	case original == zero && current != zero && value == zero:
		return vm.StorageAddedDeleted
	case original != zero && current == zero && value == original:
		return vm.StorageDeletedRestored
	case original != zero && current == zero:
		return vm.StorageDeletedAdded
	case original != zero && value == zero:
		return vm.StorageModifiedDeleted
	case value == original:
		return vm.StorageModifiedRestored
	}
	return vm.StorageAssigned
}

// GetStorageOriginal implements the host interface.
func (h *StateHost) GetStorageOriginal(addr common.Address, key common.Hash) common.Hash {
	if original, dirty := h.original[storageSlot{addr: addr, key: key}]; dirty {
		return original
	}
	return h.GetStorage(addr, key)
}

// GetBalance implements the host interface.
func (h *StateHost) GetBalance(addr common.Address) *uint256.Int {
	if acct := h.account(addr); acct != nil {
		return acct.Balance
	}
	return new(uint256.Int)
}

// GetCodeSize implements the host interface.
func (h *StateHost) GetCodeSize(addr common.Address) int {
	if acct := h.account(addr); acct != nil {
		return len(acct.Code)
	}
	return 0
}

// GetCodeHash implements the host interface.
func (h *StateHost) GetCodeHash(addr common.Address) common.Hash {
	acct := h.account(addr)
	if acct == nil {
		return common.Hash{}
	}
	if h.rev >= vm.SpuriousDragon && acct.empty() {
		return common.Hash{}
	}
	return crypto.Keccak256Hash(acct.Code)
}

// GetCode implements the host interface.
func (h *StateHost) GetCode(addr common.Address) []byte {
	if acct := h.account(addr); acct != nil {
		return acct.Code
	}
	return nil
}

// Selfdestruct implements the host interface. It moves the balance to the
// beneficiary and registers the account for destruction; its code and storage
// stay in place, and StateHost never removes the account.
func (h *StateHost) Selfdestruct(addr common.Address, beneficiary common.Address) bool {
	acct := h.getOrNewAccount(addr)
	balance := new(uint256.Int).Set(acct.Balance)
	h.getOrNewAccount(beneficiary).Balance.Add(h.GetBalance(beneficiary), balance)
	acct.Balance.Clear()
	if h.destructs.Contains(addr) {
		return false
	}
	h.destructs.Add(addr)
	return true
}

// EmitLog implements the host interface.
func (h *StateHost) EmitLog(addr common.Address, topics []common.Hash, data []byte) {
	h.logs = append(h.logs, LogRecord{
		Address: addr,
		Topics:  append([]common.Hash(nil), topics...),
		Data:    common.CopyBytes(data),
	})
}

// GetTxContext implements the host interface.
func (h *StateHost) GetTxContext() vm.TxContext {
	return h.txCtx
}

// GetBlockHash implements the host interface.
func (h *StateHost) GetBlockHash(number uint64) common.Hash {
	if h.getHash != nil {
		return h.getHash(number)
	}
	return common.Hash{}
}

// AccessAccount implements the host interface.
func (h *StateHost) AccessAccount(addr common.Address) vm.AccessStatus {
	if h.rev < vm.Berlin {
		return vm.WarmAccess
	}
	if h.warmAccounts.Contains(addr) {
		return vm.WarmAccess
	}
	h.warmAccounts.Add(addr)
	return vm.ColdAccess
}

// AccessStorage implements the host interface.
func (h *StateHost) AccessStorage(addr common.Address, key common.Hash) vm.AccessStatus {
	if h.rev < vm.Berlin {
		return vm.WarmAccess
	}
	slot := storageSlot{addr: addr, key: key}
	if h.warmSlots.Contains(slot) {
		return vm.WarmAccess
	}
	h.warmSlots.Add(slot)
	return vm.ColdAccess
}

// Call implements the host interface. Every frame runs on a fresh engine
// instance so refund accounting stays per frame; the parent frame merges the
// refund of a successful child.
func (h *StateHost) Call(msg *vm.Message) vm.Result {
	switch msg.Kind {
	case vm.Create, vm.Create2:
		return h.runCreate(msg)
	default:
		return h.runCall(msg)
	}
}

func (h *StateHost) runCall(msg *vm.Message) vm.Result {
	transfersValue := msg.Value != nil && !msg.Value.IsZero() &&
		(msg.Kind == vm.Call || msg.Kind == vm.CallCode)
	if transfersValue && h.GetBalance(msg.Sender).Lt(msg.Value) {
		return vm.Result{Status: vm.StatusInsufficientBalance, GasLeft: msg.Gas}
	}
	snap := h.snapshot()
	if transfersValue && msg.Kind == vm.Call {
		h.transfer(msg.Sender, msg.Recipient, msg.Value)
	}
	code := h.GetCode(msg.CodeAddress)
	res := vm.NewEVM(h, h.rev, h.vmCfg).Execute(msg, code)
	if res.Status != vm.StatusSuccess {
		h.revertTo(snap)
	}
	return res
}

func (h *StateHost) runCreate(msg *vm.Message) vm.Result {
	sender := h.getOrNewAccount(msg.Sender)
	if msg.Value != nil && sender.Balance.Lt(msg.Value) {
		return vm.Result{Status: vm.StatusInsufficientBalance, GasLeft: msg.Gas}
	}
	nonce := sender.Nonce
	// The nonce bump of the creator survives a failed create.
	sender.Nonce = nonce + 1

	var addr common.Address
	if msg.Kind == vm.Create {
		addr = crypto.CreateAddress(msg.Sender, nonce)
	} else {
		addr = crypto.CreateAddress2(msg.Sender, msg.Salt, crypto.Keccak256(msg.Input))
	}
	if h.rev >= vm.Berlin {
		h.warmAccounts.Add(addr)
	}
	snap := h.snapshot()

	if acct := h.account(addr); acct != nil && (acct.Nonce != 0 || len(acct.Code) != 0) {
		return vm.Result{Status: vm.StatusInternalError}
	}
	created := h.getOrNewAccount(addr)
	if h.rev >= vm.SpuriousDragon {
		created.Nonce = 1
	}
	if msg.Value != nil {
		h.transfer(msg.Sender, addr, msg.Value)
	}

	// The initcode executes as the frame's code with empty calldata.
	child := *msg
	child.Recipient = addr
	child.Input = nil
	res := vm.NewEVM(h, h.rev, h.vmCfg).Execute(&child, msg.Input)

	if res.Status == vm.StatusSuccess {
		code := res.Output
		switch {
		case h.rev >= vm.London && len(code) > 0 && code[0] == 0xEF:
			res = vm.Result{Status: vm.StatusInternalError}
		case h.rev >= vm.SpuriousDragon && uint64(len(code)) > params.MaxCodeSize:
			res = vm.Result{Status: vm.StatusInternalError}
		default:
			depositGas := uint64(len(code)) * params.CreateDataGas
			if res.GasLeft >= depositGas {
				res.GasLeft -= depositGas
				h.getOrNewAccount(addr).Code = common.CopyBytes(code)
			} else if h.rev >= vm.Homestead {
				res = vm.Result{Status: vm.StatusOutOfGas}
			}
			// On Frontier a failed code deposit leaves an account without
			// code but the create still succeeds.
		}
	}
	if res.Status != vm.StatusSuccess {
		h.revertTo(snap)
	}
	if res.Status == vm.StatusSuccess {
		res.CreatedAddress = addr
		res.Output = nil
	}
	return res
}

func (h *StateHost) transfer(from, to common.Address, amount *uint256.Int) {
	if amount.IsZero() {
		return
	}
	fromAcct := h.getOrNewAccount(from)
	toAcct := h.getOrNewAccount(to)
	fromAcct.Balance.Sub(fromAcct.Balance, amount)
	toAcct.Balance.Add(toAcct.Balance, amount)
}
