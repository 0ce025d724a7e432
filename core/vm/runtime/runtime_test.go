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
	"bytes"
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/lumina-chain/lumen/common"
	"github.com/lumina-chain/lumen/core/vm"
	"github.com/lumina-chain/lumen/crypto"
)

func TestDefaults(t *testing.T) {
	cfg := new(Config)
	setDefaults(cfg)

	if cfg.ChainID == nil {
		t.Error("expected chain id to be set")
	}
	if cfg.GasLimit == 0 {
		t.Error("didn't expect gaslimit to be zero")
	}
	if cfg.GasPrice == nil {
		t.Error("expected gas price to be set")
	}
	if cfg.Value == nil {
		t.Error("expected value to be set")
	}
	if cfg.GetHashFn == nil {
		t.Error("expected hash function to be set")
	}
	if cfg.BlockNumber == 0 {
		t.Error("expected block number to be non-zero")
	}
	if cfg.State == nil {
		t.Error("expected state host to be created")
	}
}

func TestExecute(t *testing.T) {
	// mstore(0, 10) return(0, 32)
	ret, _, err := Execute([]byte{
		byte(vm.PUSH1), 10,
		byte(vm.PUSH1), 0,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 32,
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	}, nil, &Config{Revision: vm.London})
	if err != nil {
		t.Fatal("didn't expect error", err)
	}
	if num := new(uint256.Int).SetBytes(ret); num.Uint64() != 10 {
		t.Fatalf("expected 10, got %v", num)
	}
}

func TestExecuteRevert(t *testing.T) {
	// mstore8(0, 0x42) revert(0, 1)
	ret, _, err := Execute([]byte{
		byte(vm.PUSH1), 0x42, byte(vm.PUSH1), 0, byte(vm.MSTORE8),
		byte(vm.PUSH1), 1, byte(vm.PUSH1), 0, byte(vm.REVERT),
	}, nil, &Config{Revision: vm.London})
	if !errors.Is(err, vm.ErrExecutionReverted) {
		t.Fatalf("got error %v, want revert", err)
	}
	if !bytes.Equal(ret, []byte{0x42}) {
		t.Fatalf("got output %x, want 42", ret)
	}
}

func TestCall(t *testing.T) {
	cfg := &Config{Revision: vm.London, GasLimit: 100000}
	setDefaults(cfg)

	address := common.HexToAddress("0xaa")
	cfg.State.SetCode(address, []byte{
		byte(vm.PUSH1), 10,
		byte(vm.PUSH1), 0,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 32,
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	})

	ret, gasLeft, err := Call(address, nil, cfg)
	if err != nil {
		t.Fatal("didn't expect error", err)
	}
	if num := new(uint256.Int).SetBytes(ret); num.Uint64() != 10 {
		t.Fatalf("expected 10, got %v", num)
	}
	if gasLeft >= cfg.GasLimit {
		t.Fatalf("no gas consumed, left %d of %d", gasLeft, cfg.GasLimit)
	}
}

func TestCallStopGas(t *testing.T) {
	cfg := &Config{Revision: vm.London, GasLimit: 50000}
	setDefaults(cfg)

	address := common.HexToAddress("0xbb")
	cfg.State.SetCode(address, []byte{byte(vm.STOP)})

	_, gasLeft, err := Call(address, nil, cfg)
	if err != nil {
		t.Fatal("didn't expect error", err)
	}
	if gasLeft != cfg.GasLimit {
		t.Fatalf("STOP consumed gas: left %d of %d", gasLeft, cfg.GasLimit)
	}
}

func TestCreate(t *testing.T) {
	cfg := &Config{Revision: vm.London}
	// mstore8(0, 1) return(0, 1) deploys the single byte 0x01.
	initcode := []byte{
		byte(vm.PUSH1), 1, byte(vm.PUSH1), 0, byte(vm.MSTORE8),
		byte(vm.PUSH1), 1, byte(vm.PUSH1), 0, byte(vm.RETURN),
	}
	code, addr, _, err := Create(initcode, cfg)
	if err != nil {
		t.Fatal("didn't expect error", err)
	}
	if want := crypto.CreateAddress(cfg.Origin, 0); addr != want {
		t.Fatalf("got address %v, want %v", addr, want)
	}
	if !bytes.Equal(code, []byte{1}) {
		t.Fatalf("got code %x, want 01", code)
	}
	if nonce := cfg.State.GetNonce(cfg.Origin); nonce != 1 {
		t.Fatalf("creator nonce %d, want 1", nonce)
	}
	if nonce := cfg.State.GetNonce(addr); nonce != 1 {
		t.Fatalf("created nonce %d, want 1", nonce)
	}
}

func TestCreateEFPrefix(t *testing.T) {
	initcode := []byte{
		byte(vm.PUSH1), 0xEF, byte(vm.PUSH1), 0, byte(vm.MSTORE8),
		byte(vm.PUSH1), 1, byte(vm.PUSH1), 0, byte(vm.RETURN),
	}
	if _, _, _, err := Create(initcode, &Config{Revision: vm.London}); err == nil {
		t.Fatal("EF-prefixed code deployed on London")
	}
	if _, _, _, err := Create(initcode, &Config{Revision: vm.Berlin}); err != nil {
		t.Fatalf("EF-prefixed code rejected on Berlin: %v", err)
	}
}

func TestCreate2Address(t *testing.T) {
	cfg := &Config{Revision: vm.London}
	setDefaults(cfg)

	salt := common.HexToHash("0x2a")
	res := cfg.State.Call(&vm.Message{
		Kind:   vm.Create2,
		Gas:    cfg.GasLimit,
		Sender: cfg.Origin,
		Salt:   salt,
	})
	if res.Status != vm.StatusSuccess {
		t.Fatalf("got status %v, want success", res.Status)
	}
	want := crypto.CreateAddress2(cfg.Origin, salt, crypto.Keccak256(nil))
	if res.CreatedAddress != want {
		t.Fatalf("got address %v, want %v", res.CreatedAddress, want)
	}
}

func TestNestedCallRevertRestoresState(t *testing.T) {
	cfg := &Config{Revision: vm.London, GasLimit: 1000000}
	setDefaults(cfg)

	callee := common.HexToAddress("0xbb")
	// sstore(0, 1) revert(0, 0)
	cfg.State.SetCode(callee, []byte{
		byte(vm.PUSH1), 1, byte(vm.PUSH1), 0, byte(vm.SSTORE),
		byte(vm.PUSH1), 0, byte(vm.PUSH1), 0, byte(vm.REVERT),
	})
	// call(0xffff, 0xbb, 0, 0, 0, 0, 0)
	caller := []byte{
		byte(vm.PUSH1), 0, byte(vm.PUSH1), 0, byte(vm.PUSH1), 0, byte(vm.PUSH1), 0,
		byte(vm.PUSH1), 0, byte(vm.PUSH1), 0xbb, byte(vm.PUSH2), 0xff, 0xff,
		byte(vm.CALL), byte(vm.STOP),
	}
	_, host, err := Execute(caller, nil, cfg)
	if err != nil {
		t.Fatal("didn't expect error", err)
	}
	if got := host.GetStorage(callee, common.Hash{}); got != (common.Hash{}) {
		t.Fatalf("reverted store visible: %x", got)
	}
}

func TestNestedCallStorePersists(t *testing.T) {
	cfg := &Config{Revision: vm.London, GasLimit: 1000000}
	setDefaults(cfg)

	callee := common.HexToAddress("0xbb")
	// sstore(0, 1) stop
	cfg.State.SetCode(callee, []byte{
		byte(vm.PUSH1), 1, byte(vm.PUSH1), 0, byte(vm.SSTORE), byte(vm.STOP),
	})
	caller := []byte{
		byte(vm.PUSH1), 0, byte(vm.PUSH1), 0, byte(vm.PUSH1), 0, byte(vm.PUSH1), 0,
		byte(vm.PUSH1), 0, byte(vm.PUSH1), 0xbb, byte(vm.PUSH2), 0xff, 0xff,
		byte(vm.CALL), byte(vm.STOP),
	}
	_, host, err := Execute(caller, nil, cfg)
	if err != nil {
		t.Fatal("didn't expect error", err)
	}
	want := common.BytesToHash([]byte{1})
	if got := host.GetStorage(callee, common.Hash{}); got != want {
		t.Fatalf("got slot %x, want %x", got, want)
	}
}

func TestSelfdestruct(t *testing.T) {
	cfg := &Config{Revision: vm.London, GasLimit: 1000000}
	setDefaults(cfg)

	contract := common.BytesToAddress([]byte("contract"))
	beneficiary := common.HexToAddress("0xaa")
	cfg.State.SetBalance(contract, uint256.NewInt(100))

	// selfdestruct(0xaa)
	_, host, err := Execute([]byte{byte(vm.PUSH1), 0xaa, byte(vm.SELFDESTRUCT)}, nil, cfg)
	if err != nil {
		t.Fatal("didn't expect error", err)
	}
	if !host.Destructed(contract) {
		t.Error("contract not registered for destruction")
	}
	if got := host.GetBalance(beneficiary); got.Uint64() != 100 {
		t.Errorf("beneficiary balance %v, want 100", got)
	}
	if got := host.GetBalance(contract); !got.IsZero() {
		t.Errorf("contract balance %v, want 0", got)
	}
}

func TestLogs(t *testing.T) {
	cfg := &Config{Revision: vm.London, GasLimit: 1000000}
	// mstore8(0, 0xff) log1(0, 1, 0x11)
	code := []byte{
		byte(vm.PUSH1), 0xff, byte(vm.PUSH1), 0, byte(vm.MSTORE8),
		byte(vm.PUSH1), 0x11, byte(vm.PUSH1), 1, byte(vm.PUSH1), 0,
		byte(vm.LOG1), byte(vm.STOP),
	}
	_, host, err := Execute(code, nil, cfg)
	if err != nil {
		t.Fatal("didn't expect error", err)
	}
	logs := host.Logs()
	if len(logs) != 1 {
		t.Fatalf("got %d logs, want 1", len(logs))
	}
	if logs[0].Address != common.BytesToAddress([]byte("contract")) {
		t.Errorf("log address %v", logs[0].Address)
	}
	if len(logs[0].Topics) != 1 || logs[0].Topics[0] != common.HexToHash("0x11") {
		t.Errorf("log topics %v", logs[0].Topics)
	}
	if !bytes.Equal(logs[0].Data, []byte{0xff}) {
		t.Errorf("log data %x, want ff", logs[0].Data)
	}
}

func TestBlockhash(t *testing.T) {
	want := common.HexToHash("0xdeadbeef")
	cfg := &Config{
		Revision:    vm.London,
		BlockNumber: 10,
		GetHashFn:   func(n uint64) common.Hash { return want },
	}
	// blockhash(9) mstore(0) return(0, 32)
	ret, _, err := Execute([]byte{
		byte(vm.PUSH1), 9, byte(vm.BLOCKHASH),
		byte(vm.PUSH1), 0, byte(vm.MSTORE),
		byte(vm.PUSH1), 32, byte(vm.PUSH1), 0, byte(vm.RETURN),
	}, nil, cfg)
	if err != nil {
		t.Fatal("didn't expect error", err)
	}
	if common.BytesToHash(ret) != want {
		t.Fatalf("got %x, want %x", ret, want)
	}
}

func TestInsufficientBalance(t *testing.T) {
	cfg := &Config{Revision: vm.London, Value: uint256.NewInt(10)}
	_, _, err := Execute([]byte{byte(vm.STOP)}, nil, cfg)
	if !errors.Is(err, vm.ErrInsufficientBalance) {
		t.Fatalf("got error %v, want insufficient balance", err)
	}
}

func TestRefundReduction(t *testing.T) {
	// Clearing a pre-set slot refunds less from London on.
	run := func(rev vm.Revision) uint64 {
		cfg := &Config{Revision: rev, GasLimit: 100000}
		setDefaults(cfg)
		address := common.HexToAddress("0xcc")
		cfg.State.SetState(address, common.Hash{}, common.BytesToHash([]byte{1}))
		// sstore(0, 0)
		cfg.State.SetCode(address, []byte{
			byte(vm.PUSH1), 0, byte(vm.PUSH1), 0, byte(vm.SSTORE), byte(vm.STOP),
		})
		_, gasLeft, err := Call(address, nil, cfg)
		if err != nil {
			t.Fatal("didn't expect error", err)
		}
		return gasLeft
	}
	berlin, london := run(vm.Berlin), run(vm.London)
	if berlin <= london {
		t.Fatalf("refund not reduced: berlin left %d, london left %d", berlin, london)
	}
}

func TestSelfdestructRefundByRevision(t *testing.T) {
	run := func(rev vm.Revision) uint64 {
		cfg := &Config{Revision: rev, GasLimit: 1000000}
		setDefaults(cfg)
		address := common.HexToAddress("0xdd")
		// Burn some gas first so the refund cap has headroom, then selfdestruct.
		code := []byte{byte(vm.PUSH1), 0, byte(vm.PUSH1), 0, byte(vm.SSTORE)}
		code = append(code, byte(vm.PUSH1), 0xaa, byte(vm.SELFDESTRUCT))
		cfg.State.SetCode(address, code)
		_, gasLeft, err := Call(address, nil, cfg)
		if err != nil {
			t.Fatal("didn't expect error", err)
		}
		return gasLeft
	}
	// Istanbul refunds 24000 for the destruction, London refunds nothing.
	istanbul, london := run(vm.Istanbul), run(vm.London)
	if istanbul <= london {
		t.Fatalf("selfdestruct refund missing: istanbul left %d, london left %d", istanbul, london)
	}
}

func TestCallDepthLimitViaHost(t *testing.T) {
	cfg := &Config{Revision: vm.London, GasLimit: 100}
	setDefaults(cfg)
	res := cfg.State.Call(&vm.Message{
		Kind:  vm.Call,
		Depth: 1025,
		Gas:   100,
	})
	if res.Status != vm.StatusCallDepthExceeded {
		t.Fatalf("got status %v, want call depth exceeded", res.Status)
	}
}

func TestExecuteBatch(t *testing.T) {
	// Each slot returns its own index, so cross-call state sharing would show
	// up as a wrong return value.
	codes := make([][]byte, 16)
	for i := range codes {
		codes[i] = []byte{
			byte(vm.PUSH1), byte(i), byte(vm.PUSH1), 0, byte(vm.MSTORE),
			byte(vm.PUSH1), 32, byte(vm.PUSH1), 0, byte(vm.RETURN),
		}
	}
	outputs, errs := ExecuteBatch(codes, nil, nil)
	for i := range codes {
		if errs[i] != nil {
			t.Fatalf("call %d: %v", i, errs[i])
		}
		if len(outputs[i]) != 32 || outputs[i][31] != byte(i) {
			t.Fatalf("call %d: unexpected output %x", i, outputs[i])
		}
	}
}
