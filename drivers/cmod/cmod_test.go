package cmod

import (
	"errors"
	"testing"

	"tinygo.org/x/drivers"
)

// Compile-time check.
var _ drivers.I2C = (*fakeI2C)(nil)

// Register-map fake: writes land in regs, reads come back out of it.
type fakeI2C struct {
	regs    [64]byte
	lastReg uint8
	failAll bool

	ctrlWrites []byte
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	if f.failAll {
		return errors.New("nak")
	}
	if addr != Address {
		return errors.New("wrong address")
	}
	if len(w) > 0 {
		f.lastReg = w[0]
		for i, b := range w[1:] {
			f.regs[int(f.lastReg)+i] = b
		}
		if f.lastReg == regCtrl && len(w) > 1 {
			f.ctrlWrites = append(f.ctrlWrites, w[1])
		}
	}
	for i := range r {
		r[i] = f.regs[int(f.lastReg)+i]
	}
	return nil
}

func newReadyFake() *fakeI2C {
	f := &fakeI2C{}
	f.regs[regChipID] = chipID
	f.regs[regStatus] = statusReady
	return f
}

func TestConfigureVerifiesIdentity(t *testing.T) {
	f := newReadyFake()
	d := New(f)
	if err := d.Configure(); err != nil {
		t.Fatalf("configure: %v", err)
	}

	f.regs[regChipID] = 0x00
	if err := d.Configure(); err != ErrNotFound {
		t.Fatalf("configure with bad id = %v, want ErrNotFound", err)
	}

	f.regs[regChipID] = chipID
	f.regs[regStatus] = 0
	if err := d.Configure(); err != ErrNotReady {
		t.Fatalf("configure before firmware up = %v, want ErrNotReady", err)
	}
}

func TestStartScanSelectsFrame(t *testing.T) {
	f := newReadyFake()
	d := New(f)

	if err := d.StartScan(FrameAll); err != nil {
		t.Fatalf("start all: %v", err)
	}
	if err := d.StartScan(FrameLowPower); err != nil {
		t.Fatalf("start low power: %v", err)
	}
	if len(f.ctrlWrites) != 2 || f.ctrlWrites[0] != ctrlScanAll || f.ctrlWrites[1] != ctrlScanLP {
		t.Fatalf("ctrl writes = %x, want [%x %x]", f.ctrlWrites, ctrlScanAll, ctrlScanLP)
	}

	f.regs[regStatus] = statusReady | statusBusy
	if err := d.StartScan(FrameAll); err != ErrBusy {
		t.Fatalf("start while busy = %v, want ErrBusy", err)
	}
}

func TestBusyTreatsReadFailureAsBusy(t *testing.T) {
	f := newReadyFake()
	d := New(f)
	if d.Busy() {
		t.Fatal("idle chip reported busy")
	}
	f.regs[regStatus] |= statusBusy
	if !d.Busy() {
		t.Fatal("busy chip reported idle")
	}
	f.failAll = true
	if !d.Busy() {
		t.Fatal("unreadable chip must count as busy")
	}
}

func TestSetWakeReloadLittleEndian(t *testing.T) {
	f := newReadyFake()
	d := New(f)
	if err := d.SetWakeReload(0x0001_1322); err != nil {
		t.Fatalf("set reload: %v", err)
	}
	got := f.regs[regWakeReload0 : regWakeReload0+4]
	want := []byte{0x22, 0x13, 0x01, 0x00}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reload bytes = %x, want %x", got, want)
		}
	}
}

func TestProxDetail(t *testing.T) {
	f := newReadyFake()
	f.regs[regProxState] = 1
	f.regs[regProxDiff0] = 0x64 // 100
	f.regs[regProxDiff0+1] = 0x00
	f.regs[regProxSpan0] = 0x90 // 400
	f.regs[regProxSpan0+1] = 0x01

	d := New(f)
	state, diff, span, err := d.ProxDetail()
	if err != nil {
		t.Fatalf("prox detail: %v", err)
	}
	if state != 1 || diff != 100 || span != 400 {
		t.Fatalf("detail = %d/%d/%d, want 1/100/400", state, diff, span)
	}
}

func TestReadStateClampsToWindow(t *testing.T) {
	f := newReadyFake()
	for i := 0; i < StateWindow; i++ {
		f.regs[regState0+i] = byte(i)
	}
	d := New(f)

	dst := make([]byte, StateWindow+8)
	if err := d.ReadState(dst); err != nil {
		t.Fatalf("read state: %v", err)
	}
	for i := 0; i < StateWindow; i++ {
		if dst[i] != byte(i) {
			t.Fatalf("state[%d] = %d, want %d", i, dst[i], i)
		}
	}
	for i := StateWindow; i < len(dst); i++ {
		if dst[i] != 0 {
			t.Fatalf("byte %d past window written", i)
		}
	}
}
