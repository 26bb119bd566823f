// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"errors"
	"sync"
	"testing"
	"time"

	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

// probeBus acks the addresses in ready and logs every probed address.
type probeBus struct {
	mu     sync.Mutex
	ready  map[uint16]bool
	probed []uint16
}

func (p *probeBus) String() string                  { return "probe" }
func (p *probeBus) SetSpeed(physic.Frequency) error { return nil }
func (p *probeBus) Tx(addr uint16, w, r []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.probed = append(p.probed, addr)
	if !p.ready[addr] {
		return conntest.Errorf("probe: nack")
	}
	return nil
}

func TestScanDeviceID(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: 83, R: []byte{0x00}}},
		DontPanic: true,
	}
	got, err := ScanDeviceID(pb)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x53 {
		t.Fatalf("ScanDeviceID() = %#x, expected 0x53", got)
	}
	if err := pb.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestScanDeviceID_Lowest(t *testing.T) {
	b := &probeBus{ready: map[uint16]bool{AltI2CAddr: true, DefaultI2CAddr: true, 0xF0: true}}
	got, err := ScanDeviceID(b)
	if err != nil {
		t.Fatal(err)
	}
	if got != AltI2CAddr {
		t.Fatalf("ScanDeviceID() = %#x, expected %#x", got, AltI2CAddr)
	}
	// The scan stops at the first device.
	if len(b.probed) != int(AltI2CAddr)+1 {
		t.Fatalf("expected %d probes, got %d", AltI2CAddr+1, len(b.probed))
	}
	for i, a := range b.probed {
		if a != uint16(i) {
			t.Fatalf("probe #%d at %#x", i, a)
		}
	}
}

func TestScanDeviceID_NotFound(t *testing.T) {
	b := &probeBus{}
	got, err := ScanDeviceID(b)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got != NotFound {
		t.Errorf("ScanDeviceID() = %#x, expected NotFound", got)
	}
	if len(b.probed) != 256 {
		t.Fatalf("expected 256 probes, got %d", len(b.probed))
	}
	if b.probed[255] != 255 {
		t.Errorf("last probe at %#x", b.probed[255])
	}
}

func TestScanRange(t *testing.T) {
	b := &probeBus{ready: map[uint16]bool{0x10: true, 0x53: true}}
	got, err := ScanRange(b, 0x20, 0x60, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x53 {
		t.Fatalf("ScanRange() = %#x, expected 0x53", got)
	}
	if b.probed[0] != 0x20 {
		t.Errorf("first probe at %#x", b.probed[0])
	}
	if _, err := ScanRange(b, 0x54, 0x54, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	// The upper bound doesn't wrap around.
	b = &probeBus{ready: map[uint16]bool{0xFFFF: true}}
	if got, err := ScanRange(b, 0xFFFE, 0xFFFF, 0); err != nil || got != 0xFFFF {
		t.Errorf("ScanRange() = %#x, %v", got, err)
	}
}

// Probes that time out don't pile up on the bus.
func TestScanRange_Serialized(t *testing.T) {
	b := &busyBus{delay: 50 * time.Millisecond}
	if _, err := ScanRange(b, 0, 7, 5*time.Millisecond); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, peak, _ := b.stats(); peak != 1 {
		t.Fatalf("expected probes to be serialized, got %d at once", peak)
	}
	b.waitIdle(t)
}

// A device strapped to the alternate address is found and brought up there.
func TestScan_AlternateAddress(t *testing.T) {
	f := newFakeDevice(AltI2CAddr)
	a, err := ScanDeviceID(f)
	if err != nil {
		t.Fatal(err)
	}
	if a != AltI2CAddr {
		t.Fatalf("ScanDeviceID() = %#x", a)
	}
	d, err := NewI2C(f, a, nil)
	if err != nil {
		t.Fatal(err)
	}
	f.regs[DataY0] = 0x80
	v, err := d.AxisValue(Y)
	if err != nil {
		t.Fatal(err)
	}
	if v != 128 {
		t.Errorf("AxisValue(Y) = %d", v)
	}
	if _, err := NewI2C(f, DefaultI2CAddr, nil); err == nil {
		t.Error("expected no device at the default address")
	}
}

func TestProbe(t *testing.T) {
	if !Probe(&slowBus{}, DefaultI2CAddr, time.Second) {
		t.Error("expected the device to answer")
	}
	if Probe(&slowBus{delay: 200 * time.Millisecond}, DefaultI2CAddr, 5*time.Millisecond) {
		t.Error("expected the probe to time out")
	}
	if Probe(&probeBus{}, DefaultI2CAddr, 0) {
		t.Error("expected no device")
	}
}
