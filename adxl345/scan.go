// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"time"

	"periph.io/x/conn/v3/i2c"
)

const (
	// DefaultI2CAddr is the address with the ALT ADDRESS pin low.
	DefaultI2CAddr uint16 = 0x53
	// AltI2CAddr is the address with the ALT ADDRESS pin high.
	AltI2CAddr uint16 = 0x1D

	// NotFound is the address returned alongside ErrNotFound.
	NotFound uint16 = 0xFFFF

	// DefaultProbeTimeout bounds each presence probe during a scan.
	DefaultProbeTimeout = 10 * time.Millisecond

	scanFirst uint16 = 0
	scanLast  uint16 = 255
)

// Probe reports whether a device acknowledges addr on b.
//
// It does a single byte read. A transaction without data would match the
// datasheet's address-only probe more closely, but not every periph bus
// driver accepts a Tx with neither a write nor a read buffer.
func Probe(b i2c.Bus, addr uint16, timeout time.Duration) bool {
	t := newTransport(&i2c.Dev{Bus: b, Addr: addr}, false, timeout)
	return t.probe()
}

// ScanDeviceID probes every address from 0 to 255 and returns the first one
// that answers.
//
// This is a diagnostic helper; nothing else must use the bus while it runs.
func ScanDeviceID(b i2c.Bus) (uint16, error) {
	return ScanRange(b, scanFirst, scanLast, DefaultProbeTimeout)
}

// ScanRange probes addresses first to last inclusive, in order, and returns
// the first one that answers or NotFound and ErrNotFound.
//
// A probe that times out holds the bus until it completes, so probes never
// overlap.
func ScanRange(b i2c.Bus, first, last uint16, timeout time.Duration) (uint16, error) {
	t := newTransport(nil, false, timeout)
	for addr := uint32(first); addr <= uint32(last); addr++ {
		t.c = &i2c.Dev{Bus: b, Addr: uint16(addr)}
		if t.probe() {
			return uint16(addr), nil
		}
	}
	return NotFound, ErrNotFound
}
