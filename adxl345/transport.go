// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"time"

	"periph.io/x/conn/v3"
)

// DebugF the debug function type.
type DebugF func(string, ...interface{})

const (
	spiRead      = 0x80 // Bit 7 of the address byte selects a read.
	spiMultiByte = 0x40 // Bit 6 selects an auto-incremented burst.
)

// transport does register access over either I²C or SPI.
//
// Reads go through a scratch buffer so the caller's buffer is only modified
// once a transaction succeeded. At most one transaction is on the bus at a
// time, including one abandoned after a timeout.
type transport struct {
	c       conn.Conn
	spi     bool
	timeout time.Duration
	debug   DebugF
	busy    chan struct{} // Holds a token while a transaction runs.
}

func newTransport(c conn.Conn, spi bool, timeout time.Duration) transport {
	return transport{c: c, spi: spi, timeout: timeout, debug: noop, busy: make(chan struct{}, 1)}
}

func (t *transport) readRegister(reg byte, r []byte) error {
	if len(r) == 0 {
		return ErrShortBuffer
	}
	t.debug("read register %#x len %d", reg, len(r))
	if !t.spi {
		if err := t.tx([]byte{reg}, r); err != nil {
			return err
		}
		t.debug("register content %#x: % x", reg, r)
		return nil
	}
	// The first byte clocked in is garbage received while sending the address.
	w := make([]byte, len(r)+1)
	w[0] = reg | spiRead
	if len(r) > 1 {
		w[0] |= spiMultiByte
	}
	rx := make([]byte, len(w))
	if err := t.tx(w, rx); err != nil {
		return err
	}
	copy(r, rx[1:])
	t.debug("register content %#x: % x", reg, r)
	return nil
}

func (t *transport) writeRegister(reg, value byte) error {
	t.debug("write register %#x value %#x", reg, value)
	w := []byte{reg, value}
	if !t.spi {
		return t.tx(w, nil)
	}
	// Full duplex, the device clocks out two don't care bytes.
	var res [2]byte
	return t.tx(w, res[:])
}

// tx runs a single transaction bounded by t.timeout, including the time
// spent waiting for the bus.
//
// A transaction that times out keeps the bus until it completes; its result
// is dropped. Until then, following transactions wait for it or time out
// without touching the bus.
func (t *transport) tx(w, r []byte) error {
	var scratch []byte
	if len(r) != 0 {
		scratch = make([]byte, len(r))
	}
	if t.timeout <= 0 {
		t.busy <- struct{}{}
		err := t.c.Tx(w, scratch)
		<-t.busy
		if err != nil {
			return err
		}
		copy(r, scratch)
		return nil
	}
	timer := time.NewTimer(t.timeout)
	defer timer.Stop()
	select {
	case t.busy <- struct{}{}:
	case <-timer.C:
		t.debug("bus %s still busy after %s", t.c, t.timeout)
		return ErrTimeout
	}
	c, busy := t.c, t.busy
	done := make(chan error, 1)
	go func() {
		err := c.Tx(w, scratch)
		<-busy
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			return err
		}
		copy(r, scratch)
		return nil
	case <-timer.C:
		t.debug("transaction on %s timed out after %s", c, t.timeout)
		return ErrTimeout
	}
}

// probe does a single byte read addressed to the current connection.
func (t *transport) probe() bool {
	var buf [1]byte
	return t.tx(nil, buf[:]) == nil
}

func noop(string, ...interface{}) {}
