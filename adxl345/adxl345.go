// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// SPI connection parameters.
var (
	SpiFrequency = physic.KiloHertz * 50
	SpiMode      = spi.Mode3 // Defines the base clock signal, along with the polarity and phase of the data signal.
	SpiBits      = 8
)

const (
	// DefaultTimeout bounds every register transaction.
	DefaultTimeout = 1000 * time.Millisecond

	expectedDeviceID byte = 0xE5
)

// DefaultOpts brings the device up measuring at 800Hz in the ±4g range.
var DefaultOpts = Opts{
	InitOnStart:      true,
	ExpectedDeviceID: expectedDeviceID,
	PowerControl:     PowerControl{Wakeup: Wakeup8Hz, Measure: true},
	DataFormat:       DataFormatConfig{Range: S4G},
	BandwidthRate:    BandwidthRate{Rate: Rate800Hz},
	Timeout:          DefaultTimeout,
}

// Opts holds the configuration options for the device.
type Opts struct {
	InitOnStart      bool             // Run Init() from NewI2C/NewSpi.
	ExpectedDeviceID byte             // Expected device ID used to verify that the device is an ADXL345.
	PowerControl     PowerControl     // Written to POWER_CTL by Init().
	DataFormat       DataFormatConfig // Written to DATA_FORMAT by Init().
	BandwidthRate    BandwidthRate    // Written to BW_RATE by Init().
	// Timeout bounds each bus transaction. 0 means no timeout.
	Timeout time.Duration
	// StrictInit makes Init() fail when one of the configuration writes
	// failed. By default only the device ID check can fail Init().
	StrictInit bool
}

// InitReport holds the outcome of each step of Init().
type InitReport struct {
	DeviceID         byte
	PowerControlErr  error
	DataFormatErr    error
	BandwidthRateErr error
}

// Err returns the configuration write failures, or nil.
func (r *InitReport) Err() error {
	return errors.Join(r.PowerControlErr, r.DataFormatErr, r.BandwidthRateErr)
}

// Dev is a driver for the ADXL345 accelerometer.
//
// It uses either the I²C or the SPI interface to communicate with the device.
type Dev struct {
	name string
	mode string
	opts Opts
	mu   sync.Mutex
	t    transport
}

// NewI2C returns a Dev talking to the device at addr on b.
//
// Use DefaultI2CAddr unless the ALT ADDRESS pin is tied high. A nil o means
// DefaultOpts. When o.InitOnStart is set the device is verified and
// configured; a *DeviceIDError is returned if it is not an ADXL345.
func NewI2C(b i2c.Bus, addr uint16, o *Opts) (*Dev, error) {
	if o == nil {
		o = &DefaultOpts
	}
	d := &Dev{
		name: "ADXL345",
		mode: "I2C",
		opts: *o,
		t:    newTransport(&i2c.Dev{Bus: b, Addr: addr}, false, o.Timeout),
	}
	return d.start()
}

// NewSpi returns a Dev talking to the device connected on p.
//
// The port is connected with SpiFrequency, SpiMode and SpiBits. Options work
// as for NewI2C.
func NewSpi(p spi.Port, o *Opts) (*Dev, error) {
	if o == nil {
		o = &DefaultOpts
	}
	// Convert the spi.Port into a spi.Conn so it can be used for communication.
	c, err := p.Connect(SpiFrequency, SpiMode, SpiBits)
	if err != nil {
		return nil, fmt.Errorf("adxl345: %w", err)
	}
	d := &Dev{
		name: "ADXL345",
		mode: "SPI",
		opts: *o,
		t:    newTransport(c, true, o.Timeout),
	}
	return d.start()
}

func (d *Dev) start() (*Dev, error) {
	if d.opts.InitOnStart {
		if _, err := d.Init(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s{%s %s Sensitivity:%s}", d.name, d.mode, d.t.c, d.opts.DataFormat.Range)
}

// Mode returns the bus the device is connected through, "I2C" or "SPI".
func (d *Dev) Mode() string {
	return d.mode
}

// EnableDebug traces every register access through f.
func (d *Dev) EnableDebug(f DebugF) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.t.debug = f
}

// Init verifies the device ID then writes POWER_CTL, DATA_FORMAT and BW_RATE
// in this order.
//
// Nothing is written when the ID doesn't match. The write statuses are
// reported in InitReport; they only fail Init() when Opts.StrictInit is set.
// Init can be called again at any time to restore the configuration.
func (d *Dev) Init() (InitReport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var rep InitReport
	var id [1]byte
	if err := d.t.readRegister(DevID, id[:]); err != nil {
		return rep, &DeviceIDError{Want: d.opts.ExpectedDeviceID, Err: err}
	}
	rep.DeviceID = id[0]
	if id[0] != d.opts.ExpectedDeviceID {
		return rep, &DeviceIDError{Got: id[0], Want: d.opts.ExpectedDeviceID}
	}
	rep.PowerControlErr = d.t.writeRegister(PowerCtl, d.opts.PowerControl.Encode())
	rep.DataFormatErr = d.t.writeRegister(DataFormat, d.opts.DataFormat.Encode())
	rep.BandwidthRateErr = d.t.writeRegister(BwRate, d.opts.BandwidthRate.Encode())
	if d.opts.StrictInit {
		if err := rep.Err(); err != nil {
			return rep, fmt.Errorf("adxl345: configuration failed: %w", err)
		}
	}
	return rep, nil
}

// ReadRegister reads len(b) consecutive registers starting at reg.
//
// b is left untouched on failure.
func (d *Dev) ReadRegister(reg byte, b []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.t.readRegister(reg, b)
}

// WriteRegister writes a 1 byte value to the specified register address.
func (d *Dev) WriteRegister(reg, value byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.t.writeRegister(reg, value)
}

// AxisValue returns the raw sample of one axis.
//
// DATAx0 holds the low byte and DATAx1 the high byte of a two's complement
// value. On failure the sample is 0 and the error is returned; callers that
// accept a zero sample may ignore it.
func (d *Dev) AxisValue(a Axis) (int16, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b [2]byte
	if err := d.t.readRegister(byte(a), b[:]); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b[:])), nil
}

// GValue returns the acceleration of one axis in g: the raw sample times
// scale, which must match the configured range (see Sensitivity.ScaleFactor).
//
// As for AxisValue, the value is 0 on failure.
func (d *Dev) GValue(a Axis, scale float64) (float64, error) {
	raw, err := d.AxisValue(a)
	return float64(raw) * scale, err
}

// Sense reads the three axes in a single burst, so they belong to the same
// sample.
func (d *Dev) Sense() (Acceleration, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b [6]byte
	if err := d.t.readRegister(DataX0, b[:]); err != nil {
		return Acceleration{}, err
	}
	return Acceleration{
		X: int16(binary.LittleEndian.Uint16(b[0:2])),
		Y: int16(binary.LittleEndian.Uint16(b[2:4])),
		Z: int16(binary.LittleEndian.Uint16(b[4:6])),
	}, nil
}

// Update reads the acceleration values from the ADXL345.
// This is a simple synchronous implementation; a failed read yields zeros.
func (d *Dev) Update() Acceleration {
	a, _ := d.Sense()
	return a
}

// Sensitivity reads back the range currently configured on the device.
func (d *Dev) Sensitivity() (Sensitivity, error) {
	f, err := d.ReadDataFormat()
	return f.Range, err
}

// ReadPowerControl reads and decodes POWER_CTL.
func (d *Dev) ReadPowerControl() (PowerControl, error) {
	b, err := d.readByte(PowerCtl)
	return DecodePowerControl(b), err
}

// ReadDataFormat reads and decodes DATA_FORMAT.
func (d *Dev) ReadDataFormat() (DataFormatConfig, error) {
	b, err := d.readByte(DataFormat)
	return DecodeDataFormat(b), err
}

// ReadBandwidthRate reads and decodes BW_RATE.
func (d *Dev) ReadBandwidthRate() (BandwidthRate, error) {
	b, err := d.readByte(BwRate)
	return DecodeBandwidthRate(b), err
}

// TurnOn turns on the measurement mode of the ADXL345.
// This is required before reading data from the device.
func (d *Dev) TurnOn() error {
	return d.setMeasure(true)
}

// TurnOff puts the device in standby mode.
func (d *Dev) TurnOff() error {
	return d.setMeasure(false)
}

// Halt implements conn.Resource. It puts the device in standby mode.
func (d *Dev) Halt() error {
	return d.TurnOff()
}

func (d *Dev) setMeasure(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	pc := d.opts.PowerControl
	pc.Measure = on
	return d.t.writeRegister(PowerCtl, pc.Encode())
}

func (d *Dev) readByte(reg byte) (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b [1]byte
	err := d.t.readRegister(reg, b[:])
	return b[0], err
}

// Acceleration represents the raw acceleration on the three axes.
type Acceleration struct {
	X int16 `json:"x"`
	Y int16 `json:"y"`
	Z int16 `json:"z"`
}

// String returns a string representation of the Acceleration
func (a Acceleration) String() string {
	return fmt.Sprintf("X:%d Y:%d Z:%d", a.X, a.Y, a.Z)
}

// G converts the raw values with scale, in g per LSB.
func (a Acceleration) G(scale float64) GForce {
	return GForce{
		X: float64(a.X) * scale,
		Y: float64(a.Y) * scale,
		Z: float64(a.Z) * scale,
	}
}

// GForce is an acceleration in g on the three axes.
type GForce struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (g GForce) String() string {
	return fmt.Sprintf("X:%.3fg Y:%.3fg Z:%.3fg", g.X, g.Y, g.Z)
}

var _ conn.Resource = &Dev{}
