// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Register map.
const (
	DevID = 0x00 // Device ID, expected to be 0xE5 when using ADXL345

	// 0x01 to 0x1C are reserved.

	ThreshTap    = 0x1D // Tap threshold
	OfsX         = 0x1E // X-axis offset
	OfsY         = 0x1F // Y-axis offset
	OfsZ         = 0x20 // Z-axis offset
	Dur          = 0x21 // Tap duration
	Latent       = 0x22 // Tap latency
	Window       = 0x23 // Tap window
	ThreshAct    = 0x24 // Activity threshold
	ThreshInact  = 0x25 // Inactivity threshold
	TimeInact    = 0x26 // Inactivity time
	ActInactCtl  = 0x27 // Axis control for activity/inactivity detection
	ThreshFF     = 0x28 // Free-fall threshold
	TimeFF       = 0x29 // Free-fall time
	TapAxes      = 0x2A // Axis control for single tap/double tap
	ActTapStatus = 0x2B // Source of single tap/double tap

	// Control registers

	BwRate     = 0x2C // Data rate and power mode control
	PowerCtl   = 0x2D // Power saving features control
	IntEnable  = 0x2E // Interrupt enable control
	IntMap     = 0x2F // Interrupt mapping control
	IntSource  = 0x30 // Source of interrupts
	DataFormat = 0x31 // Data format control

	// Data registers
	DataX0 = 0x32 // X-Axis Data 0
	DataX1 = 0x33 // X-Axis Data 1
	DataY0 = 0x34 // Y-Axis Data 0
	DataY1 = 0x35 // Y-Axis Data 1
	DataZ0 = 0x36 // Z-Axis Data 0
	DataZ1 = 0x37 // Z-Axis Data 1

	// FIFO control
	FifoCtl    = 0x38 // FIFO control
	FifoStatus = 0x39 // FIFO status
)

// Axis is the address of the low byte of an axis data register pair.
type Axis byte

const (
	X Axis = DataX0
	Y Axis = DataY0
	Z Axis = DataZ0
)

func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	default:
		return fmt.Sprintf("Axis(%#x)", byte(a))
	}
}

// WakeupRate is the frequency of readings while in sleep mode.
type WakeupRate byte

const (
	Wakeup8Hz WakeupRate = 0x00
	Wakeup4Hz WakeupRate = 0x01
	Wakeup2Hz WakeupRate = 0x02
	Wakeup1Hz WakeupRate = 0x03
)

// Sensitivity is the full-scale range selected in DATA_FORMAT.
type Sensitivity byte

const (
	S2G  Sensitivity = 0x00 // Sensitivity at 2g
	S4G  Sensitivity = 0x01 // Sensitivity at 4g
	S8G  Sensitivity = 0x02 // Sensitivity at 8g
	S16G Sensitivity = 0x03 // Sensitivity at 16g
)

// Scale factors in g per LSB for each range, 10 bit resolution.
const (
	ScaleFactor2G  = 1 / 256.0
	ScaleFactor4G  = 1 / 128.0
	ScaleFactor8G  = 1 / 64.0
	ScaleFactor16G = 1 / 32.0
)

// ScaleFactor returns the g per LSB matching the range when FULL_RES is off.
//
// Nothing keeps this in sync with what the device is actually configured
// with; read it back with Dev.Sensitivity() when in doubt.
func (s Sensitivity) ScaleFactor() float64 {
	switch s & 0x03 {
	case S2G:
		return ScaleFactor2G
	case S4G:
		return ScaleFactor4G
	case S8G:
		return ScaleFactor8G
	default:
		return ScaleFactor16G
	}
}

func (s Sensitivity) String() string {
	switch s {
	case S2G:
		return "±2g"
	case S4G:
		return "±4g"
	case S8G:
		return "±8g"
	case S16G:
		return "±16g"
	default:
		return fmt.Sprintf("Sensitivity(%d)", byte(s))
	}
}

// Rate is the output data rate code of BW_RATE.
type Rate byte

const (
	Rate0_05Hz Rate = iota
	Rate0_10Hz
	Rate0_20Hz
	Rate0_39Hz
	Rate0_78Hz
	Rate1_56Hz
	Rate3_13Hz
	Rate6_25Hz
	Rate12_5Hz
	Rate25Hz
	Rate50Hz
	Rate100Hz
	Rate200Hz
	Rate400Hz
	Rate800Hz
	Rate1600Hz
)

var rateFrequencies = [...]physic.Frequency{
	50 * physic.MilliHertz,
	100 * physic.MilliHertz,
	200 * physic.MilliHertz,
	390 * physic.MilliHertz,
	780 * physic.MilliHertz,
	1560 * physic.MilliHertz,
	3130 * physic.MilliHertz,
	6250 * physic.MilliHertz,
	12500 * physic.MilliHertz,
	25 * physic.Hertz,
	50 * physic.Hertz,
	100 * physic.Hertz,
	200 * physic.Hertz,
	400 * physic.Hertz,
	800 * physic.Hertz,
	1600 * physic.Hertz,
}

// Frequency returns the output data rate.
func (r Rate) Frequency() physic.Frequency {
	return rateFrequencies[r&0x0F]
}

func (r Rate) String() string {
	return r.Frequency().String()
}

// RateFor returns the rate code for an exact output data rate.
func RateFor(f physic.Frequency) (Rate, bool) {
	for i, rf := range rateFrequencies {
		if rf == f {
			return Rate(i), true
		}
	}
	return 0, false
}

// Bit positions shared by the configuration registers.
const (
	pcWakeupMask   = 0x03
	pcSleepBit     = 2
	pcMeasureBit   = 3
	pcAutoSleepBit = 4
	pcLinkBit      = 5

	dfRangeMask    = 0x03
	dfJustifyBit   = 2
	dfFullResBit   = 3
	dfIntInvertBit = 5
	dfSPIBit       = 6
	dfSelfTestBit  = 7

	bwRateMask    = 0x0F
	bwLowPowerBit = 4
)

// PowerControl is the content of the POWER_CTL register.
type PowerControl struct {
	Wakeup    WakeupRate // Reading frequency in sleep mode
	Sleep     bool       // Sleep mode
	Measure   bool       // Measurement mode, required to get samples
	AutoSleep bool       // Automatic sleep on inactivity, requires Link
	Link      bool       // Serial activity/inactivity
}

// Encode returns the register value. Reserved bits are zero.
func (p PowerControl) Encode() byte {
	b := byte(p.Wakeup) & pcWakeupMask
	b |= bit(p.Sleep, pcSleepBit)
	b |= bit(p.Measure, pcMeasureBit)
	b |= bit(p.AutoSleep, pcAutoSleepBit)
	b |= bit(p.Link, pcLinkBit)
	return b
}

// DecodePowerControl decodes a POWER_CTL register value.
func DecodePowerControl(b byte) PowerControl {
	return PowerControl{
		Wakeup:    WakeupRate(b & pcWakeupMask),
		Sleep:     isSet(b, pcSleepBit),
		Measure:   isSet(b, pcMeasureBit),
		AutoSleep: isSet(b, pcAutoSleepBit),
		Link:      isSet(b, pcLinkBit),
	}
}

func (p PowerControl) String() string {
	return fmt.Sprintf("PowerControl{Wakeup:%d Sleep:%t Measure:%t AutoSleep:%t Link:%t}", p.Wakeup, p.Sleep, p.Measure, p.AutoSleep, p.Link)
}

// DataFormatConfig is the content of the DATA_FORMAT register.
type DataFormatConfig struct {
	Range          Sensitivity
	Justify        bool // Left justified (MSB) mode
	FullResolution bool // 4mg/LSB whatever the range
	IntInvert      bool // Interrupts active low
	SPI3Wire       bool // 3-wire SPI mode
	SelfTest       bool
}

// Encode returns the register value. The reserved bit 4 is zero.
func (f DataFormatConfig) Encode() byte {
	b := byte(f.Range) & dfRangeMask
	b |= bit(f.Justify, dfJustifyBit)
	b |= bit(f.FullResolution, dfFullResBit)
	b |= bit(f.IntInvert, dfIntInvertBit)
	b |= bit(f.SPI3Wire, dfSPIBit)
	b |= bit(f.SelfTest, dfSelfTestBit)
	return b
}

// DecodeDataFormat decodes a DATA_FORMAT register value.
func DecodeDataFormat(b byte) DataFormatConfig {
	return DataFormatConfig{
		Range:          Sensitivity(b & dfRangeMask),
		Justify:        isSet(b, dfJustifyBit),
		FullResolution: isSet(b, dfFullResBit),
		IntInvert:      isSet(b, dfIntInvertBit),
		SPI3Wire:       isSet(b, dfSPIBit),
		SelfTest:       isSet(b, dfSelfTestBit),
	}
}

func (f DataFormatConfig) String() string {
	return fmt.Sprintf("DataFormat{Range:%s Justify:%t FullRes:%t IntInvert:%t SPI3Wire:%t SelfTest:%t}", f.Range, f.Justify, f.FullResolution, f.IntInvert, f.SPI3Wire, f.SelfTest)
}

// BandwidthRate is the content of the BW_RATE register.
type BandwidthRate struct {
	Rate     Rate
	LowPower bool
}

// Encode returns the register value. Reserved bits 5-7 are zero.
func (r BandwidthRate) Encode() byte {
	return byte(r.Rate)&bwRateMask | bit(r.LowPower, bwLowPowerBit)
}

// DecodeBandwidthRate decodes a BW_RATE register value.
func DecodeBandwidthRate(b byte) BandwidthRate {
	return BandwidthRate{
		Rate:     Rate(b & bwRateMask),
		LowPower: isSet(b, bwLowPowerBit),
	}
}

func (r BandwidthRate) String() string {
	return fmt.Sprintf("BandwidthRate{Rate:%s LowPower:%t}", r.Rate, r.LowPower)
}

func bit(v bool, pos uint) byte {
	if v {
		return 1 << pos
	}
	return 0
}

func isSet(b byte, pos uint) bool {
	return b&(1<<pos) != 0
}
