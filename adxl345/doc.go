// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package adxl345 controls an ADXL345 3-axis accelerometer over I²C or SPI.
//
// The driver is a thin register access layer. Init() checks the device ID and
// writes the power, data format and rate registers; AxisValue() and GValue()
// read one axis, Sense() reads the three axes at once.
//
// Raw samples are converted to g with the scale factor of the configured
// range, see Sensitivity.ScaleFactor(). The driver doesn't track which range
// the device is in.
//
// Interrupt, tap, activity, free-fall and FIFO registers are listed in the
// register map but not used.
//
// # Datasheet
//
// http://www.analog.com/media/en/technical-documentation/data-sheets/ADXL345.pdf
package adxl345
