// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package accel is a container for accelerometer drivers.
//
// See the adxl345 package for the Analog Devices ADXL345 and cmd/adxl345 for
// a command line tool polling it.
package accel
