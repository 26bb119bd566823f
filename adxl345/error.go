// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by ScanDeviceID when no address acknowledged.
	ErrNotFound = errors.New("adxl345: no device found")
	// ErrTimeout is returned when a bus transaction did not complete in time.
	ErrTimeout = errors.New("adxl345: bus transaction timed out")
	// ErrShortBuffer is returned when a burst read is requested with no room.
	ErrShortBuffer = errors.New("adxl345: empty read buffer")
)

// DeviceIDError is returned by Init when the DEVID register doesn't hold the
// expected value, or couldn't be read at all.
type DeviceIDError struct {
	Got  byte
	Want byte
	Err  error // Read failure, if any.
}

func (e *DeviceIDError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("adxl345: failed to read device id: %v", e.Err)
	}
	return fmt.Sprintf("adxl345: wrong device connected, device id %#x, expected %#x", e.Got, e.Want)
}

func (e *DeviceIDError) Unwrap() error {
	return e.Err
}
