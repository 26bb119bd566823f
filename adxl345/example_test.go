// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345_test

import (
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/accel/adxl345"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// ExampleNewI2C uses an adxl345 device connected by I²C at the default
// address 0x53.
// It reads the three axes every 100ms for 3 seconds.
// You can use `i2cdetect` to find the I²C bus number
// e.g : sudo apt-get install i2c-tools
//
//	sudo i2cdetect -y 1
func ExampleNewI2C() {
	mustInitHost()

	// Use i2creg to find the first available I²C bus.
	// Generally I2C1 on raspberry pi.
	p, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	d, err := adxl345.NewI2C(p, adxl345.DefaultI2CAddr, &adxl345.DefaultOpts)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(d)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	stop := time.After(3 * time.Second)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// Errors are ignored, a failed read gives 0.
			x, _ := d.GValue(adxl345.X, adxl345.ScaleFactor4G)
			y, _ := d.GValue(adxl345.Y, adxl345.ScaleFactor4G)
			z, _ := d.GValue(adxl345.Z, adxl345.ScaleFactor4G)
			fmt.Printf("%.3f %.3f %.3f\n", x, y, z)
		}
	}
}

// ExampleNewSpi uses an adxl345 device connected by SPI.
// It reads the acceleration values every 30ms for 3 seconds.
func ExampleNewSpi() {
	mustInitHost()

	// Use spireg SPI port registry to find the first available SPI bus.
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	d, err := adxl345.NewSpi(p, &adxl345.DefaultOpts)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(d.Mode(), d)

	ticker := time.NewTicker(30 * time.Millisecond)
	defer ticker.Stop()
	stop := time.After(3 * time.Second)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a, err := d.Sense()
			if err != nil {
				log.Print(err)
				continue
			}
			fmt.Println(a.G(adxl345.ScaleFactor4G))
		}
	}
}

// ExampleScanDeviceID looks for the first device answering on the bus.
func ExampleScanDeviceID() {
	mustInitHost()

	p, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	addr, err := adxl345.ScanDeviceID(p)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("found device at %#x\n", addr)
}

// mustInitHost Make sure host is initialized.
func mustInitHost() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
}
