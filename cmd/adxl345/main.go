// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// adxl345 polls an ADXL345 accelerometer on an I²C bus and prints the
// acceleration. Samples can also be published to an MQTT broker and streamed
// to websocket clients.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/accel/adxl345"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// sensor is the part of *adxl345.Dev the loop needs.
type sensor interface {
	Sense() (adxl345.Acceleration, error)
}

// run takes count samples, or samples until ctx is done when count is 0. A
// failed read is logged and the loop keeps going.
func run(ctx context.Context, s sensor, scale float64, interval time.Duration, count int, sinks []sink) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for n := 0; count == 0 || n < count; n++ {
		if n > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
			}
		}
		a, err := s.Sense()
		if err != nil {
			log.Printf("read failed: %v", err)
			continue
		}
		smp := &sample{Time: time.Now(), Raw: a, G: a.G(scale)}
		for _, k := range sinks {
			if err := k.publish(smp); err != nil {
				log.Printf("publish failed: %v", err)
			}
		}
	}
	return nil
}

// cliFlags are the command line flags.
type cliFlags struct {
	fs       *flag.FlagSet
	config   *string
	bus      *string
	addr     i2c.Addr
	scan     *bool
	interval *time.Duration
	count    *int
	broker   *string
	topic    *string
	listen   *string
	verbose  *bool
}

func newCLIFlags(fs *flag.FlagSet) *cliFlags {
	f := &cliFlags{fs: fs}
	f.config = fs.String("config", "", "path to a YAML configuration file")
	f.bus = fs.String("bus", "", "I²C bus to use")
	fs.Var(&f.addr, "addr", "I²C address of the device, 0 to scan the bus")
	f.scan = fs.Bool("scan", false, "print the address of the first device answering on the bus and exit")
	f.interval = fs.Duration("interval", 100*time.Millisecond, "time between samples")
	f.count = fs.Int("count", 0, "number of samples to take, 0 for no limit")
	f.broker = fs.String("mqtt", "", "MQTT broker to publish to, e.g. tcp://localhost:1883")
	f.topic = fs.String("topic", "", "MQTT topic")
	f.listen = fs.String("listen", "", "address to stream samples to websocket clients on, e.g. :8080")
	f.verbose = fs.Bool("v", false, "trace register accesses")
	return f
}

// apply copies the flags given on the command line over cfg. Flags left to
// their default don't override the configuration file.
func (f *cliFlags) apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "bus":
			cfg.Bus = *f.bus
		case "addr":
			cfg.Address = uint16(f.addr)
		case "interval":
			cfg.IntervalMs = int(*f.interval / time.Millisecond)
		case "count":
			cfg.Count = *f.count
		case "mqtt":
			cfg.MQTT.Broker = *f.broker
		case "topic":
			cfg.MQTT.Topic = *f.topic
		case "listen":
			cfg.Listen = *f.listen
		}
	})
}

func mainImpl() error {
	f := newCLIFlags(flag.CommandLine)
	flag.Parse()
	if flag.NArg() != 0 {
		return fmt.Errorf("unexpected argument: %s", flag.Args())
	}

	cfg := defaultConfig()
	if *f.config != "" {
		var err error
		if cfg, err = loadConfig(*f.config); err != nil {
			return err
		}
	}
	f.apply(&cfg)
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return err
	}
	defer bus.Close()

	if *f.scan || cfg.Address == 0 {
		a, err := adxl345.ScanDeviceID(bus)
		if err != nil {
			return fmt.Errorf("scanning %s: %w", bus, err)
		}
		log.Printf("device found at %#x", a)
		if *f.scan {
			return nil
		}
		cfg.Address = a
	}

	o := cfg.opts()
	o.InitOnStart = false
	dev, err := adxl345.NewI2C(bus, cfg.Address, o)
	if err != nil {
		return err
	}
	if *f.verbose {
		dev.EnableDebug(log.Printf)
	}
	rep, err := dev.Init()
	if err != nil {
		return err
	}
	if err := rep.Err(); err != nil {
		log.Printf("%s: configuration incomplete: %v", dev, err)
	}
	defer dev.Halt()
	log.Printf("%s: device id %#x", dev, rep.DeviceID)

	sinks := []sink{logSink{}}
	if cfg.MQTT.Broker != "" {
		m, err := newMQTTSink(cfg.MQTT)
		if err != nil {
			return err
		}
		defer m.close()
		sinks = append(sinks, m)
	}
	if cfg.Listen != "" {
		h := newWSHub()
		h.listen(cfg.Listen)
		defer h.close()
		sinks = append(sinks, h)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, dev, o.DataFormat.Range.ScaleFactor(), cfg.interval(), cfg.Count, sinks)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "adxl345: %s.\n", err)
		os.Exit(1)
	}
}
