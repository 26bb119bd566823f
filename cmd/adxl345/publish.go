// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/GermanBionicSystems/accel/adxl345"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"
)

// sample is one reading as published.
type sample struct {
	Time time.Time            `json:"time"`
	Raw  adxl345.Acceleration `json:"raw"`
	G    adxl345.GForce       `json:"g"`
}

// sink receives every sample.
type sink interface {
	publish(s *sample) error
	close()
}

// logSink prints samples.
type logSink struct{}

func (logSink) publish(s *sample) error {
	log.Printf("%s  %s", s.Raw, s.G)
	return nil
}

func (logSink) close() {}

// encodeSample returns the JSON payload of s.
func encodeSample(s *sample) ([]byte, error) {
	return json.Marshal(s)
}

// mqttSink publishes samples as JSON.
type mqttSink struct {
	client mqtt.Client
	topic  string
}

func newMQTTSink(c MQTTConfig) (*mqttSink, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(c.Broker).
		SetClientID(c.ClientID)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", c.Broker, token.Error())
	}
	return &mqttSink{client: client, topic: c.Topic}, nil
}

func (m *mqttSink) publish(s *sample) error {
	payload, err := encodeSample(s)
	if err != nil {
		return err
	}
	if token := m.client.Publish(m.topic, 0, false, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt publish to %s: %w", m.topic, token.Error())
	}
	return nil
}

func (m *mqttSink) close() {
	m.client.Disconnect(250)
}

const (
	wsQueueLen  = 16          // Samples buffered per client before dropping.
	wsWriteWait = time.Second // Time allowed to write one sample.
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsClient is a websocket connection and its queue of pending samples.
type wsClient struct {
	conn *websocket.Conn
	send chan *sample
}

// wsHub streams samples to every connected websocket client.
//
// Each client is written to by its own goroutine; publish never blocks and
// drops samples for clients whose queue is full.
type wsHub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
	srv     *http.Server
}

func newWSHub() *wsHub {
	return &wsHub{clients: map[*wsClient]struct{}{}}
}

// ServeHTTP upgrades the connection and keeps it until the client leaves.
func (h *wsHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	c := &wsClient{conn: conn, send: make(chan *sample, wsQueueLen)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	go h.write(c)

	// Drain the client so close frames are processed.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}
	}
	h.remove(c)
}

// write sends the queued samples to c until it is removed.
func (h *wsHub) write(c *wsClient) {
	for s := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := c.conn.WriteJSON(s); err != nil {
			log.Printf("websocket write error: %v", err)
			h.remove(c)
			return
		}
	}
}

func (h *wsHub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		c.conn.Close()
	}
}

func (h *wsHub) publish(s *sample) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- s:
		default:
			log.Printf("websocket client %s too slow, sample dropped", c.conn.RemoteAddr())
		}
	}
	return nil
}

func (h *wsHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// listen serves the hub at /ws on addr in the background.
func (h *wsHub) listen(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	h.srv = &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := h.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("websocket server: %v", err)
		}
	}()
}

func (h *wsHub) close() {
	if h.srv != nil {
		h.srv.Close()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		c.conn.Close()
	}
}
