// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package logsink

import (
	"errors"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ErrNotConnected is returned while the broker connection is down.
var ErrNotConnected = errors.New("mqtt: not connected")

// MQTTMirror publishes every persisted record to a topic.
type MQTTMirror struct {
	client mqtt.Client
	topic  string
	log    *slog.Logger
}

// ConnectMQTT connects to the broker. The client reconnects on its own
// after the first successful connection.
func ConnectMQTT(broker, clientID, topic string, logger *slog.Logger) (*MQTTMirror, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt: connect %s: %w", broker, token.Error())
	}
	logger.Info("connected to MQTT broker", "broker", broker, "topic", topic)

	return NewMQTTMirror(client, topic, logger), nil
}

// NewMQTTMirror wraps a connected client.
func NewMQTTMirror(client mqtt.Client, topic string, logger *slog.Logger) *MQTTMirror {
	return &MQTTMirror{client: client, topic: topic, log: logger.With("component", "mqtt")}
}

// Publish queues line at QoS 0 without waiting for delivery, so a slow
// broker never stalls the acquisition loop.
func (m *MQTTMirror) Publish(line string) error {
	if !m.client.IsConnectionOpen() {
		return ErrNotConnected
	}
	token := m.client.Publish(m.topic, 0, false, line)
	go func() {
		if token.Wait() && token.Error() != nil {
			m.log.Warn("publish error", "topic", m.topic, "err", token.Error())
		}
	}()
	return nil
}

// Close disconnects from the broker.
func (m *MQTTMirror) Close() {
	m.client.Disconnect(250)
}
