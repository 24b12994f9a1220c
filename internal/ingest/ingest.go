// Package ingest receives diagnostic tool snapshots over MQTT. Workshop
// tools publish the latest ECM parameter dump for an engine; the newest
// snapshot per serial is cached in memory and attached to diagnosis
// requests that do not carry their own tool data.
package ingest

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// TopicPattern is the subscription filter for tool snapshots. The single
// wildcard level carries the engine serial.
const TopicPattern = "servicesync/tools/+/snapshot"

// ToolSnapshot is one ECM parameter dump published by a diagnostic tool.
type ToolSnapshot struct {
	EngineSerial string            `json:"engine_serial"`
	Tool         string            `json:"tool,omitempty"`
	CapturedAt   time.Time         `json:"captured_at"`
	Parameters   map[string]string `json:"parameters"`
	ReceivedAt   time.Time         `json:"received_at"`
}

// Summary renders the snapshot as a compact line for diagnosis context.
func (s *ToolSnapshot) Summary() string {
	if len(s.Parameters) == 0 {
		return ""
	}
	parts := make([]string, 0, len(s.Parameters))
	for k, v := range s.Parameters {
		parts = append(parts, fmt.Sprintf("%s=%s", k, v))
	}
	return strings.Join(parts, ", ")
}

// SnapshotCache holds the latest tool snapshot per engine serial.
type SnapshotCache struct {
	mu        sync.RWMutex
	snapshots map[string]*ToolSnapshot
}

// NewSnapshotCache creates an empty cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{
		snapshots: make(map[string]*ToolSnapshot),
	}
}

// Put stores a snapshot, replacing any previous one for the same serial.
func (c *SnapshotCache) Put(snap *ToolSnapshot) {
	if snap == nil || snap.EngineSerial == "" {
		return
	}
	c.mu.Lock()
	c.snapshots[snap.EngineSerial] = snap
	c.mu.Unlock()
}

// Latest returns the most recent snapshot for an engine serial.
func (c *SnapshotCache) Latest(engineSerial string) (*ToolSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.snapshots[engineSerial]
	return snap, ok
}

// Subscriber connects to the MQTT broker and feeds tool snapshots into a
// cache.
type Subscriber struct {
	client mqtt.Client
	cache  *SnapshotCache
}

// Config holds broker connection settings.
type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// NewSubscriber connects to the broker. Returns an error if the broker is
// unreachable; callers treat the tool feed as optional.
func NewSubscriber(cfg Config, cache *SnapshotCache) (*Subscriber, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &Subscriber{client: client, cache: cache}, nil
}

// Start subscribes to the tool snapshot topic.
func (s *Subscriber) Start() error {
	token := s.client.Subscribe(TopicPattern, 1, func(_ mqtt.Client, msg mqtt.Message) {
		s.handleMessage(msg.Topic(), msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicPattern, token.Error())
	}
	log.WithField("topic", TopicPattern).Info("Subscribed to tool snapshot feed")
	return nil
}

// Stop disconnects from the broker.
func (s *Subscriber) Stop() {
	s.client.Disconnect(250)
}

func (s *Subscriber) handleMessage(topic string, payload []byte) {
	serial, ok := SerialFromTopic(topic)
	if !ok {
		log.WithField("topic", topic).Warn("Tool snapshot on unexpected topic")
		return
	}

	var snap ToolSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		log.WithError(err).WithField("topic", topic).Warn("Invalid tool snapshot payload")
		return
	}

	// The topic is authoritative for the serial; payloads occasionally
	// omit or mistype it.
	snap.EngineSerial = serial
	snap.ReceivedAt = time.Now().UTC()
	s.cache.Put(&snap)

	log.WithFields(log.Fields{
		"engine_serial": serial,
		"parameters":    len(snap.Parameters),
	}).Debug("Tool snapshot cached")
}

// SerialFromTopic extracts the engine serial from a snapshot topic of the
// form servicesync/tools/<serial>/snapshot.
func SerialFromTopic(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != "servicesync" || parts[1] != "tools" || parts[3] != "snapshot" {
		return "", false
	}
	if parts[2] == "" {
		return "", false
	}
	return parts[2], true
}
