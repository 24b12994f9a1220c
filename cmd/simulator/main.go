package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// ToolSnapshot mirrors the payload the server ingests from workshop
// diagnostic tools.
type ToolSnapshot struct {
	EngineSerial string            `json:"engine_serial"`
	Tool         string            `json:"tool"`
	CapturedAt   time.Time         `json:"captured_at"`
	Parameters   map[string]string `json:"parameters"`
}

var engineSerials = []string{
	"ENG-X15-001",
	"ENG-X15-002",
	"ENG-ISX-003",
	"ENG-L9-004",
}

var tools = []string{"INSITE", "Cummins Guidanz", "JPRO"}

// EngineState tracks simulated ECM readings that drift between snapshots.
type EngineState struct {
	Serial       string
	CoolantTempC float64
	FuelRailPSI  float64
	BoostPSI     float64
	EngineHours  float64
}

func newEngineState(serial string) *EngineState {
	return &EngineState{
		Serial:       serial,
		CoolantTempC: 80 + rand.Float64()*10,
		FuelRailPSI:  26000 + rand.Float64()*4000,
		BoostPSI:     18 + rand.Float64()*8,
		EngineHours:  5000 + rand.Float64()*15000,
	}
}

func (s *EngineState) drift() {
	s.CoolantTempC += (rand.Float64()*2 - 1) * 1.5
	if s.CoolantTempC < 70 {
		s.CoolantTempC = 70
	}
	if s.CoolantTempC > 110 {
		s.CoolantTempC = 110
	}
	s.FuelRailPSI += (rand.Float64()*2 - 1) * 500
	if s.FuelRailPSI < 20000 {
		s.FuelRailPSI = 20000
	}
	s.BoostPSI += (rand.Float64()*2 - 1) * 1.2
	if s.BoostPSI < 5 {
		s.BoostPSI = 5
	}
	s.EngineHours += 0.01
}

func snapshotFromState(s *EngineState) ToolSnapshot {
	return ToolSnapshot{
		EngineSerial: s.Serial,
		Tool:         tools[rand.Intn(len(tools))],
		CapturedAt:   time.Now().UTC(),
		Parameters: map[string]string{
			"coolant_temp_c":    fmt.Sprintf("%.1f", s.CoolantTempC),
			"fuel_rail_psi":     fmt.Sprintf("%.0f", s.FuelRailPSI),
			"boost_pressure":    fmt.Sprintf("%.1f", s.BoostPSI),
			"engine_hours":      fmt.Sprintf("%.1f", s.EngineHours),
			"battery_voltage":   fmt.Sprintf("%.1f", 12.2+rand.Float64()*2),
			"active_fault_lamp": []string{"off", "amber", "red"}[rand.Intn(3)],
		},
	}
}

func publishSnapshot(client mqtt.Client, snap ToolSnapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		log.WithError(err).Error("Failed to marshal snapshot")
		return
	}

	topic := fmt.Sprintf("servicesync/tools/%s/snapshot", snap.EngineSerial)
	token := client.Publish(topic, 1, true, data)
	token.Wait()
	if token.Error() != nil {
		log.WithError(token.Error()).WithField("topic", topic).Error("Failed to publish snapshot")
		return
	}

	log.WithFields(log.Fields{
		"engine_serial": snap.EngineSerial,
		"tool":          snap.Tool,
	}).Info("Published tool snapshot")
}

func main() {
	broker := os.Getenv("MQTT_BROKER")
	if broker == "" {
		broker = "tcp://localhost:1883"
	}

	interval := 10 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID("servicesync-tool-simulator")
	if u := os.Getenv("MQTT_USERNAME"); u != "" {
		opts.SetUsername(u)
	}
	if p := os.Getenv("MQTT_PASSWORD"); p != "" {
		opts.SetPassword(p)
	}
	opts.SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.WithError(token.Error()).Fatal("Failed to connect to MQTT broker")
	}
	defer client.Disconnect(250)

	log.WithFields(log.Fields{
		"broker":   broker,
		"engines":  len(engineSerials),
		"interval": interval,
	}).Info("Starting diagnostic tool simulation")

	states := make([]*EngineState, 0, len(engineSerials))
	for _, serial := range engineSerials {
		states = append(states, newEngineState(serial))
	}

	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		for _, s := range states {
			s.drift()
			publishSnapshot(client, snapshotFromState(s))
		}
	}
}
