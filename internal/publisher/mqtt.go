package publisher

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/mrpolar777/Consulta-API/internal/config"
	"github.com/mrpolar777/Consulta-API/internal/database"
)

// Publisher sends stored report rows to an MQTT broker, one retained
// message per row, so fleet dashboards can subscribe per vehicle.
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
}

// New connects to the configured MQTT broker
func New(cfg config.MQTTConfig, topicPrefix string) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("MQTT publishing is not enabled in config")
	}
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID("consulta-api")
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return &Publisher{client: client, topicPrefix: topicPrefix}, nil
}

// payload is the wire format of one published row
type payload struct {
	ReportDate string  `json:"report_date"`
	VehicleID  int64   `json:"vehicle_id"`
	Vehicle    string  `json:"vehicle"`
	DistanceKM float64 `json:"distance_km"`
	FuelLiters float64 `json:"fuel_liters"`
	Cost       float64 `json:"cost"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	ServerTime string  `json:"server_time"`
	Ignition   string  `json:"ignition"`
}

// Publish sends one stored report row to <prefix>/<vehicle>/report
func (p *Publisher) Publish(row database.StoredRow) error {
	body, err := json.Marshal(payload{
		ReportDate: row.ReportDate.Format("2006-01-02"),
		VehicleID:  row.VehicleID,
		Vehicle:    row.VehicleName,
		DistanceKM: row.Distance,
		FuelLiters: row.FuelLiters,
		Cost:       row.Cost,
		Latitude:   row.Latitude,
		Longitude:  row.Longitude,
		ServerTime: row.ServerTime,
		Ignition:   row.Ignition,
	})
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	topic := fmt.Sprintf("%s/%s/report", p.topicPrefix, topicSegment(row.VehicleName, row.VehicleID))
	if token := p.client.Publish(topic, 1, true, body); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}

	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

// topicSegment makes a vehicle name safe for use inside an MQTT topic
func topicSegment(name string, id int64) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Sprintf("vehicle_%d", id)
	}
	name = strings.ToLower(name)
	for _, c := range []string{" ", "/", "+", "#"} {
		name = strings.ReplaceAll(name, c, "_")
	}
	return name
}
