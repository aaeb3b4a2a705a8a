package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// wireReading is the JSON shape accepted on every ingestion transport.
// machine_id may be omitted when the transport carries it (MQTT topic).
type wireReading struct {
	MachineID      *int       `json:"machine_id"`
	Timestamp      *time.Time `json:"timestamp"`
	OperatingHours int        `json:"operating_hours"`
	Temperature    *float64   `json:"temperature"`
	Pressure       *float64   `json:"pressure"`
	Vibration      *float64   `json:"vibration"`
	OilQuality     *float64   `json:"oil_quality"`
	Failure        bool       `json:"failure"`
}

// Parser turns raw payloads into readings.
type Parser struct {
	now func() time.Time
}

func NewParser(now func() time.Time) *Parser {
	if now == nil {
		now = time.Now
	}
	return &Parser{now: now}
}

// Parse accepts a single JSON object or an array of objects. fallbackID is
// used for readings without machine_id; pass -1 when there is none.
// A missing timestamp is stamped with the receive time.
func (p *Parser) Parse(payload []byte, fallbackID int) ([]models.Reading, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", models.ErrMalformedReading)
	}

	var wire []wireReading
	if payload[0] == '[' {
		if err := json.Unmarshal(payload, &wire); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrMalformedReading, err)
		}
	} else {
		var one wireReading
		if err := json.Unmarshal(payload, &one); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrMalformedReading, err)
		}
		wire = []wireReading{one}
	}

	if len(wire) == 0 {
		return nil, fmt.Errorf("%w: no readings", models.ErrMalformedReading)
	}

	received := p.now().UTC()
	readings := make([]models.Reading, 0, len(wire))
	for i, w := range wire {
		r, err := w.toReading(fallbackID, received)
		if err != nil {
			return nil, fmt.Errorf("reading %d: %w", i, err)
		}
		readings = append(readings, r)
	}
	return readings, nil
}

func (w wireReading) toReading(fallbackID int, received time.Time) (models.Reading, error) {
	var missing []string
	if w.MachineID == nil && fallbackID < 0 {
		missing = append(missing, "machine_id")
	}
	if w.Temperature == nil {
		missing = append(missing, "temperature")
	}
	if w.Pressure == nil {
		missing = append(missing, "pressure")
	}
	if w.Vibration == nil {
		missing = append(missing, "vibration")
	}
	if w.OilQuality == nil {
		missing = append(missing, "oil_quality")
	}
	if len(missing) > 0 {
		return models.Reading{}, fmt.Errorf("%w: missing %s", models.ErrMalformedReading, strings.Join(missing, ", "))
	}

	r := models.Reading{
		MachineID:      fallbackID,
		Timestamp:      received,
		OperatingHours: w.OperatingHours,
		Temperature:    *w.Temperature,
		Pressure:       *w.Pressure,
		Vibration:      *w.Vibration,
		OilQuality:     *w.OilQuality,
		Failure:        w.Failure,
	}
	if w.MachineID != nil {
		r.MachineID = *w.MachineID
	}
	if w.Timestamp != nil {
		r.Timestamp = w.Timestamp.UTC()
	}
	return r, nil
}

// MachineIDFromTopic extracts the segment following "machines" in a topic
// such as pdm/machines/7/readings. It returns -1 when absent.
func MachineIDFromTopic(topic string) int {
	parts := strings.Split(topic, "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] != "machines" {
			continue
		}
		id, err := strconv.Atoi(parts[i+1])
		if err != nil || id < 0 {
			return -1
		}
		return id
	}
	return -1
}

// TopicForMachine fills the single-level wildcard of a subscription pattern.
func TopicForMachine(pattern string, machineID int) string {
	return strings.Replace(pattern, "+", strconv.Itoa(machineID), 1)
}
