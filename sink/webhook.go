package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/antongulenko/golib"
	sensors "github.com/bitflow-stream/go-app-sensors"
	log "github.com/sirupsen/logrus"
)

const (
	webhookRegisterSensor = "register_sensor"
	webhookUpdateStates   = "update_sensor_states"

	DefaultWebhookTimeout = 10 * time.Second
)

// WebhookSink pushes sensors to a Home Assistant mobile_app webhook.
type WebhookSink struct {
	URL    string
	Client *http.Client
}

var _ sensors.Sink = new(WebhookSink)

func NewWebhookSink(url string) *WebhookSink {
	return &WebhookSink{
		URL:    url,
		Client: &http.Client{Timeout: DefaultWebhookTimeout},
	}
}

func (s *WebhookSink) String() string {
	return "webhook " + s.URL
}

type webhookRequest struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func (s *WebhookSink) RegisterSensors(ctx context.Context, descs []sensors.Descriptor) error {
	var errors golib.MultiError
	for _, sensor := range descs {
		if err := s.post(ctx, webhookRegisterSensor, NewSensorRegistration(sensor)); err != nil {
			errors.Add(fmt.Errorf("%v: %v", sensor.ID, err))
		}
	}
	return errors.NilOrError()
}

func (s *WebhookSink) UpdateSensors(ctx context.Context, readings []sensors.Reading) error {
	states := make([]SensorState, len(readings))
	for i, reading := range readings {
		states[i] = NewSensorState(reading)
	}
	return s.post(ctx, webhookUpdateStates, states)
}

func (s *WebhookSink) post(ctx context.Context, requestType string, data interface{}) error {
	body, err := json.Marshal(webhookRequest{Type: requestType, Data: data})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%v request failed with status %v: %s", requestType, resp.Status, bytes.TrimSpace(msg))
	}
	log.Debugf("Webhook %v request succeeded (%v bytes)", requestType, len(body))
	return nil
}
