package survey

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// publishedResult is the wire envelope for an analysis result. The
// timestamp lives here rather than on AnalysisResult so the engine itself
// stays a pure function of its input.
type publishedResult struct {
	GeneratedAt int64           `json:"generatedAt"`
	Result      *AnalysisResult `json:"result"`
}

// Publisher publishes analysis results to MQTT for dashboards and the
// acquisition app. Results are retained so late subscribers see the latest
// analysis immediately.
type Publisher struct {
	client        mqtt.Client
	publishPrefix string
	qos           byte
	retain        bool
}

// NewPublisher creates a result publisher.
// If client is nil, publishing is disabled (for testing).
func NewPublisher(client mqtt.Client) *Publisher {
	prefix := os.Getenv("MQTT_PUBLISH_PREFIX")
	if prefix == "" {
		prefix = "wavescout"
	}

	return &Publisher{
		client:        client,
		publishPrefix: prefix,
		qos:           1, // analysis results matter more than position ticks
		retain:        true,
	}
}

// PublishResult publishes the full analysis to <prefix>/analysis and the
// health score separately to <prefix>/health for lightweight consumers.
func (p *Publisher) PublishResult(result *AnalysisResult) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}
	if result == nil {
		return fmt.Errorf("nil analysis result")
	}

	envelope := publishedResult{
		GeneratedAt: time.Now().Unix(),
		Result:      result,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshaling analysis result: %w", err)
	}

	topic := p.publishPrefix + "/analysis"
	if token := p.client.Publish(topic, p.qos, p.retain, payload); token.Wait() && token.Error() != nil {
		log.Printf("Error publishing analysis to %s: %v", topic, token.Error())
		return token.Error()
	}

	healthPayload, err := json.Marshal(result.Health)
	if err != nil {
		return fmt.Errorf("marshaling health score: %w", err)
	}

	healthTopic := p.publishPrefix + "/health"
	if token := p.client.Publish(healthTopic, p.qos, p.retain, healthPayload); token.Wait() && token.Error() != nil {
		log.Printf("Error publishing health to %s: %v", healthTopic, token.Error())
		return token.Error()
	}

	return nil
}

// PublishWalkStatus publishes per-device walk progress to
// <prefix>/walk/status, unretained since it is transient.
func (p *Publisher) PublishWalkStatus(statuses []WalkStatus) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	payload, err := json.Marshal(statuses)
	if err != nil {
		return fmt.Errorf("marshaling walk status: %w", err)
	}

	topic := p.publishPrefix + "/walk/status"
	if token := p.client.Publish(topic, 0, false, payload); token.Wait() && token.Error() != nil {
		log.Printf("Error publishing walk status to %s: %v", topic, token.Error())
		return token.Error()
	}
	return nil
}
