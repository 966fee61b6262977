package survey

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// SampleHandler is called for each calibration sample received over MQTT.
// Parameters: device id, the decoded sample, and any decode error.
type SampleHandler func(device string, sample CalibrationPoint, err error)

// WalkCompleteHandler is called when a device signals the end of its walk.
type WalkCompleteHandler func(device string)

// MQTTClient manages the MQTT connection to acquisition devices. Devices
// publish samples to <prefix>/<device>/sample during a walk and an empty
// message to <prefix>/<device>/walk/complete when done.
type MQTTClient struct {
	client          mqtt.Client
	config          *Config
	sampleHandler   SampleHandler
	completeHandler WalkCompleteHandler
	isConnected     bool
	mu              sync.RWMutex
}

var (
	globalClient *MQTTClient
	clientMu     sync.Mutex
)

// InitMQTT initializes the global MQTT client with the provided
// configuration. If neither the MQTT_BROKER env var nor the config specify a
// broker, MQTT is disabled and this returns nil.
func InitMQTT(config *Config, onSample SampleHandler, onComplete WalkCompleteHandler) (*MQTTClient, error) {
	clientMu.Lock()
	defer clientMu.Unlock()

	broker := os.Getenv("MQTT_BROKER")
	if broker == "" && config != nil && config.MQTT.Broker != "" {
		broker = config.MQTT.Broker
	}

	if broker == "" {
		log.Println("MQTT disabled: MQTT_BROKER not set")
		return nil, nil
	}

	if config == nil {
		return nil, fmt.Errorf("MQTT enabled but no configuration provided")
	}

	client := &MQTTClient{
		config:          config,
		sampleHandler:   onSample,
		completeHandler: onComplete,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)

	clientID := os.Getenv("MQTT_CLIENT_ID")
	if clientID == "" && config.MQTT.ClientID != "" {
		clientID = config.MQTT.ClientID
	}
	if clientID == "" {
		clientID = "wavescout"
	}
	opts.SetClientID(clientID)

	username := os.Getenv("MQTT_USERNAME")
	if username == "" && config.MQTT.Username != "" {
		username = config.MQTT.Username
	}
	if username != "" {
		opts.SetUsername(username)
		password := os.Getenv("MQTT_PASSWORD")
		if password == "" && config.MQTT.Password != "" {
			password = config.MQTT.Password
		}
		opts.SetPassword(password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(false) // preserve subscriptions on reconnect
	opts.SetOrderMatters(true)  // samples must stay in walk order

	opts.SetOnConnectHandler(client.onConnect)
	opts.SetConnectionLostHandler(client.onConnectionLost)
	opts.SetReconnectingHandler(client.onReconnecting)

	client.client = mqtt.NewClient(opts)

	go client.connectWithRetry()

	globalClient = client
	return client, nil
}

// GetMQTTClient returns the global MQTT client instance.
func GetMQTTClient() *MQTTClient {
	clientMu.Lock()
	defer clientMu.Unlock()
	return globalClient
}

func (c *MQTTClient) connectWithRetry() {
	token := c.client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		log.Printf("[MQTT] Initial connect failed (auto-retry active): %v", err)
	}
}

func (c *MQTTClient) onConnect(client mqtt.Client) {
	log.Println("[MQTT] Connected")
	c.mu.Lock()
	c.isConnected = true
	c.mu.Unlock()

	prefix := c.topicPrefix()

	sampleTopic := prefix + "/+/sample"
	if token := client.Subscribe(sampleTopic, 1, c.handleSampleMessage); token.Wait() && token.Error() != nil {
		log.Printf("[MQTT] Subscribe %s failed: %v", sampleTopic, token.Error())
	} else {
		log.Printf("[MQTT] Subscribed to %s", sampleTopic)
	}

	completeTopic := prefix + "/+/walk/complete"
	if token := client.Subscribe(completeTopic, 1, c.handleCompleteMessage); token.Wait() && token.Error() != nil {
		log.Printf("[MQTT] Subscribe %s failed: %v", completeTopic, token.Error())
	} else {
		log.Printf("[MQTT] Subscribed to %s", completeTopic)
	}
}

func (c *MQTTClient) onConnectionLost(client mqtt.Client, err error) {
	log.Printf("[MQTT] Connection lost: %v", err)
	c.mu.Lock()
	c.isConnected = false
	c.mu.Unlock()
}

func (c *MQTTClient) onReconnecting(client mqtt.Client, opts *mqtt.ClientOptions) {
	log.Println("[MQTT] Reconnecting...")
}

// topicPrefix returns the subscribe/publish prefix, defaulting to the
// module name.
func (c *MQTTClient) topicPrefix() string {
	prefix := os.Getenv("MQTT_SUBSCRIBE_PREFIX")
	if prefix == "" && c.config.MQTT.PublishPrefix != "" {
		prefix = c.config.MQTT.PublishPrefix
	}
	if prefix == "" {
		prefix = "wavescout"
	}
	return strings.TrimSuffix(prefix, "/")
}

// deviceFromTopic extracts the device segment from <prefix>/<device>/...
func deviceFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func (c *MQTTClient) handleSampleMessage(client mqtt.Client, msg mqtt.Message) {
	device := deviceFromTopic(msg.Topic())
	if device == "" {
		log.Printf("[MQTT] Ignoring sample on malformed topic %q", msg.Topic())
		return
	}

	var sample CalibrationPoint
	err := json.Unmarshal(msg.Payload(), &sample)
	if err != nil {
		err = fmt.Errorf("decoding sample payload: %w", err)
	}

	if c.sampleHandler != nil {
		c.sampleHandler(device, sample, err)
	}
}

func (c *MQTTClient) handleCompleteMessage(client mqtt.Client, msg mqtt.Message) {
	device := deviceFromTopic(msg.Topic())
	if device == "" {
		log.Printf("[MQTT] Ignoring completion on malformed topic %q", msg.Topic())
		return
	}
	log.Printf("[MQTT] Walk complete from %s", device)

	if c.completeHandler != nil {
		c.completeHandler(device)
	}
}

// IsConnected reports whether the client currently holds a connection.
func (c *MQTTClient) IsConnected() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

// Client exposes the underlying paho client for the publisher.
func (c *MQTTClient) Client() mqtt.Client {
	if c == nil {
		return nil
	}
	return c.client
}

// Disconnect cleanly shuts down the MQTT connection.
func (c *MQTTClient) Disconnect() {
	if c == nil || c.client == nil {
		return
	}
	c.client.Disconnect(250)
	c.mu.Lock()
	c.isConnected = false
	c.mu.Unlock()
}
