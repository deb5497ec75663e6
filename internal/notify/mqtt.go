// Package notify wraps the MQTT client used for the module control plane.
package notify

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher is what the toggle path needs from the broker connection.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// Client is a long-lived broker connection shared across requests.
type Client struct {
	client mqtt.Client
}

func Connect(broker, clientID string) (*Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &Client{client: client}, nil
}

// Publish waits for the local client call to complete, not for subscriber
// delivery.
func (c *Client) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := c.client.Publish(topic, qos, retained, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, token.Error())
	}
	return nil
}

func (c *Client) Disconnect() {
	c.client.Disconnect(250)
}

func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}
