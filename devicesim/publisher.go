package devicesim

import (
	"context"
	"fmt"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const (
	connectTimeout  = 10 * time.Second
	disconnectQuiet = 250 // ms
)

// Config ...
type Config struct {
	BrokerURL string
	Username  string
	Password  string
}

// Publisher delivers publications to the broker.
type Publisher interface {
	Publish(ctx context.Context, pub Publication) error
}

type mqttPublisher struct {
	logger    log.Logger
	config    Config
	newClient func(*mqtt.ClientOptions) mqtt.Client
}

// NewPublisher connects a fresh client for every publication, like the devices it stands in for.
func NewPublisher(logger log.Logger, config Config) Publisher {
	return newPublisher(logger, config, mqtt.NewClient)
}

func newPublisher(logger log.Logger, config Config, newClient func(*mqtt.ClientOptions) mqtt.Client) Publisher {
	return &mqttPublisher{
		logger:    logger,
		config:    config,
		newClient: newClient,
	}
}

func (p *mqttPublisher) Publish(ctx context.Context, pub Publication) error {
	clientID := pub.ClientIDPrefix + uuid.NewString()

	opts := mqtt.NewClientOptions().
		AddBroker(p.config.BrokerURL).
		SetClientID(clientID).
		SetUsername(p.config.Username).
		SetPassword(p.config.Password).
		SetCleanSession(true).
		SetConnectTimeout(connectTimeout)

	client := p.newClient(opts)

	p.logger.Debugf("Connecting %s to %s", clientID, p.config.BrokerURL)
	if err := wait(ctx, client.Connect()); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", p.config.BrokerURL, err)
	}
	defer client.Disconnect(disconnectQuiet)

	if err := wait(ctx, client.Publish(pub.Topic, pub.QoS, pub.Retained, pub.Payload)); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", pub.Topic, err)
	}
	p.logger.Donef("Published %d byte(s) to %s", len(pub.Payload), pub.Topic)

	return nil
}

func wait(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
