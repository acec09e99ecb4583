package devicesim

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenPublication_WhenPublished_ThenConnectsPublishesAndDisconnects(t *testing.T) {
	// Given
	client := &fakeClient{connectToken: doneToken{}, publishToken: doneToken{}}
	var opts *mqtt.ClientOptions
	publisher := newPublisher(log.NewLogger(), Config{BrokerURL: "tcp://broker.test:1883", Username: "sim", Password: "secret"}, func(o *mqtt.ClientOptions) mqtt.Client {
		opts = o
		return client
	})
	pub, err := DeviceState("PCT-01", "online")
	require.NoError(t, err)

	// When
	err = publisher.Publish(context.Background(), pub)

	// Then
	require.NoError(t, err)
	require.NotNil(t, opts)
	assert.True(t, strings.HasPrefix(opts.ClientID, PCTClientIDPrefix))
	assert.Greater(t, len(opts.ClientID), len(PCTClientIDPrefix))
	assert.Equal(t, "sim", opts.Username)
	assert.Equal(t, "secret", opts.Password)
	assert.True(t, opts.CleanSession)
	require.Len(t, opts.Servers, 1)
	assert.Equal(t, "broker.test:1883", opts.Servers[0].Host)

	assert.Equal(t, []fakePublish{{topic: "d/PCT-01/status", qos: 0, retained: true, payload: pub.Payload}}, client.published)
	assert.True(t, client.disconnected)
}

func Test_GivenUnreachableBroker_WhenPublished_ThenFailsWithoutPublishing(t *testing.T) {
	// Given
	client := &fakeClient{connectToken: doneToken{err: errors.New("connection refused")}}
	publisher := newPublisher(log.NewLogger(), Config{BrokerURL: "tcp://broker.test:1883"}, func(*mqtt.ClientOptions) mqtt.Client {
		return client
	})

	// When
	err := publisher.Publish(context.Background(), OperatorState(time.Now(), 1, 1, "PCT-01"))

	// Then
	require.ErrorContains(t, err, "connection refused")
	assert.Empty(t, client.published)
	assert.False(t, client.disconnected)
}

func Test_GivenCanceledContext_WhenPublishIsPending_ThenStopsWaiting(t *testing.T) {
	// Given
	ctx, cancel := context.WithCancel(context.Background())
	client := &fakeClient{connectToken: doneToken{}, publishToken: pendingToken{}, onPublish: cancel}
	publisher := newPublisher(log.NewLogger(), Config{BrokerURL: "tcp://broker.test:1883"}, func(*mqtt.ClientOptions) mqtt.Client {
		return client
	})

	// When
	err := publisher.Publish(ctx, OperatorState(time.Now(), 1, 1, "PCT-01"))

	// Then
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, client.disconnected)
}

// Helpers

type fakePublish struct {
	topic    string
	qos      byte
	retained bool
	payload  interface{}
}

type fakeClient struct {
	connectToken mqtt.Token
	publishToken mqtt.Token
	onPublish    func()

	published    []fakePublish
	disconnected bool
}

func (c *fakeClient) IsConnected() bool      { return true }
func (c *fakeClient) IsConnectionOpen() bool { return true }
func (c *fakeClient) Connect() mqtt.Token    { return c.connectToken }
func (c *fakeClient) Disconnect(uint)        { c.disconnected = true }

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.published = append(c.published, fakePublish{topic: topic, qos: qos, retained: retained, payload: payload})
	if c.onPublish != nil {
		c.onPublish()
	}
	return c.publishToken
}

func (c *fakeClient) Subscribe(string, byte, mqtt.MessageHandler) mqtt.Token {
	return doneToken{}
}

func (c *fakeClient) SubscribeMultiple(map[string]byte, mqtt.MessageHandler) mqtt.Token {
	return doneToken{}
}

func (c *fakeClient) Unsubscribe(...string) mqtt.Token { return doneToken{} }

func (c *fakeClient) AddRoute(string, mqtt.MessageHandler) {}

func (c *fakeClient) OptionsReader() mqtt.ClientOptionsReader { return mqtt.ClientOptionsReader{} }

type doneToken struct {
	err error
}

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }

func (t doneToken) Done() <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}

type pendingToken struct{}

func (pendingToken) Wait() bool                     { return false }
func (pendingToken) WaitTimeout(time.Duration) bool { return false }
func (pendingToken) Done() <-chan struct{}          { return nil }
func (pendingToken) Error() error                   { return nil }
