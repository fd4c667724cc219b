// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package amqpsink_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/blinklabs-io/laurel/event"
	"github.com/blinklabs-io/laurel/event/amqpsink"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	mu          sync.Mutex
	declared    []string
	kinds       []string
	published   []published
	publishErr  error
	declareErr  error
	closeCalled int
}

func (f *fakeChannel) ExchangeDeclare(
	name, kind string,
	durable, autoDelete, internal, noWait bool,
	args amqp.Table,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.declared = append(f.declared, name)
	f.kinds = append(f.kinds, kind)
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(
	ctx context.Context,
	exchange, key string,
	mandatory, immediate bool,
	msg amqp.Publishing,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCalled++
	return nil
}

func (f *fakeChannel) messages() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.published...)
}

func TestNewDeclaresTopicExchange(t *testing.T) {
	ch := &fakeChannel{}
	_, err := amqpsink.NewWithChannel(ch, amqpsink.Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{amqpsink.DefaultExchange}, ch.declared)
	assert.Equal(t, []string{"topic"}, ch.kinds)

	ch = &fakeChannel{declareErr: assert.AnError}
	_, err = amqpsink.NewWithChannel(ch, amqpsink.Config{Exchange: "badges"})
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "badges")
}

func TestNewRequiresUrl(t *testing.T) {
	_, err := amqpsink.New(amqpsink.Config{})
	require.Error(t, err)
}

func TestDeliverPublishesJson(t *testing.T) {
	ch := &fakeChannel{}
	sink, err := amqpsink.NewWithChannel(ch, amqpsink.Config{Exchange: "badges"})
	require.NoError(t, err)
	evt := event.NewEvent(
		event.BadgeClaimedEventType,
		event.BadgeClaimedEvent{
			EventName: "conf2024",
			AccountId: "alice",
			TokenId:   "0",
			IssuedAt:  "1700000000000000000",
		},
	)
	require.NoError(t, sink.Deliver(evt))
	msgs := ch.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "badges", msgs[0].exchange)
	assert.Equal(t, "contract.badge_claimed", msgs[0].key)
	assert.Equal(t, "application/json", msgs[0].msg.ContentType)
	assert.Equal(t, amqp.Persistent, msgs[0].msg.DeliveryMode)

	var body struct {
		Type string                  `json:"type"`
		Data event.BadgeClaimedEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msgs[0].msg.Body, &body))
	assert.Equal(t, "contract.badge_claimed", body.Type)
	assert.Equal(t, "alice", body.Data.AccountId)
	assert.Equal(t, "0", body.Data.TokenId)
}

func TestPublishFailureKeepsSubscription(t *testing.T) {
	ch := &fakeChannel{publishErr: assert.AnError}
	sink, err := amqpsink.NewWithChannel(ch, amqpsink.Config{})
	require.NoError(t, err)
	assert.NoError(t, sink.Deliver(event.NewEvent(event.EventCreatedEventType, nil)))
	assert.Empty(t, ch.messages())
}

func TestAttachReceivesBusEvents(t *testing.T) {
	ch := &fakeChannel{}
	sink, err := amqpsink.NewWithChannel(ch, amqpsink.Config{})
	require.NoError(t, err)
	bus := event.NewEventBus(nil, nil)
	sink.Attach(bus)
	for _, evtType := range event.ContractEventTypes {
		require.True(t, bus.PublishAsync(evtType, event.NewEvent(evtType, map[string]string{"k": "v"})))
	}
	// Stop drains the queue and closes the sink
	bus.Stop()
	msgs := ch.messages()
	require.Len(t, msgs, len(event.ContractEventTypes))
	for i, evtType := range event.ContractEventTypes {
		assert.Equal(t, string(evtType), msgs[i].key)
	}
	assert.Equal(t, 1, ch.closeCalled)
	// Delivery after close is ignored
	require.NoError(t, sink.Deliver(event.NewEvent(event.EventDeletedEventType, nil)))
	assert.Len(t, ch.messages(), len(event.ContractEventTypes))
}

func TestDeliverTimestamp(t *testing.T) {
	ch := &fakeChannel{}
	sink, err := amqpsink.NewWithChannel(ch, amqpsink.Config{PublishTimeout: time.Second})
	require.NoError(t, err)
	evt := event.NewEvent(event.ContractInitializedEventType, event.ContractInitializedEvent{Owner: "o"})
	require.NoError(t, sink.Deliver(evt))
	assert.True(t, evt.Timestamp.Equal(ch.messages()[0].msg.Timestamp))
	sink.Close()
	sink.Close()
	assert.Equal(t, 1, ch.closeCalled)
}
