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

package event

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	EventQueueSize = 100
	AsyncQueueSize = 1000
)

type EventType string

type EventSubscriberId int

type EventHandlerFunc func(Event)

type Event struct {
	Timestamp time.Time
	Data      any
	Type      EventType
}

func NewEvent(eventType EventType, eventData any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      eventData,
	}
}

type asyncEvent struct {
	eventType EventType
	event     Event
}

// EventBus fans events out to subscribers. Events queued with PublishAsync
// are delivered by a single dispatcher, so subscribers see them in the
// order they were queued
type EventBus struct {
	subscribers map[EventType]map[EventSubscriberId]Subscriber
	metrics     *eventMetrics
	logger      *slog.Logger
	asyncQueue  chan asyncEvent
	doneCh      chan struct{}
	lastSubId   EventSubscriberId
	mu          sync.RWMutex
	stopMu      sync.RWMutex
	stopped     bool
}

// NewEventBus creates a new EventBus and starts its dispatcher
func NewEventBus(
	promRegistry prometheus.Registerer,
	logger *slog.Logger,
) *EventBus {
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	e := &EventBus{
		subscribers: make(map[EventType]map[EventSubscriberId]Subscriber),
		logger:      logger,
		asyncQueue:  make(chan asyncEvent, AsyncQueueSize),
		doneCh:      make(chan struct{}),
	}
	if promRegistry != nil {
		e.initMetrics(promRegistry)
	}
	go e.dispatch()
	return e
}

func (e *EventBus) dispatch() {
	defer close(e.doneCh)
	for ae := range e.asyncQueue {
		e.Publish(ae.eventType, ae.event)
	}
}

// Subscriber is a delivery target for events. The EventBus uses it for both
// in-memory channels and external sinks.
// Implementations must ensure Close() is idempotent.
type Subscriber interface {
	Deliver(Event) error
	Close()
}

// channelSubscriber delivers events on a buffered channel. Events that do
// not fit in the buffer are dropped so a slow reader never stalls the bus
type channelSubscriber struct {
	ch      chan Event
	onDrop  func(Event)
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

func newChannelSubscriber(buffer int, onDrop func(Event)) *channelSubscriber {
	return &channelSubscriber{
		ch:     make(chan Event, buffer),
		onDrop: onDrop,
	}
}

func (c *channelSubscriber) Deliver(evt Event) error {
	// Hold the read lock across the send so Close cannot close the channel
	// underneath us
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil
	}
	select {
	case c.ch <- evt:
	default:
		c.dropped.Add(1)
		if c.onDrop != nil {
			c.onDrop(evt)
		}
	}
	return nil
}

func (c *channelSubscriber) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}

func (e *EventBus) addSubscriber(
	eventType EventType,
	sub Subscriber,
	kind string,
) EventSubscriberId {
	e.mu.Lock()
	defer e.mu.Unlock()
	subId := e.lastSubId + 1
	e.lastSubId = subId
	if _, ok := e.subscribers[eventType]; !ok {
		e.subscribers[eventType] = make(map[EventSubscriberId]Subscriber)
	}
	e.subscribers[eventType][subId] = sub
	if e.metrics != nil {
		e.metrics.subscribers.WithLabelValues(string(eventType), kind).Inc()
	}
	return subId
}

// Subscribe allows a consumer to receive events of a particular type via a channel
func (e *EventBus) Subscribe(
	eventType EventType,
) (EventSubscriberId, <-chan Event) {
	chSub := newChannelSubscriber(
		EventQueueSize,
		func(evt Event) {
			e.logger.Warn(
				"subscriber queue full, dropping event",
				"component", "event",
				"type", evt.Type,
			)
			if e.metrics != nil {
				e.metrics.deliveryErrors.WithLabelValues(string(evt.Type), "dropped").
					Inc()
			}
		},
	)
	subId := e.addSubscriber(eventType, chSub, subscriberKind(chSub))
	return subId, chSub.ch
}

// SubscribeFunc allows a consumer to receive events of a particular type via a callback function
func (e *EventBus) SubscribeFunc(
	eventType EventType,
	handlerFunc EventHandlerFunc,
) EventSubscriberId {
	subId, evtCh := e.Subscribe(eventType)
	go func() {
		for evt := range evtCh {
			handlerFunc(evt)
		}
	}()
	return subId
}

// RegisterSubscriber allows external sinks to receive events of a
// particular type. It returns the assigned subscriber id
func (e *EventBus) RegisterSubscriber(
	eventType EventType,
	sub Subscriber,
) EventSubscriberId {
	return e.addSubscriber(eventType, sub, subscriberKind(sub))
}

// Unsubscribe stops delivery of events for a particular type for an existing subscriber
func (e *EventBus) Unsubscribe(eventType EventType, subId EventSubscriberId) {
	e.mu.Lock()
	var subToClose Subscriber
	if evtTypeSubs, ok := e.subscribers[eventType]; ok {
		if sub, ok2 := evtTypeSubs[subId]; ok2 {
			subToClose = sub
			delete(evtTypeSubs, subId)
			if len(evtTypeSubs) == 0 {
				delete(e.subscribers, eventType)
			}
			if e.metrics != nil {
				e.metrics.subscribers.WithLabelValues(string(eventType), subscriberKind(sub)).
					Dec()
			}
		}
	}
	e.mu.Unlock()

	if subToClose != nil {
		subToClose.Close()
	}
}

// Publish delivers an event to all current subscribers of its type before
// returning. A subscriber whose delivery fails is unregistered
func (e *EventBus) Publish(eventType EventType, evt Event) {
	e.mu.RLock()
	subs := e.subscribers[eventType]
	subIds := make([]EventSubscriberId, 0, len(subs))
	subList := make([]Subscriber, 0, len(subs))
	for id, sub := range subs {
		subIds = append(subIds, id)
		subList = append(subList, sub)
	}
	e.mu.RUnlock()
	for idx, sub := range subList {
		if err := safeDeliver(sub, evt); err != nil {
			e.Unsubscribe(eventType, subIds[idx])
			if e.metrics != nil {
				e.metrics.deliveryErrors.WithLabelValues(string(eventType), subscriberKind(sub)).
					Inc()
			}
			e.logger.Warn(
				"event delivery failed, removing subscriber",
				"component", "event",
				"type", eventType,
				"error", err,
			)
		}
	}
	if e.metrics != nil {
		e.metrics.eventsTotal.WithLabelValues(string(eventType)).Inc()
	}
}

func safeDeliver(sub Subscriber, evt Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber deliver panic: %v", r)
		}
	}()
	return sub.Deliver(evt)
}

// PublishAsync queues an event for delivery and returns immediately.
// Returns false if the EventBus is stopped or the queue is full
func (e *EventBus) PublishAsync(eventType EventType, evt Event) bool {
	e.stopMu.RLock()
	defer e.stopMu.RUnlock()
	if e.stopped {
		return false
	}
	select {
	case e.asyncQueue <- asyncEvent{eventType: eventType, event: evt}:
		return true
	default:
		e.logger.Warn(
			"async event queue full, dropping event",
			"component", "event",
			"type", eventType,
		)
		if e.metrics != nil {
			e.metrics.deliveryErrors.WithLabelValues(string(eventType), "async-dropped").
				Inc()
		}
		return false
	}
}

// Stop delivers the events already queued, then closes all subscribers.
// Later publishes are rejected. Stop may be called more than once
func (e *EventBus) Stop() {
	e.stopMu.Lock()
	if e.stopped {
		e.stopMu.Unlock()
		return
	}
	e.stopped = true
	close(e.asyncQueue)
	e.stopMu.Unlock()

	<-e.doneCh

	e.mu.Lock()
	subsCopy := e.subscribers
	e.subscribers = make(map[EventType]map[EventSubscriberId]Subscriber)
	e.mu.Unlock()
	for _, evtTypeSubs := range subsCopy {
		for _, sub := range evtTypeSubs {
			sub.Close()
		}
	}
	if e.metrics != nil {
		e.metrics.subscribers.Reset()
	}
}

func subscriberKind(sub Subscriber) string {
	if _, ok := sub.(*channelSubscriber); ok {
		return "in-memory"
	}
	return "remote"
}
