// Package runtime handles event propagation and connection bookkeeping.
// It orchestrates the system without containing business logic or domain rules.
package runtime

import (
	"chat-core/contract"
	"chat-core/domain"
	"sync"
)

type Set map[contract.ConnID]struct{}

// Registry is the process-local arena mapping live connections to the
// channels they are subscribed to. It is rebuilt from the durable roster on
// every connect and is never persisted: any gateway instance can reconstruct
// it independently, which is what keeps multiple instances correct. It must
// never be treated as a second source of truth for membership.
type Registry struct {
	mu              sync.RWMutex
	Sessions        map[contract.ConnID]contract.EventSink // connection -> delivery sink
	ChannelMembers  map[domain.Channel]Set                 // channel -> connections
	connectionChans map[contract.ConnID]map[domain.Channel]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		Sessions:        make(map[contract.ConnID]contract.EventSink),
		ChannelMembers:  make(map[domain.Channel]Set),
		connectionChans: make(map[contract.ConnID]map[domain.Channel]struct{}),
	}
}

// Register records a connection's delivery sink. Subscriptions are added
// separately, one channel at a time, as the gateway walks the roster.
func (r *Registry) Register(connID contract.ConnID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sessions[connID] = sink
}

// Subscribe adds the connection to a channel. The subscription set of a
// connection is fixed at connect time by the gateway; nothing resubscribes a
// live connection except its own create-conversation command.
func (r *Registry) Subscribe(connID contract.ConnID, channel domain.Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ChannelMembers[channel]; !ok {
		r.ChannelMembers[channel] = make(Set)
	}
	r.ChannelMembers[channel][connID] = struct{}{}

	if _, ok := r.connectionChans[connID]; !ok {
		r.connectionChans[connID] = make(map[domain.Channel]struct{})
	}
	r.connectionChans[connID][channel] = struct{}{}
}

// Drop removes a connection from every channel it held and forgets its sink.
// Empty channel sets are removed entirely so the arena cannot leak over time.
func (r *Registry) Drop(connID contract.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Sessions, connID)

	for channel := range r.connectionChans[connID] {
		if members, ok := r.ChannelMembers[channel]; ok {
			delete(members, connID)
			if len(members) == 0 {
				delete(r.ChannelMembers, channel)
			}
		}
	}
	delete(r.connectionChans, connID)
}

// SinksForChannel resolves the delivery sinks of every connection currently
// subscribed to a channel. Returns nil for an unknown or empty channel.
func (r *Registry) SinksForChannel(channel domain.Channel) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.ChannelMembers[channel]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for connID := range members {
		if sink, exists := r.Sessions[connID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}
