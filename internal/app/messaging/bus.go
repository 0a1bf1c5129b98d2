// Package messaging connects the three logical peers (popup UI, page
// contexts, and the background coordinator) with typed asynchronous
// request/response calls and fire-and-forget broadcasts. A peer may be
// absent at any time; sends to a missing peer fail fast with
// ErrNoReceiver instead of hanging.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bnema/retint/internal/logging"
)

// ErrNoReceiver is returned when the addressed peer has no handler
// registered for the method, typically because the page-context script
// is not injected yet or the popup is closed.
var ErrNoReceiver = errors.New("receiving end does not exist")

// PeerID addresses one logical peer.
type PeerID string

const (
	// PeerUI is the popup/panel process.
	PeerUI PeerID = "ui"
	// PeerBackground is the background coordinator.
	PeerBackground PeerID = "background"
)

// PagePeer addresses the page-context peer of one tab.
func PagePeer(tabID string) PeerID {
	return PeerID("page:" + tabID)
}

// Method names one operation of the closed protocol (see protocol.go).
type Method string

// HandlerFunc processes one request. A returned error is propagated to
// the caller carrying the handler's message.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// Bus routes calls between peers. Handlers for different peers run
// independently; per-call response channels keep concurrent in-flight
// requests paired with their own responses.
type Bus struct {
	mu       sync.RWMutex
	handlers map[PeerID]map[Method]HandlerFunc
	subs     map[Method]map[int]func(json.RawMessage)
	nextSub  int
	seq      atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[PeerID]map[Method]HandlerFunc),
		subs:     make(map[Method]map[int]func(json.RawMessage)),
	}
}

// Handle registers a request handler for one peer and method,
// replacing any previous registration.
func (b *Bus) Handle(peer PeerID, method Method, fn HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers[peer] == nil {
		b.handlers[peer] = make(map[Method]HandlerFunc)
	}
	b.handlers[peer][method] = fn
}

// Unregister removes every handler of a peer, simulating the peer
// going away (popup closed, page unloaded).
func (b *Bus) Unregister(peer PeerID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, peer)
}

// HasPeer reports whether the peer has any handler registered.
func (b *Bus) HasPeer(peer PeerID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[peer]) > 0
}

// Send delivers a request to one peer and waits for its response. The
// handler runs on its own goroutine; ctx bounds the wait. An absent
// peer fails immediately with ErrNoReceiver.
func (b *Bus) Send(ctx context.Context, peer PeerID, method Method, payload any) (json.RawMessage, error) {
	fn := b.lookup(peer, method)
	if fn == nil {
		return nil, fmt.Errorf("send %s to %s: %w", method, peer, ErrNoReceiver)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", method, err)
	}

	callID := b.seq.Add(1)
	logging.FromContext(ctx).Trace().
		Uint64("call_id", callID).
		Str("peer", string(peer)).
		Str("method", string(method)).
		Msg("dispatching request")

	type result struct {
		response json.RawMessage
		err      error
	}
	done := make(chan result, 1)

	go func() {
		resp, err := fn(ctx, raw)
		if err != nil {
			done <- result{err: err}
			return
		}
		encoded, err := json.Marshal(resp)
		if err != nil {
			done <- result{err: fmt.Errorf("marshal %s response: %w", method, err)}
			return
		}
		done <- result{response: encoded}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("%s: %w", method, r.err)
		}
		return r.response, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("send %s to %s: %w", method, peer, ctx.Err())
	}
}

// Subscribe registers a broadcast listener for one method and returns
// an unsubscribe func.
func (b *Bus) Subscribe(method Method, fn func(json.RawMessage)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[method] == nil {
		b.subs[method] = make(map[int]func(json.RawMessage))
	}
	id := b.nextSub
	b.nextSub++
	b.subs[method][id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[method], id)
	}
}

// Broadcast delivers an event to every subscriber of the method. No
// response is expected; subscribers with nobody listening is not an
// error.
func (b *Bus) Broadcast(ctx context.Context, method Method, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("method", string(method)).Msg("broadcast payload marshal failed")
		return
	}

	b.mu.RLock()
	fns := make([]func(json.RawMessage), 0, len(b.subs[method]))
	for _, fn := range b.subs[method] {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(raw)
	}
}

func (b *Bus) lookup(peer PeerID, method Method) HandlerFunc {
	b.mu.RLock()
	defer b.mu.RUnlock()
	m := b.handlers[peer]
	if m == nil {
		return nil
	}
	return m[method]
}

// Call sends a typed request and decodes the typed response.
func Call[Req, Resp any](ctx context.Context, bus *Bus, peer PeerID, method Method, req Req) (Resp, error) {
	var resp Resp
	raw, err := bus.Send(ctx, peer, method, req)
	if err != nil {
		return resp, err
	}
	if len(raw) == 0 {
		return resp, nil
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return resp, fmt.Errorf("decode %s response: %w", method, err)
	}
	return resp, nil
}

// HandlerFor adapts a typed handler to the bus's raw signature.
func HandlerFor[Req, Resp any](fn func(ctx context.Context, req Req) (Resp, error)) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req Req
		if len(payload) > 0 && string(payload) != "null" {
			if err := json.Unmarshal(payload, &req); err != nil {
				return nil, fmt.Errorf("decode request: %w", err)
			}
		}
		return fn(ctx, req)
	}
}
