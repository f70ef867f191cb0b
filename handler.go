// Copyright 2026 The reqwire Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqwire

// A Handler handles the occurrence of an event during a call.
type Handler interface {
	Handle(Event, *Attempt)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers.
type HandlerFunc func(Event, *Attempt)

// Handle calls f(evt, a).
func (f HandlerFunc) Handle(evt Event, a *Attempt) {
	f(evt, a)
}

// A HandlerGroup is a group of event handler chains which can be
// installed in an Engine.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds an event handler to the back of the handler chain for
// a specific event type.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("reqwire: nil handler")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

func (g *HandlerGroup) run(evt Event, a *Attempt) {
	i := int(evt)
	if i < len(g.handlers) {
		for _, h := range g.handlers[i] {
			h.Handle(evt, a)
		}
	}
}
