// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package viewport

import (
	"relaychart/chartval"

	"github.com/rs/zerolog"
)

// Listener receives the complete state after every committed change.
type Listener func(s State)

type listenerEntry struct {
	id int
	l  Listener
}

// Group is the viewport shared by all panes of a chart group.
// It is not safe for concurrent use, all calls happen on the UI goroutine.
type Group struct {
	model     *Model
	listeners []listenerEntry
	nextId    int
	log       zerolog.Logger
}

func NewGroup(axis chartval.TimeAxis, n int, log zerolog.Logger) *Group {
	return &Group{
		model: NewModel(axis, n),
		log:   log,
	}
}

func (g *Group) State() State {
	return g.model.State()
}

// Window returns the visible range for a series with n samples.
func (g *Group) Window(n int) Window {
	return g.model.State().Window(n)
}

// Model exposes the owned model for read access.
func (g *Group) Model() *Model {
	return g.model
}

// Subscribe registers a listener and returns a function which removes it again.
func (g *Group) Subscribe(l Listener) func() {
	id := g.nextId
	g.nextId++
	g.listeners = append(g.listeners, listenerEntry{id: id, l: l})
	return func() {
		for i := range g.listeners {
			if g.listeners[i].id == id {
				g.listeners = append(g.listeners[:i], g.listeners[i+1:]...)
				return
			}
		}
	}
}

// Apply commits an intent. Listeners are notified once if the state changed.
func (g *Group) Apply(intent Intent) bool {
	if !intent.Apply(g.model) {
		g.log.Debug().Stringer("intent", intent).Msg("viewport unchanged")
		return false
	}
	s := g.model.State()
	g.log.Debug().Stringer("intent", intent).Float64("zoom", s.ZoomFraction).Float64("offset", s.OffsetFraction).Msg("viewport committed")
	g.notify(s)
	return true
}

func (g *Group) Reset() bool {
	return g.Apply(ResetIntent{})
}

// SetAxis replaces the data of the group. Listeners are notified if the visible
// indices changed with the data. Returns true in that case.
func (g *Group) SetAxis(axis chartval.TimeAxis, n int) bool {
	before := g.model.Window()
	g.model.SetAxis(axis, n)
	if g.model.Window() == before {
		return false
	}
	g.notify(g.model.State())
	return true
}

func (g *Group) notify(s State) {
	for _, e := range g.listeners {
		e.l(s)
	}
}
