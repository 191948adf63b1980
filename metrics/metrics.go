/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package metrics exposes optional prometheus instrumentation for the
// connection lifecycle: state transitions, readiness events dispatched,
// EAGAIN/EWOULDBLOCK occurrences, and handshake duration. No transport
// depends on this package; a host application wires it in by calling
// Collector.Register with a prometheus.Registerer of its own choosing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nabbar/go-connio/conn"
)

const namespace = "connio"

// Collector bundles the prometheus instruments this module emits. A nil
// *Collector is safe to use: every method becomes a no-op, so a host
// application that has not opted into metrics never pays for them.
type Collector struct {
	connectionsByState *prometheus.GaugeVec
	eventsDispatched   *prometheus.CounterVec
	wouldBlockTotal    *prometheus.CounterVec
	handshakeDuration  *prometheus.HistogramVec
}

// New builds a Collector with all instruments created but not yet
// registered. Call Register to attach it to a prometheus.Registerer.
func New() *Collector {
	return &Collector{
		connectionsByState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_by_state",
			Help:      "Number of tracked connections currently in each lifecycle state.",
		}, []string{"state"}),

		eventsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readiness_events_dispatched_total",
			Help:      "Readiness events dispatched to a read or write handler.",
		}, []string{"transport", "direction"}),

		wouldBlockTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "would_block_total",
			Help:      "EAGAIN/EWOULDBLOCK (or TLS WANT_READ/WANT_WRITE) occurrences on I/O calls.",
		}, []string{"transport", "direction"}),

		handshakeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tls_handshake_duration_seconds",
			Help:      "Time spent completing a TLS handshake, from first engine call to StateConnected.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"role"}),
	}
}

// Register attaches every instrument to reg. Safe to call once per
// Collector; a second call returns the AlreadyRegisteredError from the
// underlying registry unchanged.
func (m *Collector) Register(reg prometheus.Registerer) error {
	if m == nil {
		return nil
	}
	for _, c := range []prometheus.Collector{
		m.connectionsByState,
		m.eventsDispatched,
		m.wouldBlockTotal,
		m.handshakeDuration,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveState records a connection's current state as a gauge sample.
// Callers typically invoke this once after every MarkConnecting/
// MarkConnected/MarkClosed/MarkError transition.
func (m *Collector) ObserveState(prev, next conn.State) {
	if m == nil {
		return
	}
	if prev != next && prev != conn.StateNone {
		m.connectionsByState.WithLabelValues(prev.String()).Dec()
	}
	m.connectionsByState.WithLabelValues(next.String()).Inc()
}

// IncEvent records one readiness-event dispatch for transport/direction
// ("read" or "write").
func (m *Collector) IncEvent(transport, direction string) {
	if m == nil {
		return
	}
	m.eventsDispatched.WithLabelValues(transport, direction).Inc()
}

// IncWouldBlock records one WANT_READ/WANT_WRITE/EAGAIN occurrence for
// transport/direction.
func (m *Collector) IncWouldBlock(transport, direction string) {
	if m == nil {
		return
	}
	m.wouldBlockTotal.WithLabelValues(transport, direction).Inc()
}

// ObserveHandshake records the wall-clock duration of a completed TLS
// handshake for role ("client" or "server").
func (m *Collector) ObserveHandshake(role string, d time.Duration) {
	if m == nil {
		return
	}
	m.handshakeDuration.WithLabelValues(role).Observe(d.Seconds())
}
