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

package reactor

import (
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/hashicorp/go-uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/nabbar/go-connio/conn"
)

type registration struct {
	id       string
	fd       int
	mask     *bitset.BitSet
	handler  conn.Handler
	userdata any
}

type loop struct {
	epfd int
	log  *logrus.Entry

	mu   sync.Mutex
	regs map[int]*registration

	stop chan struct{}
}

func newLoop() (Loop, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, codeEpoll.Error(err)
	}

	return &loop{
		epfd: epfd,
		log:  logrus.WithField("component", "reactor"),
		regs: make(map[int]*registration),
		stop: make(chan struct{}, 1),
	}, nil
}

// maskToBitset mirrors a conn.Mask onto a 2-bit set: bit 0 is Read, bit 1
// is Write. Using a typed bitset (rather than bare conn.Mask arithmetic)
// keeps this package's internal bookkeeping consistent with conn/tls's
// inversion-bit representation.
func maskToBitset(m conn.Mask) *bitset.BitSet {
	b := bitset.New(2)
	if m.Has(conn.Read) {
		b.Set(0)
	}
	if m.Has(conn.Write) {
		b.Set(1)
	}
	return b
}

func bitsetToMask(b *bitset.BitSet) conn.Mask {
	var m conn.Mask
	if b.Test(0) {
		m |= conn.Read
	}
	if b.Test(1) {
		m |= conn.Write
	}
	return m
}

func maskToEpoll(m conn.Mask) uint32 {
	var e uint32
	if m.Has(conn.Read) {
		e |= unix.EPOLLIN
	}
	if m.Has(conn.Write) {
		e |= unix.EPOLLOUT
	}
	return e
}

func epollToMask(events uint32) conn.Mask {
	var m conn.Mask
	if events&(unix.EPOLLIN|unix.EPOLLHUP|unix.EPOLLERR) != 0 {
		m |= conn.Read
	}
	if events&unix.EPOLLOUT != 0 {
		m |= conn.Write
	}
	return m
}

func (l *loop) Register(fd int, mask conn.Mask, handler conn.Handler, userdata any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.regs[fd]
	op := unix.EPOLL_CTL_MOD
	if !ok {
		id, _ := uuid.GenerateUUID()
		r = &registration{id: id, fd: fd, mask: bitset.New(2)}
		l.regs[fd] = r
		op = unix.EPOLL_CTL_ADD
	}

	r.mask = r.mask.Union(maskToBitset(mask))
	r.handler = handler
	r.userdata = userdata

	ev := unix.EpollEvent{Events: maskToEpoll(bitsetToMask(r.mask)), Fd: int32(fd)}
	if err := unix.EpollCtl(l.epfd, op, fd, &ev); err != nil {
		return codeEpoll.Error(err)
	}

	l.log.WithField("fd", fd).WithField("conn", r.id).Debug("registered interest")
	return nil
}

func (l *loop) Deregister(fd int, mask conn.Mask) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.regs[fd]
	if !ok {
		return nil
	}

	r.mask = r.mask.Difference(maskToBitset(mask))

	if r.mask.None() {
		delete(l.regs, fd)
		return unix.EpollCtl(l.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	}

	ev := unix.EpollEvent{Events: maskToEpoll(bitsetToMask(r.mask)), Fd: int32(fd)}
	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
		return codeEpoll.Error(err)
	}
	return nil
}

func (l *loop) Query(fd int) conn.Mask {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.regs[fd]
	if !ok {
		return 0
	}
	return bitsetToMask(r.mask)
}

// dispatchPending synthesizes a READ dispatch for every read-registered
// connection whose transport reports HasPending (SPEC_FULL.md §4.4.5):
// a TLS engine can decrypt more than one record out of a single physical
// read, leaving application data buffered where epoll has nothing left
// to signal on. Without this, a connection can stall indefinitely once
// its last physical read event has been consumed. Reports whether
// anything was dispatched, so Run knows to loop again immediately
// instead of blocking in EpollWait.
func (l *loop) dispatchPending() bool {
	l.mu.Lock()
	regs := make([]*registration, 0, len(l.regs))
	for _, r := range l.regs {
		if r.mask.Test(0) {
			regs = append(regs, r)
		}
	}
	l.mu.Unlock()

	dispatched := false
	for _, r := range regs {
		c, ok := r.userdata.(*conn.Connection)
		if !ok {
			continue
		}
		if c.Transport().HasPending(c) {
			r.handler(r.fd, r.userdata, conn.Read)
			dispatched = true
		}
	}
	return dispatched
}

func (l *loop) Run() error {
	events := make([]unix.EpollEvent, 64)

	for {
		select {
		case <-l.stop:
			return nil
		default:
		}

		if l.dispatchPending() {
			continue
		}

		n, err := unix.EpollWait(l.epfd, events, 100)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return codeEpoll.Error(err)
		}

		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)

			l.mu.Lock()
			r, ok := l.regs[fd]
			l.mu.Unlock()
			if !ok {
				continue
			}

			r.handler(fd, r.userdata, epollToMask(events[i].Events))
		}
	}
}

func (l *loop) Stop() {
	select {
	case l.stop <- struct{}{}:
	default:
	}
}

func (l *loop) Close() error {
	return unix.Close(l.epfd)
}
