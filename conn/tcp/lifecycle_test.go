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

package tcp_test

import (
	"time"

	"github.com/nabbar/go-connio/conn"
	"github.com/nabbar/go-connio/conn/tcp"
	"github.com/nabbar/go-connio/reactor"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("peer close (end-to-end)", func() {
	It("moves a connection to CLOSED when the remote peer shuts down cleanly", func() {
		loop, err := reactor.New()
		Expect(err).ToNot(HaveOccurred())
		defer loop.Close()

		listenFd, port := listenLoopback()
		defer unix.Close(listenFd)

		transport := tcp.New()

		serverReady := make(chan *conn.Connection, 1)
		var g errgroup.Group
		g.Go(func() error {
			acceptFd, _, aerr := unix.Accept(listenFd)
			if aerr != nil {
				return aerr
			}
			_ = unix.SetNonblock(acceptFd, true)
			sc := conn.NewAccepted(transport, loop, acceptFd)
			if aerr = transport.Accept(sc, nil); aerr != nil {
				return aerr
			}
			serverReady <- sc
			return nil
		})

		client := conn.NewOutbound(transport, loop)
		connected := make(chan struct{}, 1)
		Expect(transport.Connect(client, "127.0.0.1", port, "", func(c *conn.Connection) {
			connected <- struct{}{}
		})).To(Succeed())

		go func() { _ = loop.Run() }()
		defer loop.Stop()

		Eventually(connected, 2*time.Second).Should(Receive())
		var server *conn.Connection
		Eventually(serverReady, 2*time.Second).Should(Receive(&server))
		Expect(g.Wait()).To(Succeed())

		clientSawClose := make(chan struct{}, 1)
		Expect(transport.SetReadHandler(client, func(c *conn.Connection) {
			buf := make([]byte, 16)
			n, rerr := transport.Read(c, buf)
			if rerr == nil && n == 0 {
				clientSawClose <- struct{}{}
			}
		})).To(Succeed())

		Expect(transport.Close(server, true)).To(Succeed())

		Eventually(clientSawClose, 2*time.Second).Should(Receive())
		Expect(client.State()).To(Equal(conn.StateClosed))

		Expect(transport.Close(client, true)).To(Succeed())
	})
})

var _ = Describe("misuse (single-shot and state guards)", func() {
	It("refuses a second Connect on an already-connecting connection", func() {
		loop, err := reactor.New()
		Expect(err).ToNot(HaveOccurred())
		defer loop.Close()

		listenFd, port := listenLoopback()
		defer unix.Close(listenFd)

		transport := tcp.New()
		client := conn.NewOutbound(transport, loop)

		Expect(transport.Connect(client, "127.0.0.1", port, "", nil)).To(Succeed())
		Expect(transport.Connect(client, "127.0.0.1", port, "", nil)).To(MatchError(conn.ErrWrongState))
	})

	It("returns ErrClosed from Close on an already-closed connection", func() {
		loop, err := reactor.New()
		Expect(err).ToNot(HaveOccurred())
		defer loop.Close()

		listenFd, port := listenLoopback()
		defer unix.Close(listenFd)

		transport := tcp.New()
		client := conn.NewOutbound(transport, loop)
		connected := make(chan struct{}, 1)
		Expect(transport.Connect(client, "127.0.0.1", port, "", func(c *conn.Connection) {
			connected <- struct{}{}
		})).To(Succeed())

		go func() { _ = loop.Run() }()
		defer loop.Stop()
		Eventually(connected, 2*time.Second).Should(Receive())

		Expect(transport.Close(client, true)).To(Succeed())
		Expect(transport.Close(client, true)).To(MatchError(conn.ErrClosed))
	})
})
