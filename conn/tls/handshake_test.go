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

package tls_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	ctls "crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"time"

	"github.com/nabbar/go-connio/conn"
	"github.com/nabbar/go-connio/conn/tls"
	"github.com/nabbar/go-connio/reactor"

	"golang.org/x/sys/unix"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// selfSignedCert mints a throwaway ECDSA certificate for loopback TLS
// tests; not meant to resemble the real certificates package's
// provisioning path (see certificates for that).
func selfSignedCert() ctls.Certificate {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	Expect(err).ToNot(HaveOccurred())

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "127.0.0.1"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	Expect(err).ToNot(HaveOccurred())

	return ctls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  key,
	}
}

func listenLoopbackTLS() (fd int, port int) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	Expect(err).ToNot(HaveOccurred())
	Expect(unix.Bind(fd, &unix.SockaddrInet4{Port: 0, Addr: [4]byte{127, 0, 0, 1}})).To(Succeed())
	Expect(unix.Listen(fd, 1)).To(Succeed())
	sa, err := unix.Getsockname(fd)
	Expect(err).ToNot(HaveOccurred())
	return fd, sa.(*unix.SockaddrInet4).Port
}

var _ = Describe("TLS handshake (end-to-end)", func() {
	It("completes a client/server handshake and round-trips application data", func() {
		cert := selfSignedCert()

		serverCfg := &ctls.Config{Certificates: []ctls.Certificate{cert}}
		clientCfg := &ctls.Config{InsecureSkipVerify: true}

		loop, err := reactor.New()
		Expect(err).ToNot(HaveOccurred())
		defer loop.Close()

		listenFd, port := listenLoopbackTLS()
		defer unix.Close(listenFd)

		serverTransport := tls.New(serverCfg)
		clientTransport := tls.New(clientCfg)

		serverReady := make(chan *conn.Connection, 1)
		go func() {
			acceptFd, _, aerr := unix.Accept(listenFd)
			if aerr != nil {
				return
			}
			_ = unix.SetNonblock(acceptFd, true)
			sc := conn.NewAccepted(serverTransport, loop, acceptFd)
			_ = serverTransport.Accept(sc, func(c *conn.Connection) {
				serverReady <- c
			})
		}()

		client := conn.NewOutbound(clientTransport, loop)
		connected := make(chan struct{}, 1)
		Expect(clientTransport.Connect(client, "127.0.0.1", port, "", func(c *conn.Connection) {
			connected <- struct{}{}
		})).To(Succeed())

		go func() { _ = loop.Run() }()
		defer loop.Stop()

		Eventually(connected, 3*time.Second).Should(Receive())
		Expect(client.State()).To(Equal(conn.StateConnected))

		var server *conn.Connection
		Eventually(serverReady, 3*time.Second).Should(Receive(&server))
		Expect(server.State()).To(Equal(conn.StateConnected))

		serverGotData := make(chan string, 1)
		Expect(serverTransport.SetReadHandler(server, func(c *conn.Connection) {
			buf := make([]byte, 64)
			n, rerr := serverTransport.Read(c, buf)
			if rerr != nil || n == 0 {
				return
			}
			serverGotData <- string(buf[:n])
		})).To(Succeed())

		_, werr := clientTransport.Write(client, []byte("secret"))
		Expect(werr).ToNot(HaveOccurred())

		Eventually(serverGotData, 3*time.Second).Should(Receive(Equal("secret")))

		Expect(clientTransport.Close(client, true)).To(Succeed())
		Expect(serverTransport.Close(server, true)).To(Succeed())
	})
})
