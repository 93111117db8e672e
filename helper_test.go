// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"bufio"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"strings"
	"testing"
	"time"
)

var errMockWrite = errors.New("mock write error")

// failWriter fails every write after the first failAfter bytes.
type failWriter struct {
	failAfter int
	written   int
}

func (w *failWriter) Write(p []byte) (int, error) {
	if w.written+len(p) > w.failAfter {
		n := w.failAfter - w.written
		w.written = w.failAfter
		return n, errMockWrite
	}
	w.written += len(p)
	return len(p), nil
}

// fakeServer is the server side of a scripted SMTP conversation.
type fakeServer struct {
	t    *testing.T
	raw  net.Conn
	conn net.Conn
	r    *bufio.Reader
}

// send writes all lines with a single Write.
func (s *fakeServer) send(lines ...string) {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l + "\r\n")
	}
	if _, err := s.conn.Write([]byte(b.String())); err != nil {
		s.t.Logf("fake server failed to write: %s", err)
	}
}

func (s *fakeServer) readLine() (string, error) {
	line, err := s.r.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

func (s *fakeServer) expect(want string) bool {
	got, err := s.readLine()
	if err != nil {
		s.t.Errorf("fake server failed to read %q: %s", want, err)
		return false
	}
	if got != want {
		s.t.Errorf("fake server expected %q, got %q", want, got)
		return false
	}
	return true
}

// readData reads a DATA section up to the terminating dot line.
func (s *fakeServer) readData() (string, bool) {
	var data strings.Builder
	for {
		line, err := s.readLine()
		if err != nil {
			s.t.Errorf("fake server failed to read message data: %s", err)
			return "", false
		}
		if line == "." {
			return data.String(), true
		}
		data.WriteString(line + "\r\n")
	}
}

// startTLS turns the server side into a TLS server using localhostCert.
func (s *fakeServer) startTLS() bool {
	keypair, err := tls.X509KeyPair(localhostCert, localhostKey)
	if err != nil {
		s.t.Errorf("failed to load test key pair: %s", err)
		return false
	}
	// TLS 1.2 keeps both handshake sides in lock step over net.Pipe.
	tlsConn := tls.Server(s.conn, &tls.Config{Certificates: []tls.Certificate{keypair},
		MaxVersion: tls.VersionTLS12})
	if err = tlsConn.Handshake(); err != nil {
		s.t.Errorf("server side TLS handshake failed: %s", err)
		return false
	}
	s.conn = tlsConn
	s.r = bufio.NewReader(tlsConn)
	return true
}

// pipeDialer returns a DialContextFunc that connects the client to script
// over an in-memory pipe.
func pipeDialer(t *testing.T, script func(s *fakeServer)) DialContextFunc {
	t.Helper()
	var done chan struct{}
	t.Cleanup(func() {
		if done != nil {
			<-done
		}
	})
	return func(context.Context, string, string) (net.Conn, error) {
		client, server := net.Pipe()
		done = make(chan struct{})
		go func() {
			defer close(done)
			fs := &fakeServer{t: t, raw: server, conn: server, r: bufio.NewReader(server)}
			script(fs)
			_ = fs.raw.Close()
		}()
		return client, nil
	}
}

func testClientTLSConfig(t *testing.T) *tls.Config {
	t.Helper()
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(localhostCert) {
		t.Fatal("failed to add test certificate to pool")
	}
	return &tls.Config{RootCAs: pool, ServerName: "example.com", MinVersion: tls.VersionTLS12}
}

// testMessage returns a valid Msg with a pinned date.
func testMessage(t *testing.T) *Msg {
	t.Helper()
	msg := NewMsg(WithDate(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	msg.SetSender(NewAddress("toni@example.com", ""))
	msg.AddTo(NewAddress("tina@example.com", ""))
	msg.SetSubject("Hi")
	msg.SetText("Hello")
	return msg
}

// localhostCert is a PEM-encoded TLS cert generated from src/crypto/tls:
//
//	go run generate_cert.go --rsa-bits 1024 --host 127.0.0.1,::1,example.com \
//		--ca --start-date "Jan 1 00:00:00 1970" --duration=1000000h
var localhostCert = []byte(`
-----BEGIN CERTIFICATE-----
MIICFDCCAX2gAwIBAgIRAK0xjnaPuNDSreeXb+z+0u4wDQYJKoZIhvcNAQELBQAw
EjEQMA4GA1UEChMHQWNtZSBDbzAgFw03MDAxMDEwMDAwMDBaGA8yMDg0MDEyOTE2
MDAwMFowEjEQMA4GA1UEChMHQWNtZSBDbzCBnzANBgkqhkiG9w0BAQEFAAOBjQAw
gYkCgYEA0nFbQQuOWsjbGtejcpWz153OlziZM4bVjJ9jYruNw5n2Ry6uYQAffhqa
JOInCmmcVe2siJglsyH9aRh6vKiobBbIUXXUU1ABd56ebAzlt0LobLlx7pZEMy30
LqIi9E6zmL3YvdGzpYlkFRnRrqwEtWYbGBf3znO250S56CCWH2UCAwEAAaNoMGYw
DgYDVR0PAQH/BAQDAgKkMBMGA1UdJQQMMAoGCCsGAQUFBwMBMA8GA1UdEwEB/wQF
MAMBAf8wLgYDVR0RBCcwJYILZXhhbXBsZS5jb22HBH8AAAGHEAAAAAAAAAAAAAAA
AAAAAAEwDQYJKoZIhvcNAQELBQADgYEAbZtDS2dVuBYvb+MnolWnCNqvw1w5Gtgi
NmvQQPOMgM3m+oQSCPRTNGSg25e1Qbo7bgQDv8ZTnq8FgOJ/rbkyERw2JckkHpD4
n4qcK27WkEDBtQFlPihIM8hLIuzWoi/9wygiElTy/tVL3y7fGCvY2/k1KBthtZGF
tN8URjVmyEo=
-----END CERTIFICATE-----`)

// localhostKey is the private key for localhostCert.
var localhostKey = []byte(testingKey(`
-----BEGIN RSA TESTING KEY-----
MIICXgIBAAKBgQDScVtBC45ayNsa16NylbPXnc6XOJkzhtWMn2Niu43DmfZHLq5h
AB9+Gpok4icKaZxV7ayImCWzIf1pGHq8qKhsFshRddRTUAF3np5sDOW3QuhsuXHu
lkQzLfQuoiL0TrOYvdi90bOliWQVGdGurAS1ZhsYF/fOc7bnRLnoIJYfZQIDAQAB
AoGBAMst7OgpKyFV6c3JwyI/jWqxDySL3caU+RuTTBaodKAUx2ZEmNJIlx9eudLA
kucHvoxsM/eRxlxkhdFxdBcwU6J+zqooTnhu/FE3jhrT1lPrbhfGhyKnUrB0KKMM
VY3IQZyiehpxaeXAwoAou6TbWoTpl9t8ImAqAMY8hlULCUqlAkEA+9+Ry5FSYK/m
542LujIcCaIGoG1/Te6Sxr3hsPagKC2rH20rDLqXwEedSFOpSS0vpzlPAzy/6Rbb
PHTJUhNdwwJBANXkA+TkMdbJI5do9/mn//U0LfrCR9NkcoYohxfKz8JuhgRQxzF2
6jpo3q7CdTuuRixLWVfeJzcrAyNrVcBq87cCQFkTCtOMNC7fZnCTPUv+9q1tcJyB
vNjJu3yvoEZeIeuzouX9TJE21/33FaeDdsXbRhQEj23cqR38qFHsF1qAYNMCQQDP
QXLEiJoClkR2orAmqjPLVhR3t2oB3INcnEjLNSq8LHyQEfXyaFfu4U9l5+fRPL2i
jiC0k/9L5dHUsF0XZothAkEA23ddgRs+Id/HxtojqqUT27B8MT/IGNrYsp4DvS/c
qgkeluku4GjxRlDMBuXk94xOBEinUs+p/hwP1Alll80Tpg==
-----END RSA TESTING KEY-----`))

func testingKey(s string) string { return strings.ReplaceAll(s, "TESTING KEY", "PRIVATE KEY") }
