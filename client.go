// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/mimesmtp/go-mimesmtp/log"
	"github.com/mimesmtp/go-mimesmtp/smtp"
)

// Defaults
const (
	// DefaultPort is the default connection port to the SMTP server
	DefaultPort = 25

	// DefaultPortSSL is the default connection port for SSL/TLS to the SMTP server
	DefaultPortSSL = 465

	// DefaultPortTLS is the default connection port for STARTTLS to the SMTP server
	DefaultPortTLS = 587

	// DefaultConnectTimeout bounds the TCP connect and each TLS handshake
	DefaultConnectTimeout = time.Second * 15

	// DefaultResponseTimeout bounds the wait for a single server reply
	DefaultResponseTimeout = time.Second * 15

	// DefaultSendTimeout bounds a single write to the server
	DefaultSendTimeout = time.Second * 60

	// DefaultTLSMinVersion is the minimum TLS version required for the connection
	DefaultTLSMinVersion = tls.VersionTLS12
)

// Operation names used in Error.Op
const (
	OpConfigure = "configure"
	OpConnect   = "connect"
	OpSend      = "send"
	OpClose     = "close"
)

// DialContextFunc is a type to define custom DialContext function.
type DialContextFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Status is the connection state of a Client.
type Status int

const (
	// StatusDisconnected is the initial state.
	StatusDisconnected Status = iota
	// StatusConnected is reached after greeting, EHLO, TLS and authentication succeeded.
	StatusConnected
)

// String satisfies the fmt.Stringer interface for the Status type
func (s Status) String() string {
	if s == StatusConnected {
		return "connected"
	}
	return "disconnected"
}

// Client is the SMTP client. It can only be configured while disconnected.
// A Client is not safe for concurrent use.
type Client struct {
	// conn is the active SMTP conversation, nil while disconnected
	conn *smtp.Conn

	// host and port of the SMTP server; a zero port selects the default of
	// the connection type
	host string
	port int

	// clientHost is sent with EHLO
	clientHost string

	// connType is assigned exactly once
	connType ConnectionType

	tlsConfig *tls.Config

	authType  SMTPAuthType
	mechanism smtp.Mechanism
	user      string
	pass      string

	connectTimeout  time.Duration
	responseTimeout time.Duration
	sendTimeout     time.Duration

	// trafficLog enables the SMTP traffic log at debug level
	trafficLog bool

	logger  log.Logger
	metrics *Metrics

	// maxMessageSize limits the serialized message, 0 means unlimited
	maxMessageSize int64

	dialContextFunc DialContextFunc
}

// Option returns a function that can be used for grouping Client options
type Option func(*Client) error

// NewClient returns a disconnected Client for the SMTP server host. The
// client host defaults to the local hostname.
func NewClient(host string, opts ...Option) (*Client, error) {
	c := &Client{
		host:            host,
		connectTimeout:  DefaultConnectTimeout,
		responseTimeout: DefaultResponseTimeout,
		sendTimeout:     DefaultSendTimeout,
		logger:          log.New(os.Stderr, log.LevelWarn),
	}
	if hostname, err := os.Hostname(); err == nil {
		c.clientHost = hostname
	}

	// Override defaults with optionally provided Option functions
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return c, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return c, nil
}

// WithPort overrides the default connection port
func WithPort(port int) Option {
	return func(c *Client) error {
		return c.SetPort(port)
	}
}

// WithClientHost overrides the host name sent with EHLO
func WithClientHost(host string) Option {
	return func(c *Client) error {
		if host == "" {
			return &Error{Op: OpConfigure, Kind: KindConfiguration, Err: ErrInvalidHELO}
		}
		c.SetClientHost(host)
		return nil
	}
}

// WithConnectionType assigns the ConnectionType
func WithConnectionType(t ConnectionType) Option {
	return func(c *Client) error {
		return c.SetConnectionType(t)
	}
}

// WithTLSConfig overrides the default TLS config
func WithTLSConfig(config *tls.Config) Option {
	return func(c *Client) error {
		return c.SetTLSConfig(config)
	}
}

// WithSMTPAuth selects the SMTP AUTH mechanism
func WithSMTPAuth(t SMTPAuthType) Option {
	return func(c *Client) error {
		c.SetSMTPAuth(t)
		return nil
	}
}

// WithSMTPAuthCustom authenticates with a caller provided smtp.Mechanism
func WithSMTPAuthCustom(m smtp.Mechanism) Option {
	return func(c *Client) error {
		c.SetSMTPAuthCustom(m)
		return nil
	}
}

// WithUsername sets the SMTP AUTH username
func WithUsername(user string) Option {
	return func(c *Client) error {
		c.SetUsername(user)
		return nil
	}
}

// WithPassword sets the SMTP AUTH password
func WithPassword(pass string) Option {
	return func(c *Client) error {
		c.SetPassword(pass)
		return nil
	}
}

// WithConnectTimeout overrides the connect timeout
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) error {
		return c.SetConnectTimeout(d)
	}
}

// WithResponseTimeout overrides the timeout for a single server reply
func WithResponseTimeout(d time.Duration) Option {
	return func(c *Client) error {
		return c.SetResponseTimeout(d)
	}
}

// WithSendTimeout overrides the timeout for a single write
func WithSendTimeout(d time.Duration) Option {
	return func(c *Client) error {
		return c.SetSendTimeout(d)
	}
}

// WithTrafficLog enables the SMTP traffic log
func WithTrafficLog() Option {
	return func(c *Client) error {
		c.SetTrafficLog(true)
		return nil
	}
}

// WithLogger overrides the default log.Logger
func WithLogger(l log.Logger) Option {
	return func(c *Client) error {
		c.SetLogger(l)
		return nil
	}
}

// WithMetrics makes the Client record into m
func WithMetrics(m *Metrics) Option {
	return func(c *Client) error {
		c.metrics = m
		return nil
	}
}

// WithMaxMessageSize rejects messages whose serialized size exceeds size
// bytes. Zero disables the limit.
func WithMaxMessageSize(size int64) Option {
	return func(c *Client) error {
		if size < 0 {
			return &Error{Op: OpConfigure, Kind: KindConfiguration, Err: ErrInvalidSize}
		}
		c.maxMessageSize = size
		return nil
	}
}

// WithDialContextFunc overrides the dialer used to reach the server
func WithDialContextFunc(f DialContextFunc) Option {
	return func(c *Client) error {
		c.dialContextFunc = f
		return nil
	}
}

// Status returns the connection state.
func (c *Client) Status() Status {
	if c.conn == nil {
		return StatusDisconnected
	}
	return StatusConnected
}

// IsConnected reports whether the Client is connected.
func (c *Client) IsConnected() bool {
	return c.conn != nil
}

// Host returns the server host.
func (c *Client) Host() string {
	return c.host
}

// Port returns the configured port, or the default port of the connection type.
func (c *Client) Port() int {
	if c.port == 0 {
		return c.connType.defaultPort()
	}
	return c.port
}

// ClientHost returns the host name sent with EHLO.
func (c *Client) ClientHost() string {
	return c.clientHost
}

// ConnectionType returns the assigned ConnectionType.
func (c *Client) ConnectionType() ConnectionType {
	return c.connType
}

// SMTPAuth returns the selected SMTP AUTH mechanism.
func (c *Client) SMTPAuth() SMTPAuthType {
	return c.authType
}

// ServerAddr returns the host:port of the server.
func (c *Client) ServerAddr() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.Port()))
}

// configurable reports whether settings may change and logs ignored changes.
func (c *Client) configurable(setting string) bool {
	if c.conn == nil {
		return true
	}
	c.logger.Debugf(log.Log{Direction: log.DirInternal, Format: "ignoring change of %s while connected",
		Messages: []interface{}{setting}})
	return false
}

// SetHost sets the server host.
func (c *Client) SetHost(host string) {
	if c.configurable("host") {
		c.host = host
	}
}

// SetPort sets the server port.
func (c *Client) SetPort(port int) error {
	if !c.configurable("port") {
		return nil
	}
	if port < 1 || port > 65535 {
		return &Error{Op: OpConfigure, Kind: KindConfiguration, Err: ErrInvalidPort}
	}
	c.port = port
	return nil
}

// SetClientHost sets the host name sent with EHLO.
func (c *Client) SetClientHost(host string) {
	if c.configurable("client host") {
		c.clientHost = host
	}
}

// SetConnectionType assigns the ConnectionType. It can be assigned once;
// a second assignment and ConnectionUnknown are configuration errors.
func (c *Client) SetConnectionType(t ConnectionType) error {
	if !c.configurable("connection type") {
		return nil
	}
	switch {
	case t <= ConnectionUnknown || t > ConnectionTLS:
		return &Error{Op: OpConfigure, Kind: KindConfiguration, Err: ErrInvalidConnectionType}
	case c.connType != ConnectionUnknown:
		return &Error{Op: OpConfigure, Kind: KindConfiguration, Err: ErrConnectionTypeSet}
	}
	c.connType = t
	return nil
}

// SetTLSConfig overrides the TLS config used for SSL and STARTTLS.
func (c *Client) SetTLSConfig(config *tls.Config) error {
	if !c.configurable("TLS config") {
		return nil
	}
	if config == nil {
		return &Error{Op: OpConfigure, Kind: KindConfiguration, Err: ErrInvalidTLSConfig}
	}
	c.tlsConfig = config
	return nil
}

// SetSMTPAuth selects the SMTP AUTH mechanism.
func (c *Client) SetSMTPAuth(t SMTPAuthType) {
	if c.configurable("SMTP AUTH type") {
		c.authType = t
	}
}

// SetSMTPAuthCustom authenticates with m.
func (c *Client) SetSMTPAuthCustom(m smtp.Mechanism) {
	if c.configurable("SMTP AUTH type") {
		c.authType = SMTPAuthCustom
		c.mechanism = m
	}
}

// SetUsername sets the SMTP AUTH username. Without a selected mechanism
// PLAIN is selected.
func (c *Client) SetUsername(user string) {
	if c.configurable("username") {
		c.user = user
		c.defaultToPlain()
	}
}

// SetPassword sets the SMTP AUTH password. Without a selected mechanism
// PLAIN is selected.
func (c *Client) SetPassword(pass string) {
	if c.configurable("password") {
		c.pass = pass
		c.defaultToPlain()
	}
}

func (c *Client) defaultToPlain() {
	if c.authType == SMTPAuthNoAuth {
		c.authType = SMTPAuthPlain
	}
}

// SetConnectTimeout sets the connect timeout.
func (c *Client) SetConnectTimeout(d time.Duration) error {
	return c.setTimeout("connect timeout", &c.connectTimeout, d)
}

// SetResponseTimeout sets the timeout for a single server reply.
func (c *Client) SetResponseTimeout(d time.Duration) error {
	return c.setTimeout("response timeout", &c.responseTimeout, d)
}

// SetSendTimeout sets the timeout for a single write.
func (c *Client) SetSendTimeout(d time.Duration) error {
	return c.setTimeout("send timeout", &c.sendTimeout, d)
}

func (c *Client) setTimeout(name string, field *time.Duration, d time.Duration) error {
	if !c.configurable(name) {
		return nil
	}
	if d <= 0 {
		return &Error{Op: OpConfigure, Kind: KindConfiguration, Err: ErrInvalidTimeout}
	}
	*field = d
	return nil
}

// SetTrafficLog enables or disables the SMTP traffic log.
func (c *Client) SetTrafficLog(v bool) {
	if c.configurable("traffic log") {
		c.trafficLog = v
	}
}

// SetLogger sets the logger. A nil logger is ignored.
func (c *Client) SetLogger(l log.Logger) {
	if l != nil && c.configurable("logger") {
		c.logger = l
	}
}

// checkConfig is the gate of Connect. It performs no I/O.
func (c *Client) checkConfig() error {
	switch {
	case c.conn != nil:
		return ErrAlreadyConnected
	case c.connType == ConnectionUnknown:
		return ErrNoConnectionType
	case c.host == "":
		return ErrNoHostname
	case c.Port() < 1 || c.Port() > 65535:
		return ErrInvalidPort
	case c.clientHost == "":
		return ErrInvalidHELO
	case c.authType == SMTPAuthCustom && c.mechanism == nil:
		return ErrNoAuthMechanism
	case c.authType.needsCredentials() && (c.user == "" || c.pass == ""):
		return ErrNoCredentials
	}
	return nil
}

// Connect establishes the SMTP session with context.Background.
func (c *Client) Connect() error {
	return c.ConnectWithContext(context.Background())
}

// ConnectWithContext dials the server, reads the greeting, sends EHLO,
// upgrades with STARTTLS for ConnectionTLS and authenticates. ctx bounds the
// dial and the TLS handshakes together with the connect timeout. On any
// failure the connection is closed and the Client stays disconnected.
func (c *Client) ConnectWithContext(ctx context.Context) error {
	if err := c.checkConfig(); err != nil {
		return c.fail(OpConnect, KindConfiguration, err)
	}
	start := time.Now()

	netConn, err := c.dial(ctx)
	if err != nil {
		return c.fail(OpConnect, KindTransport, err)
	}
	conn := smtp.NewConn(netConn)
	conn.SetLogger(c.logger)
	conn.SetDebugLog(c.trafficLog)
	conn.SetTimeouts(c.responseTimeout, c.sendTimeout)

	if err = c.handshake(ctx, conn); err != nil {
		_ = conn.Close()
		return c.fail(OpConnect, classify(err), err)
	}
	c.conn = conn
	c.metrics.connected(c.connType, time.Since(start))
	c.logger.Infof(log.Log{Direction: log.DirInternal, Format: "connected to %s using %s",
		Messages: []interface{}{c.ServerAddr(), c.connType}})
	return nil
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	dctx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	dialContextFunc := c.dialContextFunc
	if dialContextFunc == nil {
		nd := net.Dialer{}
		dialContextFunc = nd.DialContext
	}
	conn, err := dialContextFunc(dctx, "tcp", c.ServerAddr())
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", c.ServerAddr(), err)
	}
	if c.connType != ConnectionSSL {
		return conn, nil
	}
	tlsConn := tls.Client(conn, c.tlsClientConfig())
	if err = tlsConn.HandshakeContext(dctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("TLS handshake failed: %w", err)
	}
	return tlsConn, nil
}

func (c *Client) handshake(ctx context.Context, conn *smtp.Conn) error {
	if _, err := conn.ReadResponse(220); err != nil {
		return err
	}
	if err := conn.Hello(c.clientHost); err != nil {
		return err
	}
	if c.connType == ConnectionTLS {
		tctx, cancel := context.WithTimeout(ctx, c.connectTimeout)
		defer cancel()
		if err := conn.StartTLS(tctx, c.tlsClientConfig()); err != nil {
			return err
		}
		if err := conn.Hello(c.clientHost); err != nil {
			return err
		}
	}
	if m := c.authMechanism(); m != nil {
		if err := conn.Auth(m); err != nil {
			return err
		}
	}
	return nil
}

// tlsClientConfig returns the configured tls.Config, completed with the
// server host as ServerName.
func (c *Client) tlsClientConfig() *tls.Config {
	if c.tlsConfig == nil {
		return &tls.Config{ServerName: c.host, MinVersion: DefaultTLSMinVersion}
	}
	if c.tlsConfig.ServerName != "" || c.tlsConfig.InsecureSkipVerify {
		return c.tlsConfig
	}
	config := c.tlsConfig.Clone()
	config.ServerName = c.host
	return config
}

func (c *Client) authMechanism() smtp.Mechanism {
	switch c.authType {
	case SMTPAuthPlain:
		return smtp.PlainAuth(c.user, c.pass)
	case SMTPAuthLogin:
		return smtp.LoginAuth(c.user, c.pass)
	case SMTPAuthCramMD5:
		return smtp.CRAMMD5Auth(c.user, c.pass)
	case SMTPAuthSCRAMSHA1:
		return smtp.ScramSHA1Auth(c.user, c.pass)
	case SMTPAuthSCRAMSHA256:
		return smtp.ScramSHA256Auth(c.user, c.pass)
	case SMTPAuthNTLM:
		return smtp.NTLMv2Auth(c.user, c.pass, c.clientHost)
	case SMTPAuthCustom:
		return c.mechanism
	}
	return nil
}

// Send transmits msg. The message is validated and serialized before the
// first command. A validation failure leaves the connection open; any
// failure of the SMTP transaction closes it.
func (c *Client) Send(msg *Msg) error {
	if c.conn == nil {
		return c.fail(OpSend, KindConfiguration, ErrNotConnected)
	}
	if msg == nil {
		return c.fail(OpSend, KindValidation, ErrInvalidMessage)
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return c.fail(OpSend, KindValidation, err)
	}
	if c.maxMessageSize > 0 && int64(buf.Len()) > c.maxMessageSize {
		return c.fail(OpSend, KindValidation, fmt.Errorf("%w: %d > %d bytes", ErrMessageTooLarge,
			buf.Len(), c.maxMessageSize))
	}

	if err := c.conn.Mail(msg.Sender().Email); err != nil {
		return c.abort(OpSend, err)
	}
	for _, rcpt := range msg.Recipients() {
		if err := c.conn.Rcpt(rcpt.Email); err != nil {
			return c.abort(OpSend, err)
		}
	}
	if err := c.conn.Data(buf.Bytes()); err != nil {
		return c.abort(OpSend, err)
	}
	c.metrics.sent(buf.Len())
	c.logger.Infof(log.Log{Direction: log.DirInternal, Format: "message to %d recipients accepted",
		Messages: []interface{}{len(msg.Recipients())}})
	return nil
}

// ConnectAndSend connects, sends every message in order and closes the
// connection. The first failure stops the sequence.
func (c *Client) ConnectAndSend(ctx context.Context, msgs ...*Msg) error {
	if err := c.ConnectWithContext(ctx); err != nil {
		return err
	}
	for _, msg := range msgs {
		if err := c.Send(msg); err != nil {
			_ = c.Close()
			return err
		}
	}
	return c.Close()
}

// Close closes the connection without QUIT. Closing a disconnected Client
// does nothing.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	if err != nil {
		return c.fail(OpClose, KindTransport, err)
	}
	return nil
}

// abort closes the connection after a failed transaction.
func (c *Client) abort(op string, err error) error {
	kind := classify(err)
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	return c.fail(op, kind, err)
}

// fail logs and counts err and returns it as *Error.
func (c *Client) fail(op string, kind ErrKind, err error) error {
	e := &Error{Op: op, Kind: kind, Err: err}
	c.logger.Warnf(log.Log{Direction: log.DirInternal, Format: "%s", Messages: []interface{}{e}})
	c.metrics.failed(op, kind)
	return e
}
