/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package gridcache

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oracle/gridcache-go/api"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	envHostName           = "GRIDCACHE_SERVER_ADDRESS"
	envTLSCertPath        = "GRIDCACHE_TLS_CERTS_PATH"
	envTLSClientCert      = "GRIDCACHE_TLS_CLIENT_CERT"
	envTLSClientKey       = "GRIDCACHE_TLS_CLIENT_KEY"
	envIgnoreInvalidCerts = "GRIDCACHE_IGNORE_INVALID_CERTS"
	envRequestTimeout     = "GRIDCACHE_CLIENT_REQUEST_TIMEOUT"
	envSessionDebug       = "GRIDCACHE_SESSION_DEBUG"

	defaultFormat         = "json"
	defaultAddress        = "localhost:1408"
	defaultRequestTimeout = 30 * time.Second

	mapOrCacheExists = "the %s %s already exists with different type parameters"
)

// ErrInvalidFormat indicates an unsupported serialization format.
var ErrInvalidFormat = errors.New("format can only be 'json' or 'msgpack'")

// ErrEnsureTimeout indicates the per-name lock guarding cache creation could
// not be acquired within the configured request timeout.
var ErrEnsureTimeout = errors.New("timed out waiting to ensure the cache")

// Session provides APIs to create NamedCaches and NamedMaps. The NewSession()
// method creates a new instance of a Session, configured by a variable number
// of functional options.
type Session struct {
	sessionID             uuid.UUID
	sessOpts              *SessionOptions
	conn                  *grpc.ClientConn
	client                api.NamedCacheServiceClient
	dialOptions           []grpc.DialOption
	closed                bool
	caches                map[string]interface{}
	maps                  map[string]interface{}
	nameLocks             map[string]chan struct{}
	lifecycleListeners    []*SessionLifecycleListener
	sessionConnectCtx     context.Context
	mutex                 sync.RWMutex
	firstConnectAttempted bool
	hasConnected          bool
	requestTimeout        time.Duration
	debug                 func(v ...any)
}

// SessionOptions holds the session attributes like address, scope, format
// and TLS attributes.
type SessionOptions struct {
	Address        string
	TLSEnabled     bool
	Scope          string
	Format         string
	ClientCertPath string
	ClientKeyPath  string
	CaCertPath     string
	PlainText      bool
	RequestTimeout time.Duration
}

// NewSession creates a new Session with the specified options.
//
//	ctx := context.Background()
//	session, err := gridcache.NewSession(ctx, gridcache.WithPlainText())
//
// The server address can also be set via the GRIDCACHE_SERVER_ADDRESS
// environment variable. Once a Session is closed no API on NamedMap
// instances obtained from it may be invoked; such invocations return an
// error.
func NewSession(ctx context.Context, options ...func(session *SessionOptions)) (*Session, error) {
	session := &Session{
		sessionID:         uuid.New(),
		sessionConnectCtx: ctx,
		caches:            make(map[string]interface{}),
		maps:              make(map[string]interface{}),
		nameLocks:         make(map[string]chan struct{}),
		debug:             func(v ...any) {},
		sessOpts: &SessionOptions{
			Format:         defaultFormat,
			RequestTimeout: defaultRequestTimeout,
		},
	}

	if getBoolValueFromEnvVarOrDefault(envSessionDebug, false) {
		session.debug = func(v ...any) {
			log.Println("DEBUG:", v)
		}
	}

	for _, f := range options {
		f(session.sessOpts)
	}

	if session.sessOpts.Format != "json" && session.sessOpts.Format != "msgpack" {
		return nil, ErrInvalidFormat
	}

	if session.sessOpts.Address == "" {
		session.sessOpts.Address = getStringValueFromEnvVarOrDefault(envHostName, defaultAddress)
	}

	if timeout := getStringValueFromEnvVarOrDefault(envRequestTimeout, ""); timeout != "" {
		if millis, err := strconv.ParseInt(timeout, 10, 64); err == nil {
			session.sessOpts.RequestTimeout = time.Duration(millis) * time.Millisecond
		}
	}
	session.requestTimeout = session.sessOpts.RequestTimeout

	err := session.ensureConnection()
	return session, err
}

// WithAddress returns a function to set the address for a session.
func WithAddress(host string) func(sessionOptions *SessionOptions) {
	return func(s *SessionOptions) {
		s.Address = host
	}
}

// WithFormat returns a function to set the serialization format for a
// session; "json" and "msgpack" are supported.
func WithFormat(format string) func(sessionOptions *SessionOptions) {
	return func(s *SessionOptions) {
		s.Format = format
	}
}

// WithScope returns a function to set the scope for a session. The scope
// selects the configured backing store on the proxy and makes cache names
// unique within it.
func WithScope(scope string) func(sessionOptions *SessionOptions) {
	return func(s *SessionOptions) {
		s.Scope = scope
	}
}

// WithPlainText returns a function to set the connection to plain text
// (insecure) for a session.
func WithPlainText() func(sessionOptions *SessionOptions) {
	return func(s *SessionOptions) {
		s.PlainText = true
	}
}

// WithRequestTimeout returns a function to set the request timeout for a
// session. The timeout bounds each unary request and the wait to ensure a
// cache handle.
func WithRequestTimeout(timeout time.Duration) func(sessionOptions *SessionOptions) {
	return func(s *SessionOptions) {
		s.RequestTimeout = timeout
	}
}

// ID returns the identifier of a session.
func (s *Session) ID() string {
	return s.sessionID.String()
}

// Close closes the session's connection. Every cache and map handle obtained
// from the session transitions to released; subsequent use returns
// ErrClosed.
func (s *Session) Close() {
	s.mutex.Lock()
	caches := s.caches
	maps := s.maps
	s.caches = make(map[string]interface{})
	s.maps = make(map[string]interface{})
	s.closed = true
	s.mutex.Unlock()

	for _, c := range caches {
		if r, ok := c.(releasable); ok {
			r.releaseInternal()
		}
	}
	for _, m := range maps {
		if r, ok := m.(releasable); ok {
			r.releaseInternal()
		}
	}

	if err := s.conn.Close(); err != nil {
		log.Printf("unable to close session %s: %v", s.sessionID, err)
	}
}

// releasable is implemented by cache handles so the session can transition
// them to inactive on close.
type releasable interface {
	releaseInternal()
}

func (s *Session) String() string {
	return fmt.Sprintf("Session{id=%s, closed=%v, caches=%d, maps=%d, options=%v}",
		s.sessionID.String(), s.closed, len(s.caches), len(s.maps), s.sessOpts)
}

// ensureConnection ensures a session has a valid connection.
func (s *Session) ensureConnection() error {
	if s.firstConnectAttempted {
		if s.conn.GetState() != connectivity.Ready {
			s.debug(fmt.Sprintf("session: %s attempting connection to address %s", s.sessionID, s.sessOpts.Address))
			s.conn.Connect()
		}
		return nil
	}

	tlsOpt, err := s.sessOpts.createTLSOption()
	if err != nil {
		return fmt.Errorf("error while setting up channel credentials: %v", err)
	}

	s.dialOptions = []grpc.DialOption{
		tlsOpt,
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(api.CodecName)),
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	conn, err := grpc.DialContext(s.sessionConnectCtx, s.sessOpts.Address, s.dialOptions...)
	if err != nil {
		log.Printf("could not connect. Reason: %v", err)
		return err
	}

	s.conn = conn
	s.client = api.NewNamedCacheServiceClient(conn)
	s.firstConnectAttempted = true

	// watch connection state changes and dispatch session lifecycle events
	go func(session *Session) {
		var (
			firstConnect = true
			connected    = false
			ctx          = context.Background()
			lastState    = session.conn.GetState()
		)

		for {
			if !session.conn.WaitForStateChange(ctx, lastState) {
				return
			}

			newState := session.conn.GetState()
			session.debug("connection:", lastState, "=>", newState)

			if newState == connectivity.Shutdown {
				session.dispatch(Closed, func() SessionLifecycleEvent {
					return newSessionLifecycleEvent(session, Closed)
				})
				session.closed = true
				return
			}

			if newState == connectivity.Ready {
				if !firstConnect && !connected {
					log.Printf("session: %s re-connected to address %s", session.sessionID, session.sessOpts.Address)
					session.dispatch(Reconnected, func() SessionLifecycleEvent {
						return newSessionLifecycleEvent(session, Reconnected)
					})
					session.closed = false
					connected = true
				} else if firstConnect && !connected {
					firstConnect = false
					connected = true
					session.hasConnected = true
					session.debug("session connected", session.sessionID)
					session.dispatch(Connected, func() SessionLifecycleEvent {
						return newSessionLifecycleEvent(session, Connected)
					})
				}
			} else {
				if connected {
					log.Printf("session: %s disconnected from address %s", session.sessionID, session.sessOpts.Address)
					session.dispatch(Disconnected, func() SessionLifecycleEvent {
						return newSessionLifecycleEvent(session, Disconnected)
					})
					connected = false
				}
				if newState != connectivity.Connecting {
					conn.Connect()
				}
			}
			lastState = session.conn.GetState()
		}
	}(s)

	return nil
}

// ensureContext applies the session request timeout when the caller supplied
// no deadline of its own.
func (s *Session) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, nil
	}
	return context.WithTimeout(ctx, s.requestTimeout)
}

// lockName acquires the per-name lock guarding creation of the handle for
// name, waiting at most the request timeout.
func (s *Session) lockName(name string) error {
	s.mutex.Lock()
	lock, ok := s.nameLocks[name]
	if !ok {
		lock = make(chan struct{}, 1)
		s.nameLocks[name] = lock
	}
	s.mutex.Unlock()

	select {
	case lock <- struct{}{}:
		return nil
	case <-time.After(s.requestTimeout):
		return ErrEnsureTimeout
	}
}

func (s *Session) unlockName(name string) {
	s.mutex.RLock()
	lock := s.nameLocks[name]
	s.mutex.RUnlock()
	<-lock
}

// GetOptions returns the options that were passed during session creation.
func (s *Session) GetOptions() *SessionOptions {
	return s.sessOpts
}

// AddSessionLifecycleListener adds a SessionLifecycleListener that will
// receive events (connected, closed, disconnected or reconnected) that occur
// against the session.
func (s *Session) AddSessionLifecycleListener(listener SessionLifecycleListener) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, e := range s.lifecycleListeners {
		if *e == listener {
			return
		}
	}
	s.lifecycleListeners = append(s.lifecycleListeners, &listener)
}

// RemoveSessionLifecycleListener removes a SessionLifecycleListener for a session.
func (s *Session) RemoveSessionLifecycleListener(listener SessionLifecycleListener) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	idx := -1
	listeners := s.lifecycleListeners
	for i, c := range listeners {
		if *c == listener {
			idx = i
			break
		}
	}
	if idx != -1 {
		s.lifecycleListeners = append(listeners[:idx], listeners[idx+1:]...)
	}
}

// GetNamedMap returns a NamedMap from a session. An existing NamedMap with
// the same name and type parameters is returned if present; a NamedMap with
// the same name but different type parameters is an error.
func GetNamedMap[K comparable, V any](session *Session, cacheName string, options ...func(cache *CacheOptions)) (NamedMap[K, V], error) {
	return newNamedMap[K, V](session, cacheName, session.sessOpts, options...)
}

// GetNamedCache returns a NamedCache from a session. A NamedCache is
// syntactically identical in behaviour to a NamedMap but additionally
// supports per-entry expiry via PutWithExpiry and the WithExpiry cache
// option.
func GetNamedCache[K comparable, V any](session *Session, cacheName string, options ...func(cache *CacheOptions)) (NamedCache[K, V], error) {
	return newNamedCache[K, V](session, cacheName, session.sessOpts, options...)
}

// IsClosed returns true if the Session is closed.
func (s *Session) IsClosed() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.closed
}

// IsPlainText returns true if the connection is plain text, e.g. non-TLS.
func (s *SessionOptions) IsPlainText() bool {
	return s.PlainText
}

func (s *SessionOptions) createTLSOption() (grpc.DialOption, error) {
	if s.PlainText {
		return grpc.WithTransportCredentials(insecure.NewCredentials()), nil
	}

	var (
		err          error
		cp           *x509.CertPool
		certData     []byte
		certificates = make([]tls.Certificate, 0)
	)

	ignoreInvalidCerts := getStringValueFromEnvVarOrDefault(envIgnoreInvalidCerts, "false") == "true"
	if ignoreInvalidCerts {
		log.Println("WARNING: you have turned off SSL certificate validation. This is insecure and not recommended.")
	}

	certPath := getStringValueFromEnvVarOrDefault(envTLSCertPath, "")
	clientCertEnv := getStringValueFromEnvVarOrDefault(envTLSClientCert, "")
	clientCertKeyEnv := getStringValueFromEnvVarOrDefault(envTLSClientKey, "")

	if certPath != "" {
		cp = x509.NewCertPool()

		if err = validateFilePath(certPath); err != nil {
			return nil, err
		}

		certData, err = os.ReadFile(certPath)
		if err != nil {
			return nil, err
		}

		if !cp.AppendCertsFromPEM(certData) {
			return nil, errors.New("credentials: failed to append certificates")
		}
	}

	if clientCertEnv != "" && clientCertKeyEnv != "" {
		if err = validateFilePath(clientCertEnv); err != nil {
			return nil, err
		}
		if err = validateFilePath(clientCertKeyEnv); err != nil {
			return nil, err
		}
		var clientCert tls.Certificate
		clientCert, err = tls.LoadX509KeyPair(clientCertEnv, clientCertKeyEnv)
		if err != nil {
			return nil, err
		}
		certificates = []tls.Certificate{clientCert}
	}

	config := &tls.Config{
		InsecureSkipVerify: ignoreInvalidCerts, //nolint
		RootCAs:            cp,
		Certificates:       certificates,
	}

	return grpc.WithTransportCredentials(credentials.NewTLS(config)), nil
}

// validateFilePath checks to see if a file path is valid.
func validateFilePath(file string) error {
	if _, err := os.Stat(file); err == nil {
		return nil
	}
	return fmt.Errorf("%s is not a valid file", file)
}

// String returns a string representation of SessionOptions.
func (s *SessionOptions) String() string {
	var sb = strings.Builder{}
	sb.WriteString(fmt.Sprintf("SessionOptions{address=%v, tlsEnabled=%v, scope=%v, format=%v",
		s.Address, s.TLSEnabled, s.Scope, s.Format))

	if s.TLSEnabled {
		sb.WriteString(fmt.Sprintf(", clientCertPath=%v, clientKeyPath=%v, caCertPath=%v",
			s.ClientCertPath, s.ClientKeyPath, s.CaCertPath))
	}
	sb.WriteString("}")

	return sb.String()
}

func (s *Session) dispatch(eventType SessionLifecycleEventType,
	creator func() SessionLifecycleEvent) {
	if len(s.lifecycleListeners) > 0 {
		event := creator()
		for _, l := range s.lifecycleListeners {
			e := *l
			e.getEmitter().emit(eventType, event)
		}
	}
}

func getStringValueFromEnvVarOrDefault(envVar string, defaultValue string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	return defaultValue
}

func getBoolValueFromEnvVarOrDefault(envVar string, defaultValue bool) bool {
	if value := os.Getenv(envVar); value != "" {
		return value == "true"
	}
	return defaultValue
}
