// ABOUTME: SSH+SOCKS5 tunnel transport for reaching the API through a jump box.
// ABOUTME: Parses ssh+socks5://user@host:port?private-key=/path URLs.

package client

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	proxy "github.com/cloudfoundry/socks5-proxy"
)

// ProxyConfig is the parsed form of an ssh+socks5 proxy URL
type ProxyConfig struct {
	Username   string
	Host       string
	PrivateKey string
}

// ParseProxyURL parses ssh+socks5://user@host:port?private-key=/path/to/key
// and reads the private key from disk
func ParseProxyURL(allProxy string) (*ProxyConfig, error) {
	allProxy = strings.TrimPrefix(allProxy, "ssh+")

	proxyURL, err := url.Parse(allProxy)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy url: %w", err)
	}
	if proxyURL.Scheme != "socks5" {
		return nil, fmt.Errorf("unsupported proxy scheme %q", proxyURL.Scheme)
	}
	if proxyURL.Host == "" {
		return nil, fmt.Errorf("proxy url missing host")
	}

	queryMap, err := url.ParseQuery(proxyURL.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy query params: %w", err)
	}

	keyPath := queryMap.Get("private-key")
	if keyPath == "" {
		return nil, fmt.Errorf("proxy url missing required 'private-key' query param")
	}
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH private key: %w", err)
	}

	username := ""
	if proxyURL.User != nil {
		username = proxyURL.User.Username()
	}

	return &ProxyConfig{
		Username:   username,
		Host:       proxyURL.Host,
		PrivateKey: string(key),
	}, nil
}

// NewProxyTransport returns a logging transport that dials through the tunnel
func NewProxyTransport(allProxy string) (http.RoundTripper, error) {
	cfg, err := ParseProxyURL(allProxy)
	if err != nil {
		return nil, err
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.Proxy = nil
	base.DialContext = cfg.dialContext()
	return NewLoggingTransport(base), nil
}

func (cfg *ProxyConfig) dialContext() func(ctx context.Context, network, address string) (net.Conn, error) {
	socks5Proxy := proxy.NewSocks5Proxy(proxy.NewHostKey(), log.Default(), 1*time.Minute)

	var (
		dialer proxy.DialFunc
		mut    sync.RWMutex
	)

	return func(ctx context.Context, network, address string) (net.Conn, error) {
		mut.RLock()
		haveDialer := dialer != nil
		mut.RUnlock()

		if haveDialer {
			return dialer(network, address)
		}

		mut.Lock()
		defer mut.Unlock()
		if dialer == nil {
			slog.Debug("Opening SSH tunnel", "host", cfg.Host, "user", cfg.Username)
			proxyDialer, err := socks5Proxy.Dialer(cfg.Username, cfg.PrivateKey, cfg.Host)
			if err != nil {
				return nil, fmt.Errorf("error creating SOCKS5 dialer: %w", err)
			}
			dialer = proxyDialer
		}
		return dialer(network, address)
	}
}
