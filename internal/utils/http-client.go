package utils

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type HTTPClientConfig struct {
	Timeout       time.Duration // zero means no per-request timeout
	KATimeout     time.Duration
	ProxyURL      string
	ProxyUsername string
	ProxyPassword string
	UserAgent     string
	Headers       map[string]string
}

type GribHTTPClient struct {
	client *http.Client
	config HTTPClientConfig
}

func NewGribHTTPClient(cfg HTTPClientConfig) (*GribHTTPClient, error) {
	if cfg.KATimeout == 0 {
		cfg.KATimeout = 90 * time.Second
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		IdleConnTimeout:     cfg.KATimeout,
		MaxIdleConns:        MaxWorkers * 2,
		MaxIdleConnsPerHost: MaxWorkers,
		DisableCompression:  true, // .gz payloads must land on disk untouched
	}
	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		if proxyURL.User == nil && cfg.ProxyUsername != "" {
			if cfg.ProxyPassword != "" {
				proxyURL.User = url.UserPassword(cfg.ProxyUsername, cfg.ProxyPassword)
			} else {
				proxyURL.User = url.User(cfg.ProxyUsername)
			}
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	return &GribHTTPClient{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		config: cfg,
	}, nil
}

func (g *GribHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if g.config.UserAgent != "" {
		req.Header.Set("User-Agent", g.config.UserAgent)
	} else {
		req.Header.Set("User-Agent", ToolUserAgent)
	}
	for k, v := range g.config.Headers {
		req.Header.Set(k, v)
	}
	return g.client.Do(req)
}
