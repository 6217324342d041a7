package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validServerConfig() ServerConfig {
	return ServerConfig{
		Transport: TransportConfig{Host: "0.0.0.0", Port: 50051, MaxMessageMB: DefaultMaxMessageMB},
		Workers:   4,
		LogLevel:  "info",
	}
}

func TestServerConfigValidate(t *testing.T) {
	testCases := map[string]struct {
		modify  func(c *ServerConfig)
		wantErr bool
	}{
		"Valid tcp":        {func(c *ServerConfig) {}, false},
		"Valid unix":       {func(c *ServerConfig) { c.Transport = TransportConfig{Socket: "/tmp/img.sock", MaxMessageMB: 1} }, false},
		"Highest port":     {func(c *ServerConfig) { c.Transport.Port = 65535 }, false},
		"Missing host":     {func(c *ServerConfig) { c.Transport.Host = "" }, true},
		"Missing port":     {func(c *ServerConfig) { c.Transport.Port = 0 }, true},
		"Negative port":    {func(c *ServerConfig) { c.Transport.Port = -5 }, true},
		"Port too large":   {func(c *ServerConfig) { c.Transport.Port = 70000 }, true},
		"No message size":  {func(c *ServerConfig) { c.Transport.MaxMessageMB = 0 }, true},
		"No workers":       {func(c *ServerConfig) { c.Workers = 0 }, true},
		"Unknown loglevel": {func(c *ServerConfig) { c.LogLevel = "verbose" }, true},
		"Warn loglevel":    {func(c *ServerConfig) { c.LogLevel = "warn" }, false},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			c := validServerConfig()
			tc.modify(&c)
			err := c.Validate()
			if tc.wantErr && err == nil {
				t.Errorf("Expected an error for %+v", c)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestClientConfigValidate(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	if err := os.WriteFile(input, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	valid := func() ClientConfig {
		return ClientConfig{
			Transport:          TransportConfig{Host: "localhost", Port: 50051, MaxMessageMB: DefaultMaxMessageMB},
			Input:              input,
			Output:             filepath.Join(dir, "out.png"),
			ReadyTimeoutSecond: DefaultReadyTimeoutSecond,
			CallTimeoutSecond:  DefaultCallTimeoutSecond,
			LogLevel:           "info",
		}
	}

	testCases := map[string]struct {
		modify  func(c *ClientConfig)
		wantErr bool
	}{
		"Valid":                 {func(c *ClientConfig) {}, false},
		"Call timeout disabled": {func(c *ClientConfig) { c.CallTimeoutSecond = 0 }, false},
		"Negative call timeout": {func(c *ClientConfig) { c.CallTimeoutSecond = -1 }, true},
		"No ready timeout":      {func(c *ClientConfig) { c.ReadyTimeoutSecond = 0 }, true},
		"Missing input":         {func(c *ClientConfig) { c.Input = "" }, true},
		"Input does not exist":  {func(c *ClientConfig) { c.Input = filepath.Join(dir, "missing.png") }, true},
		"Input is a directory":  {func(c *ClientConfig) { c.Input = dir }, true},
		"Missing output":        {func(c *ClientConfig) { c.Output = "" }, true},
		"Missing endpoint":      {func(c *ClientConfig) { c.Transport = TransportConfig{MaxMessageMB: 1} }, true},
		"Negative port":         {func(c *ClientConfig) { c.Transport.Port = -1 }, true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			tc.modify(&c)
			err := c.Validate()
			if tc.wantErr && err == nil {
				t.Errorf("Expected an error for %+v", c)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestTransportConfigEndpoint(t *testing.T) {
	tcp := TransportConfig{Host: "::1", Port: 50051, MaxMessageMB: 2}
	if tcp.Endpoint() != "[::1]:50051" {
		t.Errorf("Unexpected endpoint %s", tcp.Endpoint())
	}
	if tcp.MaxMessageBytes() != 2*1024*1024 {
		t.Errorf("Unexpected message size %d", tcp.MaxMessageBytes())
	}

	unix := TransportConfig{Host: "ignored", Port: 1, Socket: "/tmp/img.sock"}
	if unix.Endpoint() != "/tmp/img.sock" {
		t.Errorf("Unexpected endpoint %s", unix.Endpoint())
	}
}

func TestConfigString(t *testing.T) {
	s := validServerConfig().String()
	for _, expected := range []string{"RPC SERVER", "0.0.0.0:50051", "disabled", "info"} {
		if !strings.Contains(s, expected) {
			t.Errorf("Expected %q in %s", expected, s)
		}
	}
}
