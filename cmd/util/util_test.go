package util

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 40)
	for _, line := range strings.Split(WrapString(text), "\n") {
		if len(line) > Wrap {
			t.Errorf("Line exceeds %d characters: %q", Wrap, line)
		}
	}
	if WrapString("") != "" {
		t.Error("Expected an empty string")
	}
}

func TestGetTransportConfig(t *testing.T) {
	testCases := map[string]struct {
		values   map[string]any
		endpoint string
		wantErr  bool
	}{
		"tcp":              {map[string]any{"transport": "tcp", "host": "localhost", "port": 4000}, "localhost:4000", false},
		"tcp without host": {map[string]any{"transport": "tcp", "port": 4000}, "", true},
		"tcp without port": {map[string]any{"transport": "tcp", "host": "localhost"}, "", true},
		"tcp port zero":    {map[string]any{"transport": "tcp", "host": "localhost", "port": 0}, "", true},
		"nothing set":      {map[string]any{}, "", true},
		"unix":             {map[string]any{"transport": "unix", "socket": "/tmp/test.sock", "host": "ignored"}, "/tmp/test.sock", false},
		"unix only host":   {map[string]any{"transport": "unix", "host": "localhost", "port": 4000}, "", true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			viper.Reset()
			defer viper.Reset()
			viper.Set("max-message-mb", 8)
			for key, value := range tc.values {
				viper.Set(key, value)
			}

			conf, err := GetTransportConfig()
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected an error, got %+v", conf)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetTransportConfig failed: %v", err)
			}
			if conf.Endpoint() != tc.endpoint {
				t.Errorf("Expected endpoint %s, got %s", tc.endpoint, conf.Endpoint())
			}
			if conf.MaxMessageBytes() != 8*1024*1024 {
				t.Errorf("Unexpected message size %d", conf.MaxMessageBytes())
			}
		})
	}
}

func TestFactories(t *testing.T) {
	defer viper.Reset()

	for _, name := range []string{"proto", "json", "gob"} {
		viper.Set("serializer", name)
		s, err := GetSerializer()
		if err != nil || s.Name() != name {
			t.Errorf("Expected serializer %s, got %v (%v)", name, s, err)
		}
	}
	viper.Set("serializer", "binary")
	if _, err := GetSerializer(); err == nil {
		t.Error("Expected an error for an unknown serializer")
	}

	for _, name := range []string{"tcp", "unix"} {
		viper.Set("transport", name)
		if _, err := GetServerTransport(); err != nil {
			t.Errorf("GetServerTransport(%s) failed: %v", name, err)
		}
		if _, err := GetClientTransport(); err != nil {
			t.Errorf("GetClientTransport(%s) failed: %v", name, err)
		}
	}
	viper.Set("transport", "http")
	if _, err := GetClientTransport(); err == nil {
		t.Error("Expected an error for an unknown transport")
	}
}
