package client

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestProcessConfigRequiresEndpoint(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("rotate", "NONE")

	err := processConfig(ClientCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "--host") {
		t.Errorf("Expected a missing --host error, got %v", err)
	}

	viper.Set("host", "localhost")
	err = processConfig(ClientCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "--port") {
		t.Errorf("Expected a missing --port error, got %v", err)
	}

	// with an endpoint the rotation is checked next
	viper.Set("port", 50051)
	viper.Set("rotate", "NINETY")
	err = processConfig(ClientCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "invalid rotation") {
		t.Errorf("Expected an invalid rotation error, got %v", err)
	}
}
