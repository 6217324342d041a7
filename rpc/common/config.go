package common

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator"
)

const (
	// DefaultReadyTimeoutSecond is how long the client waits for the server to become ready
	DefaultReadyTimeoutSecond = 10
	// DefaultCallTimeoutSecond bounds every single RPC issued by the client
	DefaultCallTimeoutSecond = 30
	// DefaultMaxMessageMB is the maximum message size in MiB accepted by both sides
	DefaultMaxMessageMB = 64
)

// validate is shared by both config types, validator.Validate is safe for concurrent use
var validate = validator.New()

// --------------------------------------------------------------------------
// Transport configuration struct
// --------------------------------------------------------------------------

// TransportConfig holds the settings shared by client and server transports
type TransportConfig struct {
	// Host and Port of the TCP endpoint
	Host string `validate:"required_without=Socket"`
	Port int    `validate:"required_without=Socket,min=0,max=65535"`

	// Socket is the path of the unix socket (only for the unix transport)
	Socket string

	// MaxMessageMB limits the size of a single message in MiB
	MaxMessageMB int `validate:"min=1"`
}

// Endpoint returns the address the transport listens on or connects to
func (c TransportConfig) Endpoint() string {
	if c.Socket != "" {
		return c.Socket
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// MaxMessageBytes returns the maximum message size in bytes
func (c TransportConfig) MaxMessageBytes() int {
	return c.MaxMessageMB * 1024 * 1024
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters of the image server.
// It is created once at startup and passed by value afterwards.
type ServerConfig struct {
	Transport TransportConfig

	// Workers is the number of calls handled concurrently
	Workers int `validate:"min=1"`

	// MetricsEndpoint is the address of the operations HTTP server (empty disables it)
	MetricsEndpoint string

	// Logging configuration
	LogLevel string `validate:"oneof=debug info warn warning error"`
}

// Validate checks the configuration for invalid values
func (c ServerConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Transport.Endpoint())
	addField("Workers", strconv.Itoa(c.Workers))
	addField("Max Message Size", fmt.Sprintf("%d MiB", c.Transport.MaxMessageMB))

	// Operations
	addSection("Operations")
	if c.MetricsEndpoint != "" {
		addField("Metrics Endpoint", c.MetricsEndpoint)
	} else {
		addField("Metrics Endpoint", "disabled")
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all parameters of a single client run
type ClientConfig struct {
	Transport TransportConfig

	// Input is the image that is sent to the server, Output where the result is written
	Input  string `validate:"required,file"`
	Output string `validate:"required"`

	// Rotation requested from the server, Mean additionally applies the mean filter
	Rotation Rotation
	Mean     bool

	// ReadyTimeoutSecond bounds the wait for the connection to become ready
	ReadyTimeoutSecond int `validate:"min=1"`
	// CallTimeoutSecond bounds every single RPC (0 disables the timeout)
	CallTimeoutSecond int `validate:"min=0"`

	// Logging configuration
	LogLevel string `validate:"oneof=debug info warn warning error"`
}

// Validate checks the configuration for invalid values
func (c ClientConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid client configuration: %w", err)
	}
	return nil
}

// String returns a formatted string representation of the client configuration
func (c ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Endpoint", c.Transport.Endpoint())
	addField("Ready Timeout", fmt.Sprintf("%d sec", c.ReadyTimeoutSecond))
	if c.CallTimeoutSecond > 0 {
		addField("Call Timeout", fmt.Sprintf("%d sec", c.CallTimeoutSecond))
	} else {
		addField("Call Timeout", "disabled")
	}

	// Job
	addSection("Job")
	addField("Input", c.Input)
	addField("Output", c.Output)
	addField("Rotate", c.Rotation.String())
	addField("Mean", strconv.FormatBool(c.Mean))

	return sb.String()
}
