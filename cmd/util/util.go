package util

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/imgrpc/rpc/common"
	"github.com/ValentinKolb/imgrpc/rpc/serializer"
	"github.com/ValentinKolb/imgrpc/rpc/transport"
	"github.com/ValentinKolb/imgrpc/rpc/transport/tcp"
	"github.com/ValentinKolb/imgrpc/rpc/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupTransportFlags adds the endpoint flags shared by the server and the client
// Both are required for the tcp transport, there is no default endpoint
func SetupTransportFlags(cmd *cobra.Command) {
	key := "host"
	cmd.PersistentFlags().String(key, "", WrapString("Host of the TCP endpoint (required for the tcp transport, e.g. localhost)"))

	key = "port"
	cmd.PersistentFlags().Int(key, 0, WrapString("Port of the TCP endpoint (required for the tcp transport, e.g. 50051)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("imgrpc")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetTransportConfig reads the transport configuration from viper.
// The endpoint must be given explicitly: --host and --port for the tcp transport,
// --socket for the unix transport (or the matching IMGRPC_ variables).
func GetTransportConfig() (common.TransportConfig, error) {
	conf := common.TransportConfig{
		MaxMessageMB: viper.GetInt("max-message-mb"),
	}

	switch viper.GetString("transport") {
	case "unix":
		conf.Socket = viper.GetString("socket")
		if conf.Socket == "" {
			return conf, fmt.Errorf("--socket is required for the unix transport")
		}
	default:
		conf.Host = viper.GetString("host")
		conf.Port = viper.GetInt("port")
		if conf.Host == "" {
			return conf, fmt.Errorf("--host is required for the tcp transport")
		}
		if !viper.IsSet("port") || conf.Port == 0 {
			return conf, fmt.Errorf("--port is required for the tcp transport")
		}
	}

	return conf, nil
}

// GetSerializer creates a serializer based on configuration
func GetSerializer() (serializer.IRPCSerializer, error) {
	return serializer.ByName(viper.GetString("serializer"))
}

// GetServerTransport creates the server transport based on configuration
func GetServerTransport() (transport.IRPCServerTransport, error) {
	switch viper.GetString("transport") {
	case "tcp":
		return tcp.NewTCPServerTransport(), nil
	case "unix":
		return unix.NewUnixServerTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// GetClientTransport creates the client transport based on configuration
func GetClientTransport() (transport.IRPCClientTransport, error) {
	switch viper.GetString("transport") {
	case "tcp":
		return tcp.NewTCPClientTransport(), nil
	case "unix":
		return unix.NewUnixClientTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}
