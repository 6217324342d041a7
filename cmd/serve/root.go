package serve

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cmdUtil "github.com/ValentinKolb/imgrpc/cmd/util"
	"github.com/ValentinKolb/imgrpc/rpc/common"
	"github.com/ValentinKolb/imgrpc/rpc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the image server",
		Long:    `Start the image server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is IMGRPC_<flag> (e.g. IMGRPC_WORKERS=8)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// add flags
	cmdUtil.SetupTransportFlags(ServeCmd)

	key := "workers"
	ServeCmd.PersistentFlags().Int(key, 2*runtime.NumCPU(), cmdUtil.WrapString("Workers is the number of calls that are handled concurrently"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("The address of the operations HTTP server serving /metrics and /healthz (e.g. localhost:9090). Disabled if empty"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	// read the configuration from the command line flags and environment variables
	transportConfig, err := cmdUtil.GetTransportConfig()
	if err != nil {
		return err
	}
	serveCmdConfig.Transport = transportConfig
	serveCmdConfig.Workers = viper.GetInt("workers")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	if err := serveCmdConfig.Validate(); err != nil {
		return err
	}

	return common.InitLoggers(serveCmdConfig.LogLevel)
}

// run starts the image server and blocks until SIGINT or SIGTERM is received
func run(_ *cobra.Command, _ []string) error {
	t, err := cmdUtil.GetServerTransport()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
	)

	return serv.Serve(ctx)
}
