package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/imgrpc/cmd/client"
	"github.com/ValentinKolb/imgrpc/cmd/serve"
	"github.com/ValentinKolb/imgrpc/cmd/util"
	"github.com/ValentinKolb/imgrpc/rpc/common"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "imgrpc",
		Short: "image processing over gRPC",
		Long: fmt.Sprintf(`imgrpc (v%s)

A small client/server pair written in Go: the client uploads an image with a
requested rotation and an optional mean filter, the server transforms it and
returns the result.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of imgrpc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("imgrpc v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(client.ClientCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix)"))
	key = "socket"
	RootCmd.PersistentFlags().String(key, "", util.WrapString("path of the unix socket (required for the unix transport)"))
	key = "max-message-mb"
	RootCmd.PersistentFlags().Int(key, common.DefaultMaxMessageMB, util.WrapString("maximum size of a single message in MiB"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
