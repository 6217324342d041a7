package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cmdUtil "github.com/ValentinKolb/imgrpc/cmd/util"
	rpcClient "github.com/ValentinKolb/imgrpc/rpc/client"
	"github.com/ValentinKolb/imgrpc/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	clientCmdConfig = &common.ClientConfig{}

	// ClientCmd sends one image to the server and writes the result
	ClientCmd = &cobra.Command{
		Use:   "client",
		Short: "Send an image to the image server",
		Long: `Send an image to the image server, rotate it and optionally apply the mean filter.
The result is written to the output path, its format is taken from the response.
The format of the environment variables is IMGRPC_<flag> (e.g. IMGRPC_READY_TIMEOUT=5)`,
		Example: "imgrpc client --host localhost --port 50051 --input in.jpg --output out.png --rotate NINETY_DEG --mean",
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// add flags
	cmdUtil.SetupTransportFlags(ClientCmd)

	key := "input"
	ClientCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Path of the image that is sent to the server"))

	key = "output"
	ClientCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Path the resulting image is written to"))

	key = "rotate"
	ClientCmd.PersistentFlags().String(key, "", cmdUtil.WrapString(fmt.Sprintf("Rotation to apply, clockwise (one of %v)", common.RotationNames())))

	key = "mean"
	ClientCmd.PersistentFlags().Bool(key, false, cmdUtil.WrapString("Apply the 3x3 mean filter to the rotated image"))

	key = "ready-timeout"
	ClientCmd.PersistentFlags().Int(key, common.DefaultReadyTimeoutSecond, cmdUtil.WrapString("Seconds to wait for the server to become ready, no call is made if it does not"))

	key = "call-timeout"
	ClientCmd.PersistentFlags().Int(key, common.DefaultCallTimeoutSecond, cmdUtil.WrapString("Timeout of a single call in seconds (0 disables the timeout)"))

	key = "serializer"
	ClientCmd.PersistentFlags().String(key, "proto", cmdUtil.WrapString("serializer to use (proto, json, gob)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the client configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	transportConfig, err := cmdUtil.GetTransportConfig()
	if err != nil {
		return err
	}

	rotation, err := common.ParseRotation(viper.GetString("rotate"))
	if err != nil {
		return err
	}

	clientCmdConfig.Transport = transportConfig
	clientCmdConfig.Input = viper.GetString("input")
	clientCmdConfig.Output = viper.GetString("output")
	clientCmdConfig.Rotation = rotation
	clientCmdConfig.Mean = viper.GetBool("mean")
	clientCmdConfig.ReadyTimeoutSecond = viper.GetInt("ready-timeout")
	clientCmdConfig.CallTimeoutSecond = viper.GetInt("call-timeout")
	clientCmdConfig.LogLevel = viper.GetString("log-level")

	if err := clientCmdConfig.Validate(); err != nil {
		return err
	}

	return common.InitLoggers(clientCmdConfig.LogLevel)
}

// run performs one client run and prints a summary of the response
func run(_ *cobra.Command, _ []string) error {
	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	t, err := cmdUtil.GetClientTransport()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rpcClient.Logger.Debugf("%s", clientCmdConfig.String())

	resp, err := rpcClient.Run(ctx, *clientCmdConfig, t, s)
	if err != nil {
		rpcClient.Logger.Errorf("Client run failed: %v", err)
		return err
	}

	fmt.Printf("Response received: Color=%t, Width=%d, Height=%d\n", resp.Color, resp.Width, resp.Height)
	return nil
}
