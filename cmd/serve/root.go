package serve

import (
	"context"
	"errors"
	"fmt"
	cmdUtil "github.com/ValentinKolb/dFS/cmd/util"
	"github.com/ValentinKolb/dFS/lib/vfs"
	"github.com/ValentinKolb/dFS/rpc/common"
	"github.com/ValentinKolb/dFS/rpc/frame"
	"github.com/ValentinKolb/dFS/rpc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"os/signal"
	"syscall"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the dFS server",
		Long:    `Start the dFS server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is DFS_<flag> (e.g. DFS_SETTLE_DELAY=500)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, fmt.Sprintf("0.0.0.0:%d", cmdUtil.DefaultPort), cmdUtil.WrapString("The address on which the server will listen (e.g. 0.0.0.0:65432, /tmp/dfs.sock, ...)"))

	key = "root"
	ServeCmd.PersistentFlags().String(key, ".", cmdUtil.WrapString("The directory exposed to the clients as '/'. Sessions can not leave it"))

	key = "settle-delay"
	ServeCmd.PersistentFlags().Int64(key, 1000, cmdUtil.WrapString("The pause in milliseconds between a command and the next directory listing"))

	key = "chunk-size"
	ServeCmd.PersistentFlags().Int(key, frame.DefaultChunkSize, cmdUtil.WrapString("The size of a single read from a connection (in bytes)"))

	key = "max-transfer"
	ServeCmd.PersistentFlags().Int(key, 1024, cmdUtil.WrapString("The largest file that may be uploaded (in MiB, 0 = unlimited)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("The address of the HTTP endpoint exposing /metrics (e.g. 127.0.0.1:9100). Disabled if empty"))

	key = "stats-interval"
	ServeCmd.PersistentFlags().Int64(key, 0, cmdUtil.WrapString("How often to log command rates and latencies (in seconds, 0 = never)"))

	cmdUtil.SetupTransportFlags(ServeCmd)
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	serveCmdConfig.Transport = cmdUtil.GetTransportConfig()
	serveCmdConfig.Root = viper.GetString("root")
	serveCmdConfig.SettleDelayMillisecond = viper.GetInt64("settle-delay")
	serveCmdConfig.ChunkSize = viper.GetInt("chunk-size")
	serveCmdConfig.MaxTransferBytes = viper.GetInt("max-transfer") * 1024 * 1024
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.StatsIntervalSecond = viper.GetInt64("stats-interval")

	if serveCmdConfig.SettleDelayMillisecond < 0 {
		return errors.New("settle-delay must not be negative")
	}
	if serveCmdConfig.ChunkSize <= 0 {
		return errors.New("chunk-size must be positive")
	}

	return common.InitLoggers(serveCmdConfig.LogLevel)
}

// run starts the dFS server and blocks until it is interrupted
func run(_ *cobra.Command, _ []string) error {
	t, err := cmdUtil.GetServerTransport()
	if err != nil {
		return err
	}

	fs, err := vfs.NewOSFileSystem(serveCmdConfig.Root)
	if err != nil {
		return err
	}

	serv := server.NewServer(*serveCmdConfig, t, fs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serv.Serve(ctx)
}
