package cmd

import (
	"fmt"
	"github.com/ValentinKolb/dFS/cmd/fs"
	"github.com/ValentinKolb/dFS/cmd/serve"
	"github.com/ValentinKolb/dFS/cmd/shell"
	"github.com/ValentinKolb/dFS/cmd/util"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dfs",
		Short: "remote file session server",
		Long: fmt.Sprintf(`dFS (v%s)

A remote file server written in Go. Clients open a session, walk and
modify a shared directory tree, transfer files and run text analysis
(word count, word sort, search, split) on the server.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dFS",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dFS v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(shell.ShellCmd)
	RootCmd.AddCommand(fs.FileCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix, ws)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
