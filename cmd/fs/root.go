package fs

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dFS/cmd/util"
	"github.com/ValentinKolb/dFS/lib/vfs"
	"github.com/ValentinKolb/dFS/rpc/client"
	"github.com/ValentinKolb/dFS/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"path"
)

var (
	fsClient *client.Client
	local    vfs.IFileSystem

	// FileCommands represents the one-shot file command group
	FileCommands = &cobra.Command{
		Use:               "fs",
		Short:             "Run a single command against a dFS server",
		Long:              `Run a single command against a dFS server. Every command opens a session, optionally changes into --cwd, runs the command, prints the result and the directory listing and ends the session with exit. Files of ul and dl are read from and written to the working directory.`,
		PersistentPreRunE: setupFSClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add client flags to the fs command
	util.SetupClientFlags(FileCommands)

	FileCommands.PersistentFlags().String("cwd", "", util.WrapString("Remote directory to change into before running the command"))

	// Add subcommands
	FileCommands.AddCommand(lsCmd)
	FileCommands.AddCommand(mkdirCmd)
	FileCommands.AddCommand(rmCmd)
	FileCommands.AddCommand(ulCmd)
	FileCommands.AddCommand(dlCmd)
	FileCommands.AddCommand(wordCountCmd)
	FileCommands.AddCommand(wordSortCmd)
	FileCommands.AddCommand(searchCmd)
	FileCommands.AddCommand(splitCmd)
}

// setupFSClient opens the session and changes into the requested directory
func setupFSClient(cmd *cobra.Command, _ []string) error {
	var err error
	if local, err = vfs.NewOSFileSystem("."); err != nil {
		return err
	}

	if fsClient, err = util.Connect(cmd); err != nil {
		return err
	}

	if cwd := viper.GetString("cwd"); cwd != "" {
		l, err := fsClient.Cd(cwd)
		if err != nil {
			_ = fsClient.Close()
			return err
		}
		if l.Path != path.Join("/", cwd) {
			_ = fsClient.Close()
			return fmt.Errorf("remote directory %s does not exist", cwd)
		}
	}
	return nil
}

// execute runs one command, prints its output and the listing and ends the session
func execute(verb common.Verb, args ...string) error {
	defer closeSession()

	resp, err := fsClient.Exec(common.NewCommand(verb, args...).String(), local)
	if errors.Is(err, client.ErrNoResult) {
		fmt.Println(resp.Listing.String())
		return fmt.Errorf("%s failed on the server (no result)", verb)
	}
	if err != nil {
		return err
	}

	if resp.Output != "" {
		fmt.Println(resp.Output)
		fmt.Println()
	}
	fmt.Println(resp.Listing.String())
	return nil
}

// closeSession says goodbye to the server and closes the connection
func closeSession() {
	_, _ = fsClient.Exit()
	_ = fsClient.Close()
}
