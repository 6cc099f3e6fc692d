package shell

import (
	"bufio"
	"errors"
	"fmt"
	"github.com/ValentinKolb/dFS/cmd/util"
	"github.com/ValentinKolb/dFS/lib/vfs"
	"github.com/ValentinKolb/dFS/rpc/client"
	"github.com/ValentinKolb/dFS/rpc/common"
	"github.com/ValentinKolb/dFS/rpc/frame"
	"github.com/spf13/cobra"
	"io"
)

// Prompt is printed before every command line
const Prompt = "Enter command (or 'exit' to quit): "

var (
	// ShellCmd starts an interactive session
	ShellCmd = &cobra.Command{
		Use:   "shell",
		Short: "Open an interactive session with a dFS server",
		Long:  `Open an interactive session with a dFS server. Commands are read line by line (mkdir, cd, rm, ul, dl, wordcount, wordsort, search, split, exit). Files of ul and dl are read from and written to the working directory.`,
		Args:  cobra.NoArgs,
		RunE:  run,
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)
	util.SetupClientFlags(ShellCmd)
}

func run(cmd *cobra.Command, _ []string) error {
	local, err := vfs.NewOSFileSystem(".")
	if err != nil {
		return err
	}

	c, err := util.Connect(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Connected to server at %s\n", util.GetClientConfig().Transport.Endpoint)
	fmt.Fprintf(out, "Handshake done. Token is: %s\n", c.Token())
	fmt.Fprintln(out, c.Listing().String())

	return Run(cmd.InOrStdin(), out, c, local)
}

// Run reads command lines from in until exit, the end of in or a connection failure
func Run(in io.Reader, out io.Writer, c *client.Client, local vfs.IFileSystem) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, Prompt)
		if !scanner.Scan() {
			// end of input ends the session like exit
			fmt.Fprintln(out)
			msg, err := c.Exit()
			if err == nil {
				fmt.Fprintln(out, msg)
			}
			return scanner.Err()
		}

		resp, err := c.Exec(scanner.Text(), local)
		switch {
		case errors.Is(err, common.ErrEmptyCommand),
			errors.Is(err, common.ErrUnknownVerb),
			errors.Is(err, common.ErrMissingArgument),
			errors.Is(err, common.ErrUnexpectedArgument):
			fmt.Fprintln(out, "Invalid command. Please try again.")
			continue
		case errors.Is(err, client.ErrNoResult):
			fmt.Fprintf(out, "The server could not run %s\n", resp.Command.Verb)
			fmt.Fprintln(out, resp.Listing.String())
			continue
		case errors.Is(err, client.ErrClosed):
			return nil
		case frame.IsTransportError(err), errors.Is(err, client.ErrUnexpectedResponse):
			return err
		case err != nil:
			// local failures, e.g. a missing upload source
			fmt.Fprintln(out, err)
			if resp != nil {
				fmt.Fprintln(out, resp.Listing.String())
			}
			continue
		}

		if resp.Output != "" {
			fmt.Fprintln(out, resp.Output)
		}
		if resp.Closed {
			fmt.Fprintln(out, "the client has exited")
			return nil
		}
		fmt.Fprintln(out, resp.Listing.String())
	}
}
