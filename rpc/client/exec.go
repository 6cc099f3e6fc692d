package client

import (
	"fmt"
	"github.com/ValentinKolb/dFS/lib/textops"
	"github.com/ValentinKolb/dFS/lib/vfs"
	"github.com/ValentinKolb/dFS/rpc/common"
	"strings"
)

// Response is the answer to a command line run with Exec
type Response struct {
	Command common.Command
	// Output is the rendered result of the command (empty for directory commands)
	Output string
	// Listing is the directory listing that followed the command
	Listing common.Listing
	// Closed reports that the session has ended
	Closed bool
}

// Exec parses a command line and runs it. Files of ul and dl are read from and
// written to local under the name given in the command.
// Lines that do not parse are returned as error without contacting the server.
func (c *Client) Exec(line string, local vfs.IFileSystem) (*Response, error) {
	cmd, err := common.ParseCommand(line)
	if err != nil {
		return nil, err
	}

	resp := &Response{Command: cmd}
	switch cmd.Verb {
	case common.VerbMkdir:
		resp.Listing, err = c.Mkdir(cmd.Arg(0))

	case common.VerbCd:
		resp.Listing, err = c.Cd(cmd.Arg(0))

	case common.VerbRm:
		resp.Listing, err = c.Rm(cmd.Arg(0))

	case common.VerbUl:
		data, readErr := local.ReadFile(cmd.Arg(0))
		if readErr != nil {
			return nil, fmt.Errorf("failed to read local file %s: %w", cmd.Arg(0), readErr)
		}
		resp.Listing, err = c.Upload(cmd.Arg(0), data)
		if err == nil {
			resp.Output = fmt.Sprintf("Uploaded %s (%d bytes)", cmd.Arg(0), len(data))
		}

	case common.VerbDl:
		var data []byte
		data, resp.Listing, err = c.Download(cmd.Arg(0))
		if err == nil {
			if writeErr := local.WriteFile(cmd.Arg(0), data); writeErr != nil {
				return resp, fmt.Errorf("failed to save downloaded file %s: %w", cmd.Arg(0), writeErr)
			}
			resp.Output = fmt.Sprintf("File downloaded successfully to: %s (%d bytes)", cmd.Arg(0), len(data))
		}

	case common.VerbWordCount:
		var n int
		n, resp.Listing, err = c.WordCount(cmd.Arg(0))
		resp.Output = fmt.Sprintf("Word Count: %d", n)

	case common.VerbWordSort:
		var words []string
		words, resp.Listing, err = c.WordSort(cmd.Arg(0))
		resp.Output = "Sorted Words:\n" + strings.Join(words, "\n")

	case common.VerbSearch:
		var hits []textops.SearchHit
		hits, resp.Listing, err = c.Search(cmd.Arg(0), common.SplitList(cmd.Arg(1)))
		resp.Output = "Search Results:\n" + textops.FormatSearch(hits)

	case common.VerbSplit:
		var n int
		n, resp.Listing, err = c.Split(cmd.Arg(0), common.SplitList(cmd.Arg(1)))
		resp.Output = fmt.Sprintf("Number of splits: %d", n)

	case common.VerbExit:
		resp.Output, err = c.Exit()
		resp.Closed = true
	}

	if err != nil && resp.Command.Verb != common.VerbExit {
		resp.Output = ""
	}
	return resp, err
}
