package fs

import (
	"fmt"
	"github.com/ValentinKolb/dFS/rpc/common"
	"github.com/spf13/cobra"
	"strings"
)

var (
	lsCmd = &cobra.Command{
		Use:   "ls",
		Short: "Prints the listing of the remote directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer closeSession()
			fmt.Println(fsClient.Listing().String())
			return nil
		},
	}
	mkdirCmd = &cobra.Command{
		Use:   "mkdir [name]",
		Short: "Creates a directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(common.VerbMkdir, strings.Join(args, " "))
		},
	}
	rmCmd = &cobra.Command{
		Use:   "rm [name]",
		Short: "Removes a file or a directory tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(common.VerbRm, strings.Join(args, " "))
		},
	}
	ulCmd = &cobra.Command{
		Use:   "ul [file]",
		Short: "Uploads a file of the working directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(common.VerbUl, args[0])
		},
	}
	dlCmd = &cobra.Command{
		Use:   "dl [file]",
		Short: "Downloads a file into the working directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(common.VerbDl, args[0])
		},
	}
	wordCountCmd = &cobra.Command{
		Use:   "wordcount [file]",
		Short: "Counts the distinct words of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(common.VerbWordCount, args[0])
		},
	}
	wordSortCmd = &cobra.Command{
		Use:   "wordsort [file]",
		Short: "Prints the distinct words of a file in sorted order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(common.VerbWordSort, args[0])
		},
	}
	searchCmd = &cobra.Command{
		Use:   "search [file] [word...]",
		Short: "Counts the occurrences of words in a file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(common.VerbSearch, args[0], common.JoinList(args[1:]))
		},
	}
	splitCmd = &cobra.Command{
		Use:   "split [file] [separator...]",
		Short: "Splits a file at the separators into numbered fragment files",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(common.VerbSplit, args[0], common.JoinList(args[1:]))
		},
	}
)
