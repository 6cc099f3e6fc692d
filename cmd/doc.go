// Package cmd implements the command-line interface of dFS. It provides a
// hierarchical command structure for running the server and for talking to it
// as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Starts and configures the dFS server
//   - shell: Interactive session (one command per line)
//   - fs: One-shot commands (ls, mkdir, rm, ul, dl, wordcount, wordsort, search, split)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See dfs -help for a list of all commands.
package cmd
