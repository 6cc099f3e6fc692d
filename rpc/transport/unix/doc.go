// Package unix implements the Unix domain socket transport of the dFS session
// protocol. The endpoint is the socket path, an existing socket file is removed
// before listening.
package unix
