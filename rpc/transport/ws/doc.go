// Package ws implements a websocket transport of the dFS session protocol with
// gorilla/websocket. The session byte stream is carried in binary messages: each
// Write becomes one message and Read concatenates the received messages, so the
// token framing works unchanged on top of it.
//
// The server side runs an HTTP server on the endpoint and upgrades requests to
// the configured path (DefaultPath if empty). Upgraded connections are handed to
// the base accept loop through a net.Listener adapter.
package ws
