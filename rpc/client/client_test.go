package client

import (
	"context"
	"errors"
	"github.com/ValentinKolb/dFS/lib/textops"
	"github.com/ValentinKolb/dFS/lib/vfs"
	"github.com/ValentinKolb/dFS/rpc/common"
	"github.com/ValentinKolb/dFS/rpc/frame"
	"github.com/ValentinKolb/dFS/rpc/server"
	"github.com/ValentinKolb/dFS/rpc/transport"
	"github.com/ValentinKolb/dFS/rpc/transport/tcp"
	"github.com/ValentinKolb/dFS/rpc/transport/ws"
	"net"
	"reflect"
	"testing"
	"time"
)

// startServer runs a server on loopback and returns a client config for it
func startServer(t *testing.T, fs vfs.IFileSystem, st transport.IServerTransport) common.ClientConfig {
	t.Helper()

	s := server.NewServer(common.ServerConfig{
		Transport: common.TransportConfig{Endpoint: "127.0.0.1:0"},
		ChunkSize: frame.DefaultChunkSize,
	}, st, fs)
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Errorf("Server did not stop")
		}
	})

	return common.ClientConfig{
		Transport:     common.TransportConfig{Endpoint: s.Addr().String()},
		TimeoutSecond: 1,
		ChunkSize:     frame.DefaultChunkSize,
	}
}

func connect(t *testing.T, config common.ClientConfig, ct transport.IClientTransport) *Client {
	t.Helper()
	c, err := Connect(config, ct)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestConnect(t *testing.T) {
	fs := vfs.NewMemFileSystem()
	_ = fs.CreateDir("/docs")
	c := connect(t, startServer(t, fs, tcp.NewTCPServerTransport()), tcp.NewTCPClientTransport())

	if _, err := frame.ParseToken(c.Token().Bytes()); err != nil {
		t.Errorf("Expected a valid token, got %s: %v", c.Token(), err)
	}
	l := c.Listing()
	if l.Path != "/" || !reflect.DeepEqual(l.Dirs, []string{"docs"}) {
		t.Errorf("Expected root listing with docs, got %+v", l)
	}
}

func TestOperations(t *testing.T) {
	transports := map[string]struct {
		server transport.IServerTransport
		client transport.IClientTransport
	}{
		"tcp": {tcp.NewTCPServerTransport(), tcp.NewTCPClientTransport()},
		"ws":  {ws.NewWSServerTransport(), ws.NewWSClientTransport()},
	}

	for name, tr := range transports {
		t.Run(name, func(t *testing.T) {
			fs := vfs.NewMemFileSystem()
			c := connect(t, startServer(t, fs, tr.server), tr.client)

			l, err := c.Mkdir("work")
			if err != nil || !reflect.DeepEqual(l.Dirs, []string{"work"}) {
				t.Fatalf("Mkdir: expected [work], got %v (%v)", l.Dirs, err)
			}

			l, err = c.Cd("work")
			if err != nil || l.Path != "/work" {
				t.Fatalf("Cd: expected /work, got %s (%v)", l.Path, err)
			}

			l, err = c.Upload("a.txt", []byte("A a a b"))
			if err != nil || !reflect.DeepEqual(l.Files, []string{"a.txt"}) {
				t.Fatalf("Upload: expected [a.txt], got %v (%v)", l.Files, err)
			}
			if data, _ := fs.ReadFile("/work/a.txt"); string(data) != "A a a b" {
				t.Errorf("Expected uploaded content, got %q", data)
			}

			n, _, err := c.WordCount("a.txt")
			if err != nil || n != 2 {
				t.Errorf("WordCount: expected 2, got %d (%v)", n, err)
			}

			words, _, err := c.WordSort("a.txt")
			if err != nil || !reflect.DeepEqual(words, []string{"a", "b"}) {
				t.Errorf("WordSort: expected [a b], got %v (%v)", words, err)
			}

			hits, _, err := c.Search("a.txt", []string{"a", "b", "c"})
			want := []textops.SearchHit{{Word: "a", Count: 3}, {Word: "b", Count: 1}, {Word: "c", Count: 0}}
			if err != nil || !reflect.DeepEqual(hits, want) {
				t.Errorf("Search: expected %v, got %v (%v)", want, hits, err)
			}

			_, _ = c.Upload("s.txt", []byte("a-b--c"))
			n, l, err = c.Split("s.txt", []string{"-"})
			if err != nil || n != 3 {
				t.Errorf("Split: expected 3, got %d (%v)", n, err)
			}
			if len(l.Files) != 5 {
				t.Errorf("Split: expected 5 files, got %v", l.Files)
			}

			token := c.Token().Bytes()
			payload := append(append([]byte("x"), token...), 0, 255)
			if _, err := c.Upload("t.bin", payload); err != nil {
				t.Fatalf("Upload failed: %v", err)
			}
			data, _, err := c.Download("t.bin")
			if err != nil || string(data) != string(payload) {
				t.Errorf("Download: expected %q, got %q (%v)", payload, data, err)
			}

			l, err = c.Rm("t.bin")
			if err != nil {
				t.Errorf("Rm failed: %v", err)
			}
			for _, f := range l.Files {
				if f == "t.bin" {
					t.Errorf("Expected t.bin to be removed")
				}
			}

			msg, err := c.Exit()
			if err != nil || msg != common.GoodbyeMessage {
				t.Errorf("Exit: expected %q, got %q (%v)", common.GoodbyeMessage, msg, err)
			}
			if _, err := c.Mkdir("late"); !errors.Is(err, ErrClosed) {
				t.Errorf("Expected ErrClosed after exit, got %v", err)
			}
		})
	}
}

func TestSwallowedResults(t *testing.T) {
	c := connect(t, startServer(t, vfs.NewMemFileSystem(), tcp.NewTCPServerTransport()), tcp.NewTCPClientTransport())

	if _, l, err := c.WordCount("missing.txt"); !errors.Is(err, ErrNoResult) || l.Path != "/" {
		t.Errorf("WordCount: expected ErrNoResult with listing, got %v (%+v)", err, l)
	}
	if _, l, err := c.Download("missing.txt"); !errors.Is(err, ErrNoResult) || l.Path != "/" {
		t.Errorf("Download: expected ErrNoResult with listing, got %v (%+v)", err, l)
	}
	if _, _, err := c.Split("missing.txt", []string{","}); !errors.Is(err, ErrNoResult) {
		t.Errorf("Split: expected ErrNoResult, got %v", err)
	}

	// the stream is still in sync
	if l, err := c.Mkdir("ok"); err != nil || !reflect.DeepEqual(l.Dirs, []string{"ok"}) {
		t.Errorf("Expected [ok], got %v (%v)", l.Dirs, err)
	}
}

func TestDownloadAboveLimitEndsSession(t *testing.T) {
	fs := vfs.NewMemFileSystem()
	_ = fs.WriteFile("/big.bin", make([]byte, 4096))

	config := startServer(t, fs, tcp.NewTCPServerTransport())
	config.MaxTransferBytes = 100
	c := connect(t, config, tcp.NewTCPClientTransport())

	_, _, err := c.Download("big.bin")
	if !errors.Is(err, frame.ErrTooLarge) || !frame.IsTransportError(err) {
		t.Fatalf("Expected a fatal ErrTooLarge, got %v", err)
	}

	// the announced bytes were never read, the client must not reuse the stream
	if _, err := c.Mkdir("x"); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
	if fs.Exists("/x") {
		t.Errorf("Expected mkdir not to reach the server")
	}
}

func TestPunctuationOnlyWords(t *testing.T) {
	fs := vfs.NewMemFileSystem()
	_ = fs.WriteFile("/p.txt", []byte("hello ... world"))
	c := connect(t, startServer(t, fs, tcp.NewTCPServerTransport()), tcp.NewTCPClientTransport())

	if n, _, err := c.WordCount("p.txt"); err != nil || n != 3 {
		t.Errorf("WordCount: expected 3, got %d (%v)", n, err)
	}
	if words, _, err := c.WordSort("p.txt"); err != nil || !reflect.DeepEqual(words, []string{"", "hello", "world"}) {
		t.Errorf("WordSort: expected [\"\" hello world], got %q (%v)", words, err)
	}
}

func TestInvalidCommandsAreNotSent(t *testing.T) {
	c := connect(t, startServer(t, vfs.NewMemFileSystem(), tcp.NewTCPServerTransport()), tcp.NewTCPClientTransport())

	if _, _, err := c.Search("f.txt", []string{"two words"}); !errors.Is(err, common.ErrMissingArgument) {
		t.Errorf("Expected ErrMissingArgument, got %v", err)
	}
	if _, err := c.Mkdir(" "); !errors.Is(err, common.ErrMissingArgument) {
		t.Errorf("Expected ErrMissingArgument, got %v", err)
	}
	if _, err := c.Exec("bogus", vfs.NewMemFileSystem()); !errors.Is(err, common.ErrUnknownVerb) {
		t.Errorf("Expected ErrUnknownVerb, got %v", err)
	}
	if _, err := c.Exec("exit now", vfs.NewMemFileSystem()); !errors.Is(err, common.ErrUnexpectedArgument) {
		t.Errorf("Expected ErrUnexpectedArgument, got %v", err)
	}
	if _, err := c.Exec("  ", vfs.NewMemFileSystem()); !errors.Is(err, common.ErrEmptyCommand) {
		t.Errorf("Expected ErrEmptyCommand, got %v", err)
	}

	if l, err := c.Mkdir("fine"); err != nil || !reflect.DeepEqual(l.Dirs, []string{"fine"}) {
		t.Errorf("Expected [fine], got %v (%v)", l.Dirs, err)
	}
}

func TestExec(t *testing.T) {
	remote := vfs.NewMemFileSystem()
	local := vfs.NewMemFileSystem()
	_ = local.WriteFile("/notes.txt", []byte("Go go GO, rust."))

	c := connect(t, startServer(t, remote, tcp.NewTCPServerTransport()), tcp.NewTCPClientTransport())

	resp, err := c.Exec("ul notes.txt", local)
	if err != nil || !reflect.DeepEqual(resp.Listing.Files, []string{"notes.txt"}) {
		t.Fatalf("ul: expected [notes.txt], got %+v (%v)", resp, err)
	}

	resp, err = c.Exec("search notes.txt go,rust", local)
	if err != nil || resp.Output != "Search Results:\ngo: 3\nrust: 1" {
		t.Errorf("search: unexpected output %q (%v)", resp.Output, err)
	}

	_ = local.RemovePath("/notes.txt")
	if _, err := c.Exec("dl notes.txt", local); err != nil {
		t.Fatalf("dl failed: %v", err)
	}
	if data, err := local.ReadFile("/notes.txt"); err != nil || string(data) != "Go go GO, rust." {
		t.Errorf("Expected downloaded file, got %q (%v)", data, err)
	}

	if _, err := c.Exec("ul nothere.txt", local); err == nil {
		t.Errorf("Expected error for missing local file")
	}

	resp, err = c.Exec("exit", local)
	if err != nil || !resp.Closed || resp.Output != common.GoodbyeMessage {
		t.Errorf("exit: unexpected response %+v (%v)", resp, err)
	}
}

func TestIncompleteHandshake(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		_, _ = conn.Write([]byte("<abc"))
		_ = conn.Close()
	}()

	_, err = Connect(common.ClientConfig{
		Transport:     common.TransportConfig{Endpoint: ln.Addr().String()},
		TimeoutSecond: 1,
	}, tcp.NewTCPClientTransport())
	if !errors.Is(err, frame.ErrHandshake) {
		t.Errorf("Expected ErrHandshake, got %v", err)
	}
}

func TestRetryReaderSurvivesTimeouts(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	go func() {
		time.Sleep(100 * time.Millisecond)
		_, _ = serverConn.Write([]byte("slow"))
	}()

	r := &retryReader{conn: clientConn, timeout: 10 * time.Millisecond}
	buf := make([]byte, 4)
	n, err := r.Read(buf)
	if err != nil || string(buf[:n]) != "slow" {
		t.Errorf("Expected slow, got %q (%v)", buf[:n], err)
	}
}

func TestParseSearch(t *testing.T) {
	hits, err := parseSearch("a: 3\nb: 1")
	if err != nil || !reflect.DeepEqual(hits, []textops.SearchHit{{Word: "a", Count: 3}, {Word: "b", Count: 1}}) {
		t.Errorf("Unexpected hits %v (%v)", hits, err)
	}
	if _, err := parseSearch("garbage"); !errors.Is(err, ErrUnexpectedResponse) {
		t.Errorf("Expected ErrUnexpectedResponse, got %v", err)
	}
}
