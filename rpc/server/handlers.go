package server

import (
	"errors"
	"github.com/ValentinKolb/dFS/lib/textops"
	"github.com/ValentinKolb/dFS/lib/vfs"
	"github.com/ValentinKolb/dFS/rpc/common"
	"github.com/ValentinKolb/dFS/rpc/frame"
	"path"
	"strconv"
	"strings"
)

// handlers implements the commands on top of a filesystem
type handlers struct {
	fs      vfs.IFileSystem
	metrics *serverMetrics
}

// --------------------------------------------------------------------------
// Directory commands
// --------------------------------------------------------------------------

func (h *handlers) cd(req *Request) (Outcome, error) {
	target := h.resolve(req.Dir, req.Args[0])
	if !h.fs.IsDir(target) {
		return Outcome{}, failed("%s is not a directory", target)
	}
	return Outcome{Dir: target}, nil
}

func (h *handlers) mkdir(req *Request) (Outcome, error) {
	target := h.resolve(req.Dir, req.Args[0])
	if err := h.fs.CreateDir(target); err != nil {
		return Outcome{}, failed("create %s: %v", target, err)
	}
	return Outcome{}, nil
}

func (h *handlers) rm(req *Request) (Outcome, error) {
	target := h.resolve(req.Dir, req.Args[0])

	// the current directory (or one of its parents) would vanish under the session
	if target == "/" || req.Dir == target || strings.HasPrefix(req.Dir, target+"/") {
		return Outcome{}, failed("refusing to remove %s, it contains the current directory", target)
	}
	if err := h.fs.RemovePath(target); err != nil {
		return Outcome{}, failed("remove %s: %v", target, err)
	}
	return Outcome{}, nil
}

// --------------------------------------------------------------------------
// Transfers
// --------------------------------------------------------------------------

// upload receives a binary frame and stores it. The frame is always consumed, so
// a failing write does not desynchronize the stream.
func (h *handlers) upload(req *Request) (Outcome, error) {
	f, err := req.Codec.ReadFrame(frame.KindLengthPrefixedBinary)
	if err != nil {
		return Outcome{}, err
	}
	data := f.Payload
	h.metrics.addUpload(len(data))

	target := h.resolve(req.Dir, req.Args[0])
	if err := h.fs.WriteFile(target, data); err != nil {
		return Outcome{}, failed("write %s: %v", target, err)
	}
	return Outcome{}, nil
}

// download sends the file as binary frame. Nothing is sent if the file cannot be read.
func (h *handlers) download(req *Request) (Outcome, error) {
	data, err := h.readFile(req)
	if err != nil {
		return Outcome{}, err
	}
	if err := req.Codec.WriteFrame(frame.Binary(data)); err != nil {
		return Outcome{}, err
	}
	h.metrics.addDownload(len(data))
	return Outcome{}, nil
}

// --------------------------------------------------------------------------
// Text analysis
// --------------------------------------------------------------------------

func (h *handlers) wordCount(req *Request) (Outcome, error) {
	data, err := h.readFile(req)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{}, writeResult(req, strconv.Itoa(textops.WordCount(string(data))))
}

func (h *handlers) wordSort(req *Request) (Outcome, error) {
	data, err := h.readFile(req)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{}, writeResult(req, strings.Join(textops.WordSort(string(data)), "\n"))
}

func (h *handlers) search(req *Request) (Outcome, error) {
	data, err := h.readFile(req)
	if err != nil {
		return Outcome{}, err
	}
	hits := textops.Search(string(data), common.SplitList(req.Args[1]))
	return Outcome{}, writeResult(req, textops.FormatSearch(hits))
}

// split writes the fragments next to the source file as <name>_split_<n>.txt
// and answers with the number of fragments
func (h *handlers) split(req *Request) (Outcome, error) {
	data, err := h.readFile(req)
	if err != nil {
		return Outcome{}, err
	}

	fragments, err := textops.Split(string(data), common.SplitList(req.Args[1]))
	if err != nil {
		return Outcome{}, failed("split %s: %v", req.Args[0], err)
	}

	for i, fragment := range fragments {
		target := h.resolve(req.Dir, textops.SplitFileName(req.Args[0], i+1))
		if err := h.fs.WriteFile(target, []byte(fragment)); err != nil {
			return Outcome{}, failed("write %s: %v", target, err)
		}
	}
	return Outcome{}, writeResult(req, strconv.Itoa(len(fragments)))
}

// --------------------------------------------------------------------------
// Session
// --------------------------------------------------------------------------

func (h *handlers) exit(req *Request) (Outcome, error) {
	if err := req.Codec.WriteText([]byte(common.GoodbyeMessage)); err != nil {
		return Outcome{}, err
	}
	return Outcome{Close: true}, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// resolve returns the absolute path of name relative to dir. The result never
// leaves the filesystem root.
func (h *handlers) resolve(dir, name string) string {
	if path.IsAbs(name) {
		return path.Clean(name)
	}
	return h.fs.Join(dir, name)
}

// readFile reads the file named by the first argument
func (h *handlers) readFile(req *Request) ([]byte, error) {
	target := h.resolve(req.Dir, req.Args[0])
	if h.fs.IsDir(target) {
		return nil, failed("%s is a directory", target)
	}
	data, err := h.fs.ReadFile(target)
	if err != nil {
		return nil, failed("read %s: %v", target, err)
	}
	return data, nil
}

// writeResult sends a result frame. A result containing the session token cannot
// be framed and is dropped like any other local failure.
func writeResult(req *Request, result string) error {
	err := req.Codec.WriteText([]byte(result))
	if errors.Is(err, frame.ErrTokenInPayload) {
		return failed("result contains the session token")
	}
	return err
}
