package frame

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

var testToken = Token{'<', 'a', 'B', 'c', '1', '2', '3', 'x', 'Y', '>'}

// chunkedReader returns the underlying data in reads of at most the given sizes.
// Once the sizes are used up it returns the rest in one read.
type chunkedReader struct {
	data  []byte
	sizes []int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := len(r.data)
	if len(r.sizes) > 0 {
		n = min(n, r.sizes[0])
		r.sizes = r.sizes[1:]
	}
	n = copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

// fixedChunks returns a reader delivering data in chunks of size k
func fixedChunks(data []byte, k int) *chunkedReader {
	var sizes []int
	for i := 0; i < len(data); i += k {
		sizes = append(sizes, k)
	}
	return &chunkedReader{data: data, sizes: sizes}
}

// TestReadDelimitedTextAnyChunking decodes payload+token+rest under every fixed chunk size
func TestReadDelimitedTextAnyChunking(t *testing.T) {
	payload := []byte("mkdir some directory with <angle> brackets")
	rest := []byte("next frame bytes")
	stream := append(append(append([]byte{}, payload...), testToken[:]...), rest...)

	for k := 1; k <= len(stream); k++ {
		r := fixedChunks(stream, k)
		got, leftover, err := ReadDelimitedText(r, testToken, nil, 4096)
		if err != nil {
			t.Fatalf("chunk size %d: unexpected error: %v", k, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("chunk size %d: expected payload %q, got %q", k, payload, got)
		}

		// leftover plus unread stream must be exactly the rest
		unread, _ := io.ReadAll(r)
		if remainder := append(append([]byte{}, leftover...), unread...); !bytes.Equal(remainder, rest) {
			t.Fatalf("chunk size %d: expected remainder %q, got %q", k, rest, remainder)
		}
	}
}

// TestReadDelimitedTextStraddlingToken splits the stream into two reads at every position
func TestReadDelimitedTextStraddlingToken(t *testing.T) {
	payload := []byte("wordcount notes.txt")
	stream := append(append([]byte{}, payload...), testToken[:]...)

	for i := 1; i < len(stream); i++ {
		r := &chunkedReader{data: stream, sizes: []int{i, len(stream) - i}}
		got, leftover, err := ReadDelimitedText(r, testToken, nil, 64)
		if err != nil {
			t.Fatalf("split at %d: unexpected error: %v", i, err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("split at %d: expected %q, got %q", i, payload, got)
		}
		if len(leftover) != 0 {
			t.Errorf("split at %d: expected empty leftover, got %q", i, leftover)
		}
	}
}

func TestReadDelimitedTextCoalescedFrames(t *testing.T) {
	var stream bytes.Buffer
	frames := []string{"first", "", "third frame"}
	for _, f := range frames {
		stream.WriteString(f)
		stream.Write(testToken[:])
	}

	// everything arrives in one read
	r := &chunkedReader{data: stream.Bytes()}
	var leftover []byte
	for i, want := range frames {
		var got []byte
		var err error
		got, leftover, err = ReadDelimitedText(r, testToken, leftover, 4096)
		if err != nil {
			t.Fatalf("frame %d: unexpected error: %v", i, err)
		}
		if string(got) != want {
			t.Errorf("frame %d: expected %q, got %q", i, want, got)
		}
	}
	if len(leftover) != 0 {
		t.Errorf("Expected no leftover, got %q", leftover)
	}
}

func TestReadDelimitedTextUsesLeftoverFirst(t *testing.T) {
	leftover := append([]byte("buffered"), testToken[:]...)
	r := &chunkedReader{data: []byte("never read")}

	got, rest, err := ReadDelimitedText(r, testToken, leftover, 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(got) != "buffered" || len(rest) != 0 {
		t.Errorf("Expected payload from leftover, got %q rest %q", got, rest)
	}
	if len(r.data) != len("never read") {
		t.Errorf("Stream should not be read when leftover holds a full frame")
	}
}

func TestReadDelimitedTextTruncated(t *testing.T) {
	t.Run("Partial", func(t *testing.T) {
		r := &chunkedReader{data: []byte("partial<aBc")}
		got, _, err := ReadDelimitedText(r, testToken, nil, 3)
		if !errors.Is(err, ErrTruncated) {
			t.Fatalf("Expected ErrTruncated, got %v", err)
		}
		if string(got) != "partial<aBc" {
			t.Errorf("Expected accumulated bytes, got %q", got)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		_, _, err := ReadDelimitedText(&chunkedReader{}, testToken, nil, 3)
		if !errors.Is(err, io.EOF) {
			t.Fatalf("Expected io.EOF, got %v", err)
		}
	})
}

func TestReadExact(t *testing.T) {
	t.Run("FromLeftoverOnly", func(t *testing.T) {
		data, rest, err := ReadExact(&chunkedReader{}, []byte("abcdef"), 4)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if string(data) != "abcd" || string(rest) != "ef" {
			t.Errorf("Expected abcd/ef, got %q/%q", data, rest)
		}
	})

	t.Run("LeftoverThenStream", func(t *testing.T) {
		r := fixedChunks([]byte("defghij"), 2)
		data, rest, err := ReadExact(r, []byte("abc"), 7)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if string(data) != "abcdefg" || len(rest) != 0 {
			t.Errorf("Expected abcdefg, got %q rest %q", data, rest)
		}
	})

	t.Run("ShortRead", func(t *testing.T) {
		_, _, err := ReadExact(&chunkedReader{data: []byte("ab")}, []byte("x"), 10)
		if !errors.Is(err, ErrShortRead) {
			t.Fatalf("Expected ErrShortRead, got %v", err)
		}
	})
}

func TestParseLength(t *testing.T) {
	if n, err := ParseLength([]byte(" 42\n")); err != nil || n != 42 {
		t.Errorf("Expected 42, got %d (%v)", n, err)
	}
	for _, bad := range []string{"", "-1", "abc", "Current Directory: /"} {
		if _, err := ParseLength([]byte(bad)); !errors.Is(err, ErrBadLength) {
			t.Errorf("Expected ErrBadLength for %q, got %v", bad, err)
		}
	}
}
