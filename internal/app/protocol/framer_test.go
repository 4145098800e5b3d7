package protocol_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/groupdrop/groupdrop/internal/app/protocol"
)

func TestFramer_NextLine(t *testing.T) {
	f := protocol.NewFramer()
	if err := f.Feed([]byte("LOGIN alice pw\r\n")); err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	line, ok := f.NextLine()
	if !ok {
		t.Fatal("expected a complete line")
	}
	if line != "LOGIN alice pw" {
		t.Errorf("line: got %q, want %q", line, "LOGIN alice pw")
	}
	if f.Buffered() != 0 {
		t.Errorf("Buffered: got %d, want 0", f.Buffered())
	}
}

func TestFramer_NoDelimiter(t *testing.T) {
	f := protocol.NewFramer()
	if err := f.Feed([]byte("LOGIN alice")); err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if _, ok := f.NextLine(); ok {
		t.Fatal("got a line without a delimiter")
	}
	if f.Buffered() != len("LOGIN alice") {
		t.Errorf("Buffered: got %d, want %d", f.Buffered(), len("LOGIN alice"))
	}
}

// Feeding byte-by-byte must decode identically to feeding the whole
// message at once, including the leftover payload bytes.
func TestFramer_ByteByByteEquivalence(t *testing.T) {
	msg := []byte("UPLOAD report.txt 5\r\nhello")

	whole := protocol.NewFramer()
	if err := whole.Feed(msg); err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	wholeLine, ok := whole.NextLine()
	if !ok {
		t.Fatal("whole: expected a line")
	}

	single := protocol.NewFramer()
	var singleLine string
	for i, b := range msg {
		if err := single.Feed([]byte{b}); err != nil {
			t.Fatalf("Feed byte %d failed: %v", i, err)
		}
		if line, ok := single.NextLine(); ok && singleLine == "" {
			singleLine = line
		}
	}

	if wholeLine != singleLine {
		t.Errorf("lines differ: whole %q, byte-by-byte %q", wholeLine, singleLine)
	}
	wl := whole.TakeLeftover(16)
	sl := single.TakeLeftover(16)
	if !bytes.Equal(wl, sl) {
		t.Errorf("leftovers differ: whole %q, byte-by-byte %q", wl, sl)
	}
	if string(wl) != "hello" {
		t.Errorf("leftover: got %q, want %q", wl, "hello")
	}
}

func TestFramer_TakeLeftoverPartial(t *testing.T) {
	f := protocol.NewFramer()
	if err := f.Feed([]byte("CMD\r\npayload")); err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if _, ok := f.NextLine(); !ok {
		t.Fatal("expected a line")
	}
	if got := f.TakeLeftover(3); string(got) != "pay" {
		t.Errorf("first take: got %q, want %q", got, "pay")
	}
	if got := f.TakeLeftover(100); string(got) != "load" {
		t.Errorf("second take: got %q, want %q", got, "load")
	}
	if got := f.TakeLeftover(4); got != nil {
		t.Errorf("empty take: got %q, want nil", got)
	}
}

func TestFramer_Overflow(t *testing.T) {
	f := protocol.NewFramer()
	big := bytes.Repeat([]byte("x"), 8192)
	if err := f.Feed(big); err != nil {
		t.Fatalf("Feed at capacity failed: %v", err)
	}
	if err := f.Feed([]byte("y")); !errors.Is(err, protocol.ErrBufferOverflow) {
		t.Fatalf("Feed past capacity: got %v, want ErrBufferOverflow", err)
	}
}

func TestFramer_ReadLine(t *testing.T) {
	f := protocol.NewFramer()
	r := strings.NewReader("LIST_GROUPS\r\nLOGOUT\r\n")

	line, err := f.ReadLine(r)
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if line != "LIST_GROUPS" {
		t.Errorf("first line: got %q", line)
	}
	line, err = f.ReadLine(r)
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if line != "LOGOUT" {
		t.Errorf("second line: got %q", line)
	}
	if _, err := f.ReadLine(r); err == nil {
		t.Fatal("expected error at stream end")
	}
}

func TestFramer_ReadLineOverflow(t *testing.T) {
	f := protocol.NewFramer()
	r := strings.NewReader(strings.Repeat("x", 10000))
	if _, err := f.ReadLine(r); !errors.Is(err, protocol.ErrBufferOverflow) {
		t.Fatalf("got %v, want ErrBufferOverflow", err)
	}
}
