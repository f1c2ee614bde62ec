package gametext

import (
	"bytes"
	"testing"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec("sjis")
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return c
}

func TestCodecRoundTrip(t *testing.T) {
	c := newTestCodec(t)
	for _, s := range []string{
		"Hello",
		"二行目も\nある",
		"質問{NEW}\n{CHOICE}はい\n{CHOICE}いいえ",
	} {
		b, err := c.Encode(s)
		if err != nil {
			t.Fatalf("encode %q: %v", s, err)
		}
		got, err := c.Decode(b)
		if err != nil {
			t.Fatalf("decode %q: %v", s, err)
		}
		if got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
}

func TestEncodeControlBytes(t *testing.T) {
	c := newTestCodec(t)
	b, err := c.Encode("A\n{CHOICE}B{NEW}\nC")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{'A', ctrlNewline, ctrlChoice, 'B', ctrlPage, 'C'}
	if !bytes.Equal(b, want) {
		t.Fatalf("encoded % X, want % X", b, want)
	}
}

func TestEncodeStripsPosLines(t *testing.T) {
	c := newTestCodec(t)
	b, err := c.Encode("{POS cb}\nHi")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(b, []byte("Hi")) {
		t.Fatalf("directive leaked into game bytes: % X", b)
	}
}

func TestEncodeRejectsUnmappableRune(t *testing.T) {
	c := newTestCodec(t)
	if _, err := c.Encode("price: 10€"); err == nil {
		t.Fatal("want encode error for rune outside the code page")
	}
}

func TestDecodeStopsAtTerminator(t *testing.T) {
	c := newTestCodec(t)
	got, err := c.Decode([]byte{'A', 'B', ctrlEnd, 'C'})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "AB" {
		t.Fatalf("got %q, want %q", got, "AB")
	}
}

func TestUnsupportedCodepage(t *testing.T) {
	if _, err := NewCodec("ebcdic"); err == nil {
		t.Fatal("want error for unknown codepage")
	}
}
