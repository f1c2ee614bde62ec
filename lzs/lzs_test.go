package lzs

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte("a"),
		[]byte("abcabcabcabcabcabcabcabc"),
		bytes.Repeat([]byte{0x00}, 5000),
		append(bytes.Repeat([]byte("pattern "), 600), "tail"...),
	}
	for _, raw := range cases {
		comp := Compress(raw)
		got, err := Decompress(comp, uint32(len(raw)))
		if err != nil {
			t.Fatalf("decompress %d bytes: %v", len(raw), err)
		}
		if !bytes.Equal(got, raw) {
			t.Fatalf("round trip broke %d-byte input", len(raw))
		}
	}
}

// A small alphabet makes near-matches everywhere, so chosen matches
// constantly land next to the dictionary write position. A match whose
// source the decoder has already rewritten mid-copy comes back with
// different bytes than the encoder compared.
func TestRoundTripSmallAlphabet(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 100; trial++ {
		raw := make([]byte, 100+rng.Intn(400))
		for i := range raw {
			raw[i] = byte(rng.Intn(4))
		}
		comp := Compress(raw)
		got, err := Decompress(comp, uint32(len(raw)))
		if err != nil {
			t.Fatalf("trial %d: decompress: %v", trial, err)
		}
		for i := range raw {
			if got[i] != raw[i] {
				t.Fatalf("trial %d: %d-byte input diverges at byte %d: got %#02x want %#02x",
					trial, len(raw), i, got[i], raw[i])
			}
		}
	}
}

func TestRepetitiveInputShrinks(t *testing.T) {
	raw := bytes.Repeat([]byte("ABCD"), 1024)
	if comp := Compress(raw); len(comp) >= len(raw) {
		t.Fatalf("repetitive input grew: %d -> %d", len(raw), len(comp))
	}
}

func TestDecompressTruncatedInput(t *testing.T) {
	comp := Compress([]byte("some longer piece of sample text"))
	if _, err := Decompress(comp[:len(comp)/2], 32); err == nil {
		t.Fatal("want error for truncated stream")
	}
	if _, err := Decompress(nil, 1); err == nil {
		t.Fatal("want error for empty stream")
	}
}
