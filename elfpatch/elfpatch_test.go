package elfpatch

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTable(t *testing.T) {
	tbl := writeFile(t, t.TempDir(), "tbl.csv", "A,41\nB,42\nあ,8281\n")
	table, err := LoadTable(tbl)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(table["A"], []byte{0x41}) {
		t.Fatalf("single-byte code wrong: % X", table["A"])
	}
	if !bytes.Equal(table["あ"], []byte{0x82, 0x81}) {
		t.Fatalf("double-byte code wrong: % X", table["あ"])
	}
}

func TestRunPatchesInPlace(t *testing.T) {
	dir := t.TempDir()
	tbl := writeFile(t, dir, "tbl.csv", "A,41\nB,42\n")
	tr := writeFile(t, dir, "tr.txt",
		"[0001]{4,C}\nSRC:original\nTR:AB\n")

	elfPath := filepath.Join(dir, "game.elf")
	if err := os.WriteFile(elfPath, bytes.Repeat([]byte{0xFF}, 0x20), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Run(tbl, elfPath, tr); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, err := os.ReadFile(elfPath)
	if err != nil {
		t.Fatal(err)
	}
	// "AB" then zero padding across the 8-byte span at 0x4.
	want := append(bytes.Repeat([]byte{0xFF}, 4), 0x41, 0x42, 0, 0, 0, 0, 0, 0)
	want = append(want, bytes.Repeat([]byte{0xFF}, 0x20-0xC)...)
	if !bytes.Equal(got, want) {
		t.Fatalf("patched file:\n% X\nwant:\n% X", got, want)
	}
}

func TestRunSkipsOverlongBlock(t *testing.T) {
	dir := t.TempDir()
	tbl := writeFile(t, dir, "tbl.csv", "A,41\n")
	tr := writeFile(t, dir, "tr.txt",
		"[0001]{0,2}\nSRC:x\nTR:AAAA\n")

	elfPath := filepath.Join(dir, "game.elf")
	orig := bytes.Repeat([]byte{0xFF}, 0x10)
	if err := os.WriteFile(elfPath, orig, 0644); err != nil {
		t.Fatal(err)
	}

	if err := Run(tbl, elfPath, tr); err != nil {
		t.Fatalf("run: %v", err)
	}
	got, err := os.ReadFile(elfPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, orig) {
		t.Fatal("overlong block must leave the file untouched")
	}
}

func TestRunRejectsBadHexOffset(t *testing.T) {
	dir := t.TempDir()
	tbl := writeFile(t, dir, "tbl.csv", "A,41\n")
	tr := writeFile(t, dir, "tr.txt",
		"[0001]{XYZ,10}\nSRC:x\nTR:A\n")

	elfPath := filepath.Join(dir, "game.elf")
	orig := bytes.Repeat([]byte{0xFF}, 0x10)
	if err := os.WriteFile(elfPath, orig, 0644); err != nil {
		t.Fatal(err)
	}

	// An unparsable offset must fail loudly, not default to writing
	// at the start of the executable.
	if err := Run(tbl, elfPath, tr); err == nil {
		t.Fatal("want error for unparsable block offset")
	}
	got, err := os.ReadFile(elfPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, orig) {
		t.Fatal("file touched despite malformed header")
	}
}

func TestRunSkipsUnmappedCharacter(t *testing.T) {
	dir := t.TempDir()
	tbl := writeFile(t, dir, "tbl.csv", "A,41\n")
	tr := writeFile(t, dir, "tr.txt",
		"[0001]{0,4}\nSRC:x\nTR:AZ\n")

	elfPath := filepath.Join(dir, "game.elf")
	orig := bytes.Repeat([]byte{0xFF}, 0x10)
	if err := os.WriteFile(elfPath, orig, 0644); err != nil {
		t.Fatal(err)
	}

	if err := Run(tbl, elfPath, tr); err != nil {
		t.Fatalf("run: %v", err)
	}
	got, err := os.ReadFile(elfPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, orig) {
		t.Fatal("block with unmapped character must be skipped")
	}
}
