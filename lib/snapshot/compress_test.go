// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestCompressionTagString(t *testing.T) {
	tests := []struct {
		tag  CompressionTag
		want string
	}{
		{CompressionNone, "none"},
		{CompressionLZ4, "lz4"},
		{CompressionZstd, "zstd"},
		{CompressionTag(99), "unknown(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := tt.tag.String()
			if got != tt.want {
				t.Errorf("CompressionTag(%d).String() = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestParseCompressionTag(t *testing.T) {
	for _, name := range []string{"none", "lz4", "zstd"} {
		t.Run(name, func(t *testing.T) {
			tag, err := ParseCompressionTag(name)
			if err != nil {
				t.Fatalf("ParseCompressionTag(%q) failed: %v", name, err)
			}
			if tag.String() != name {
				t.Errorf("roundtrip: ParseCompressionTag(%q).String() = %q", name, tag.String())
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		if _, err := ParseCompressionTag("gzip"); err == nil {
			t.Error("ParseCompressionTag(\"gzip\") should fail")
		}
	})
}

func TestCompressDecompressNone(t *testing.T) {
	data := []byte("uncompressed data should pass through unchanged")

	compressed, err := Compress(data, CompressionNone)
	if err != nil {
		t.Fatalf("Compress(none) failed: %v", err)
	}

	// For CompressionNone, the output should be the same slice.
	if &compressed[0] != &data[0] {
		t.Error("CompressionNone should return the same slice, not a copy")
	}

	decompressed, err := Decompress(compressed, CompressionNone, len(data))
	if err != nil {
		t.Fatalf("Decompress(none) failed: %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Error("none compression roundtrip failed")
	}
}

func TestDecompressNoneSizeMismatch(t *testing.T) {
	data := []byte("five bytes extra")

	if _, err := Decompress(data, CompressionNone, len(data)+5); err == nil {
		t.Error("Decompress(none) should fail when size does not match")
	}
}

// rosterLikeDocument builds compressible input shaped like a real
// roster: repetitive markdown headers plus embedded JSON.
func rosterLikeDocument(size int) []byte {
	section := []byte("### 2) Systems Skeptic\n- **Role:** Architecture review\n" +
		`{"name": "Systems Skeptic", "weight": 0.50, "ledger": {"warnings": []}}` + "\n")
	document := make([]byte, 0, size)
	for len(document) < size {
		document = append(document, section...)
	}
	return document
}

func TestCompressDecompressLZ4(t *testing.T) {
	data := rosterLikeDocument(64 * 1024)

	compressed, err := Compress(data, CompressionLZ4)
	if err != nil {
		t.Fatalf("Compress(lz4) failed: %v", err)
	}
	if len(compressed) >= len(data) {
		t.Errorf("LZ4 did not compress: %d bytes to %d bytes", len(data), len(compressed))
	}

	decompressed, err := Decompress(compressed, CompressionLZ4, len(data))
	if err != nil {
		t.Fatalf("Decompress(lz4) failed: %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatal("LZ4 roundtrip mismatch")
	}
}

func TestCompressDecompressZstd(t *testing.T) {
	data := rosterLikeDocument(64 * 1024)

	compressed, err := Compress(data, CompressionZstd)
	if err != nil {
		t.Fatalf("Compress(zstd) failed: %v", err)
	}
	if len(compressed) >= len(data) {
		t.Errorf("Zstd did not compress: %d bytes to %d bytes", len(data), len(compressed))
	}

	ratio := float64(len(data)) / float64(len(compressed))
	if ratio < 2.0 {
		t.Errorf("Zstd compression ratio %.2fx is unexpectedly low for repetitive markdown", ratio)
	}

	decompressed, err := Decompress(compressed, CompressionZstd, len(data))
	if err != nil {
		t.Fatalf("Decompress(zstd) failed: %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatal("Zstd roundtrip mismatch")
	}
}

func TestCompressIncompressible(t *testing.T) {
	// Random data is incompressible for both algorithms.
	data := make([]byte, 64*1024)
	rand.Read(data)

	for _, tag := range []CompressionTag{CompressionLZ4, CompressionZstd} {
		t.Run(tag.String(), func(t *testing.T) {
			_, err := Compress(data, tag)
			if err == nil {
				t.Fatalf("%s should return incompressible error for random data", tag)
			}
			if !IsIncompressible(err) {
				t.Errorf("expected incompressible error, got: %v", err)
			}
		})
	}
}

func TestCompressUnsupportedTag(t *testing.T) {
	if _, err := Compress([]byte("data"), CompressionTag(99)); err == nil {
		t.Error("Compress with unknown tag should fail")
	}
	if _, err := Decompress([]byte("data"), CompressionTag(99), 4); err == nil {
		t.Error("Decompress with unknown tag should fail")
	}
}
