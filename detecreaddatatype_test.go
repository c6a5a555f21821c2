package htsensor

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

type nopCloser struct {
	io.Reader
	closed bool
}

func (n *nopCloser) Close() error {
	n.closed = true
	return nil
}

func gzipped(t *testing.T, s string) []byte {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	return buf.Bytes()
}

func TestDetectDataType(t *testing.T) {
	for _, v := range []struct {
		Input    []byte
		Expected DataType
	}{
		{[]byte("@read1\nACGT\n+\nIIII\n"), DataTypeNoCompression},
		{[]byte{}, DataTypeNoCompression},
		{[]byte{0x1f}, DataTypeNoCompression},
		{gzipped(t, "ACGT"), DataTypeGzip},
		{[]byte{0x42, 0x5a, 0x68, 0x39, 0x31, 0x41}, DataTypeBZip2},
		{[]byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00}, DataTypeXZ},
		{[]byte{0x50, 0x4b, 0x03, 0x04, 0x14, 0x00}, DataTypeZip},
	} {
		dt, err := DetectDataType(bufio.NewReader(bytes.NewReader(v.Input)))
		if err != nil {
			t.Fatal(err)
		}
		if dt != v.Expected {
			t.Fatalf("Input %x: expected %s, got %s", v.Input, v.Expected, dt)
		}
	}
}

func TestMaybeDecompressGzip(t *testing.T) {
	const content = "@r1\nGGAAAATT\n+\nIIIIIIII\n"

	inner := &nopCloser{Reader: bytes.NewReader(gzipped(t, content))}
	rc, err := MaybeDecompressReadCloser(inner)
	if err != nil {
		t.Fatal(err)
	}

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Fatalf("Expected %q, got %q", content, got)
	}

	if err := rc.Close(); err != nil {
		t.Fatal(err)
	}
	if !inner.closed {
		t.Fatal("Underlying reader was not closed")
	}
}

func TestMaybeDecompressPlain(t *testing.T) {
	const content = "@r1\nGGAAAATT\n+\nIIIIIIII\n"

	rc, err := MaybeDecompressReadCloser(&nopCloser{Reader: bytes.NewReader([]byte(content))})
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Fatalf("Expected %q, got %q", content, got)
	}
}

func TestOpenSourceLocalGzip(t *testing.T) {
	const content = "@r1\nGGCCCCTT\n+\nIIIIIIII\n"

	path := filepath.Join(t.TempDir(), "sample.fastq.gz")
	if err := os.WriteFile(path, gzipped(t, content), 0644); err != nil {
		t.Fatal(err)
	}

	rc, size, err := OpenSource(context.Background(), path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	if size <= 0 {
		t.Fatalf("Expected a positive file size, got %d", size)
	}

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Fatalf("Expected %q, got %q", content, got)
	}
}

func TestOpenSourceMissing(t *testing.T) {
	if _, _, err := OpenSource(context.Background(), filepath.Join(t.TempDir(), "nope.fastq"), nil); err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}
