package htsensor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

const gsScheme = "gs://"

// GSReadCloser decorates a Google Storage object handle with io.Reader and
// io.Closer. The object is only opened on the first Read.
type GSReadCloser struct {
	*storage.ObjectHandle
	Context context.Context
	r       *storage.Reader
}

func (s *GSReadCloser) Read(buf []byte) (int, error) {
	if s.r == nil {
		r, err := s.NewReader(s.Context)
		if err != nil {
			return 0, err
		}
		s.r = r
	}

	return s.r.Read(buf)
}

// Close satisfies io.Closer. If the object was never read, this is a nop.
func (s *GSReadCloser) Close() error {
	if s.r == nil {
		return nil
	}

	err := s.r.Close()
	s.r = nil

	return err
}

// IsGSPath reports whether path names a Google Storage object.
func IsGSPath(path string) bool {
	return strings.HasPrefix(path, gsScheme)
}

// AnyGSPath reports whether at least one of paths is a Google Storage path, in
// which case the caller needs a storage client.
func AnyGSPath(paths ...string) bool {
	for _, p := range paths {
		if IsGSPath(p) {
			return true
		}
	}

	return false
}

// SplitGSPath splits gs://bucket/some/object into its bucket and object name.
func SplitGSPath(path string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, gsScheme), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into bucket and object, but got %d parts: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// MaybeOpenFromGoogleStorage opens path from Google Storage if it is a gs://
// path and a client was provided, and from the local filesystem otherwise.
// The size of the underlying object is returned alongside the reader.
func MaybeOpenFromGoogleStorage(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, int64, error) {
	if client != nil && IsGSPath(path) {
		bucketName, pathName, err := SplitGSPath(path)
		if err != nil {
			return nil, 0, err
		}

		wrappedHandle := &GSReadCloser{
			ObjectHandle: client.Bucket(bucketName).Object(pathName),
			Context:      ctx,
		}

		// Make a hard call to get the filesize, which also confirms that the
		// object exists before any reading starts
		attrs, err := wrappedHandle.ObjectHandle.Attrs(ctx)
		if err != nil {
			return nil, 0, pfx.Err(fmt.Errorf("%s: %s", path, err))
		}

		return wrappedHandle, attrs.Size, nil
	}

	f, err := os.Open(ExpandHome(path))
	if err != nil {
		return nil, 0, err
	}
	fstat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}

	return f, fstat.Size(), nil
}

// OpenSource opens a local or gs:// path and transparently decompresses it.
func OpenSource(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, int64, error) {
	raw, size, err := MaybeOpenFromGoogleStorage(ctx, path, client)
	if err != nil {
		return nil, 0, err
	}

	rc, err := MaybeDecompressReadCloser(raw)
	if err != nil {
		raw.Close()
		return nil, 0, fmt.Errorf("%s: CompressionDetectionErr: %w", path, err)
	}

	return rc, size, nil
}
