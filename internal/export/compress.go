package export

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// CompressedExtension is appended to compressed export files
const CompressedExtension = "zst"

// Compress wraps w so everything written is zstd-compressed. Close flushes
// the frame but leaves w open.
func Compress(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

// Decompress reads a zstd stream written by Compress
func Decompress(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}
