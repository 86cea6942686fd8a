package replay

import (
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	E "github.com/weirlab/flume/common/exceptions"
)

// Create opens path for writing, compressing transparently when the
// name ends in .xz. Close the result to finalize the stream.
func Create(path string) (io.WriteCloser, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".xz") {
		return file, nil
	}
	encoder, err := xz.NewWriter(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &compressedWriter{encoder, file}, nil
}

// OpenFile opens path for reading, decompressing transparently when
// the name ends in .xz.
func OpenFile(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".xz") {
		return file, nil
	}
	decoder, err := xz.NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &compressedReader{decoder, file}, nil
}

type compressedWriter struct {
	*xz.Writer
	file *os.File
}

func (w *compressedWriter) Close() error {
	return E.Errors(w.Writer.Close(), w.file.Close())
}

func (w *compressedWriter) Upstream() any {
	return w.file
}

type compressedReader struct {
	io.Reader
	file *os.File
}

func (r *compressedReader) Close() error {
	return r.file.Close()
}

func (r *compressedReader) Upstream() any {
	return r.file
}
