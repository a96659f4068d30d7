package telegram

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
)

const defaultContentType = "application/octet-stream"

// File describes a local file uploaded to telegram as a multipart attachment.
type File struct {
	// Path is a path to the file on disk. Ignored when Reader is set.
	Path string
	// Reader supplies the file contents directly.
	Reader io.Reader
	// Filename overrides the name reported to telegram.
	// Inferred from Path when empty.
	Filename string
	// ContentType overrides the mime type of the contents.
	// Inferred from the filename extension when empty.
	ContentType string

	// Field is a multipart field name. Send methods default it
	// to the media kind they transmit.
	Field string
}

// NewFile returns a file descriptor reading contents from the given path.
func NewFile(path string) *File {
	return &File{Path: path}
}

func (f *File) field() string {
	return f.Field
}

func (f *File) withField(field string) *File {
	if f.Field != "" {
		return f
	}

	clone := *f
	clone.Field = field

	return &clone
}

func (f *File) open() (io.Reader, string, string, error) {
	filename := f.Filename
	if filename == "" {
		filename = filepath.Base(f.Path)
	}

	contentType := f.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	if f.Reader != nil {
		return f.Reader, filename, contentType, nil
	}

	contents, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, "", "", fmt.Errorf("read file contents: %w", err)
	}

	return bytes.NewReader(contents), filename, contentType, nil
}
