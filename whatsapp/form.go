package whatsapp

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// BinarySource is a normalized handle on upload content. The three
// constructors cover the supported representations: an in-memory byte slice,
// an arbitrary reader, and a named file on disk.
type BinarySource struct {
	filename string
	data     []byte
	reader   io.Reader
	path     string
}

// BytesSource wraps an in-memory buffer. The filename is reported to the API
// as the uploaded file's name.
func BytesSource(filename string, data []byte) BinarySource {
	return BinarySource{filename: filename, data: data}
}

// ReaderSource wraps a reader. The reader is consumed once, when the upload
// request body is built.
func ReaderSource(filename string, r io.Reader) BinarySource {
	return BinarySource{filename: filename, reader: r}
}

// FileSource references a file on disk. The file is opened when the upload
// request body is built, not at construction time.
func FileSource(path string) BinarySource {
	return BinarySource{filename: filepath.Base(path), path: path}
}

func (s BinarySource) empty() bool {
	return s.data == nil && s.reader == nil && s.path == ""
}

func (s BinarySource) copyTo(w io.Writer) error {
	switch {
	case s.path != "":
		f, err := os.Open(s.path)
		if err != nil {
			return fmt.Errorf("open upload file: %w", err)
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	case s.reader != nil:
		_, err := io.Copy(w, s.reader)
		return err
	default:
		_, err := w.Write(s.data)
		return err
	}
}

type formField struct {
	name  string
	value string
}

// multipartForm builds a multipart/form-data body with a deterministic part
// order: plain fields in insertion order, the file part last. The upload
// endpoint expects messaging_product, type, file in exactly that order.
type multipartForm struct {
	fields    []formField
	fileName  string
	fileValue BinarySource
}

func (f *multipartForm) addField(name, value string) {
	f.fields = append(f.fields, formField{name: name, value: value})
}

func (f *multipartForm) addFile(name string, src BinarySource) {
	f.fileName = name
	f.fileValue = src
}

func (f *multipartForm) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", &TransportError{Err: fmt.Errorf("encode form field %s: %w", field.name, err)}
		}
	}
	if f.fileName != "" {
		part, err := w.CreateFormFile(f.fileName, f.fileValue.filename)
		if err != nil {
			return nil, "", &TransportError{Err: fmt.Errorf("encode form file: %w", err)}
		}
		if err := f.fileValue.copyTo(part); err != nil {
			return nil, "", &TransportError{Err: fmt.Errorf("encode form file: %w", err)}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", &TransportError{Err: fmt.Errorf("finalize form: %w", err)}
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
