package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"sort"
)

// Form is a multipart form body. When attached to a Request it switches the
// client to multipart transport in place of JSON encoding.
type Form struct {
	fields    map[string]string
	fileField string
	fileName  string
	fileData  []byte
}

// NewForm creates an empty multipart form.
func NewForm() *Form {
	return &Form{fields: make(map[string]string)}
}

// Set adds a text field.
func (f *Form) Set(key, value string) *Form {
	f.fields[key] = value
	return f
}

// AttachFile adds a single file part.
func (f *Form) AttachFile(field, name string, data []byte) *Form {
	f.fileField = field
	f.fileName = name
	f.fileData = data
	return f
}

// encode renders the form body and its content type.
func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if f.fileField != "" {
		fileWriter, err := writer.CreateFormFile(f.fileField, f.fileName)
		if err != nil {
			return nil, "", fmt.Errorf("create form file: %w", err)
		}
		if _, err := fileWriter.Write(f.fileData); err != nil {
			return nil, "", fmt.Errorf("write file data: %w", err)
		}
	}

	// Deterministic field order keeps request payloads reproducible.
	keys := make([]string, 0, len(f.fields))
	for key := range f.fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := writer.WriteField(key, f.fields[key]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}
