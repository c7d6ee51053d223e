package form

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"strings"
)

// ErrUnsupportedContentType is returned by Parse when the content type is
// neither urlencoded nor multipart form data.
var ErrUnsupportedContentType = errors.New("form: unsupported content type")

// maxMemory is the in-memory buffer limit handed to mime/multipart when
// reading a part body.
const maxMemory = 32 << 20

// File is one uploaded file extracted from a multipart body.
type File struct {
	// Filename is the name the client supplied in the Content-Disposition
	// header of the part.
	Filename string

	// ContentType is the declared media type of the part, or
	// "application/octet-stream" when the part carries none.
	ContentType string

	// Data is the full file content.
	Data []byte
}

// Form holds the decoded fields and files of a form-encoded request body.
type Form struct {
	Fields map[string]string
	Files  map[string]File
}

// Supported reports whether contentType is a form encoding Parse understands.
func Supported(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		return true
	}
	return false
}

// Parse decodes body according to contentType. It accepts
// application/x-www-form-urlencoded and multipart/form-data; any other media
// type yields ErrUnsupportedContentType.
func Parse(contentType string, body []byte) (*Form, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("form: parse content type: %w", err)
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		return parseURLEncoded(body)
	case "multipart/form-data":
		boundary, ok := params["boundary"]
		if !ok {
			return nil, errors.New("form: multipart content type without boundary")
		}
		return parseMultipart(boundary, body)
	}

	return nil, ErrUnsupportedContentType
}

func parseURLEncoded(body []byte) (*Form, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("form: parse urlencoded body: %w", err)
	}

	out := &Form{Fields: make(map[string]string, len(values))}
	for key, vals := range values {
		if len(vals) > 0 {
			out.Fields[key] = vals[0]
		}
	}

	return out, nil
}

func parseMultipart(boundary string, body []byte) (*Form, error) {
	reader := multipart.NewReader(bytes.NewReader(body), boundary)

	out := &Form{
		Fields: make(map[string]string),
		Files:  make(map[string]File),
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("form: read multipart part: %w", err)
		}

		data, err := io.ReadAll(io.LimitReader(part, maxMemory))
		if err != nil {
			return nil, fmt.Errorf("form: read multipart part body: %w", err)
		}

		name := part.FormName()
		if name == "" {
			continue
		}

		if filename := part.FileName(); filename != "" {
			contentType := part.Header.Get("Content-Type")
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			out.Files[name] = File{
				Filename:    filename,
				ContentType: contentType,
				Data:        data,
			}
			continue
		}

		out.Fields[name] = strings.TrimSuffix(string(data), "\r\n")
	}

	return out, nil
}
