package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
)

// UploadResume sends a resume as multipart form data with fields
// "email" and "file".
func (c *Client) UploadResume(ctx context.Context, identity, filename string, r io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("email", identity); err != nil {
		return fmt.Errorf("failed to write form field: %w", err)
	}
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("failed to copy resume: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finish form: %w", err)
	}

	if _, err := c.doRequest(ctx, http.MethodPost, "/upload-resume", mw.FormDataContentType(), &buf); err != nil {
		return fmt.Errorf("upload resume: %w", err)
	}
	return nil
}
