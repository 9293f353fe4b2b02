// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package storage backs up resume files to Google Drive and extracts their
// text through Drive's document conversion.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const googleDocMimeType = "application/vnd.google-apps.document"

// DriveStore uploads resumes to a Drive folder.
type DriveStore struct {
	svc      *driveapi.Service
	folderID string
}

// NewDriveStore creates the store. folderID may be empty to upload into the
// account root.
func NewDriveStore(ctx context.Context, client *http.Client, folderID string) (*DriveStore, error) {
	svc, err := driveapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &DriveStore{svc: svc, folderID: folderID}, nil
}

// Upload stores the file and returns a shareable view link.
func (s *DriveStore) Upload(ctx context.Context, filename, mimeType string, data []byte) (string, error) {
	meta := &driveapi.File{Name: filename}
	if s.folderID != "" {
		meta.Parents = []string{s.folderID}
	}

	f, err := s.svc.Files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id", "webViewLink").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("drive upload %s: %w", filename, err)
	}

	slog.Debug("resume uploaded", "file", filename, "drive_id", f.Id)
	return f.WebViewLink, nil
}

// ExtractText converts the file to a Google Doc, exports it as plain text,
// and removes the temporary doc. Conversion runs OCR on scanned documents,
// which is the whole point of going through Drive instead of parsing locally.
func (s *DriveStore) ExtractText(ctx context.Context, filename, mimeType string, data []byte) (string, error) {
	meta := &driveapi.File{
		Name:     filename,
		MimeType: googleDocMimeType,
	}

	doc, err := s.svc.Files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("drive conversion upload %s: %w", filename, err)
	}

	defer func() {
		if err := s.svc.Files.Delete(doc.Id).Context(ctx).Do(); err != nil {
			slog.Warn("failed to delete temporary conversion doc", "drive_id", doc.Id, "error", err)
		}
	}()

	resp, err := s.svc.Files.Export(doc.Id, "text/plain").Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("export converted doc: %w", err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read exported text: %w", err)
	}

	slog.Debug("resume text extracted", "file", filename, "chars", len(text))
	return string(text), nil
}
