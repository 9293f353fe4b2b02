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

package resume

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thetrajectory/applicant-processor/internal/models"
)

type fakeFetcher struct {
	data []byte
	err  error
}

func (f *fakeFetcher) GetAttachment(context.Context, string, string) ([]byte, error) {
	return f.data, f.err
}

type fakeBackup struct {
	link      string
	text      string
	uploadErr error
	textErr   error
}

func (f *fakeBackup) Upload(context.Context, string, string, []byte) (string, error) {
	return f.link, f.uploadErr
}

func (f *fakeBackup) ExtractText(context.Context, string, string, []byte) (string, error) {
	return f.text, f.textErr
}

func msgWith(atts ...models.Attachment) *models.NormalizedMessage {
	return &models.NormalizedMessage{ID: "m1", Attachments: atts}
}

// TestProcess_HappyPath verifies upload link and extracted text both land in
// the result.
func TestProcess_HappyPath(t *testing.T) {
	p := New(
		&fakeFetcher{data: []byte("pdf bytes")},
		&fakeBackup{link: "https://drive.example/view/1", text: "  John Smith resume text  "},
		true,
	)

	res := p.Process(context.Background(), msgWith(
		models.Attachment{Filename: "john_resume.pdf", AttachmentID: "a1"},
	))
	assert.Equal(t, "https://drive.example/view/1", res.Link)
	assert.Equal(t, "John Smith resume text", res.Text)
}

// TestProcess_NoAttachment verifies an empty result when the message has no
// document attachment.
func TestProcess_NoAttachment(t *testing.T) {
	p := New(&fakeFetcher{}, &fakeBackup{}, true)

	res := p.Process(context.Background(), msgWith(
		models.Attachment{Filename: "logo.png", AttachmentID: "a1"},
	))
	assert.Empty(t, res.Text)
	assert.Empty(t, res.Link)
}

// TestProcess_DownloadFailure verifies degradation to the placeholder
// instead of an error.
func TestProcess_DownloadFailure(t *testing.T) {
	p := New(&fakeFetcher{err: errors.New("quota")}, &fakeBackup{}, true)

	res := p.Process(context.Background(), msgWith(
		models.Attachment{Filename: "cv.pdf", AttachmentID: "a1"},
	))
	assert.Equal(t, FailedPlaceholder, res.Text)
	assert.Empty(t, res.Link)
}

// TestProcess_ExtractionFailureKeepsLink verifies a backup that uploads but
// cannot extract still yields the link.
func TestProcess_ExtractionFailureKeepsLink(t *testing.T) {
	p := New(
		&fakeFetcher{data: []byte("x")},
		&fakeBackup{link: "https://drive.example/view/2", textErr: errors.New("export failed")},
		true,
	)

	res := p.Process(context.Background(), msgWith(
		models.Attachment{Filename: "cv.pdf", AttachmentID: "a1"},
	))
	assert.Equal(t, "https://drive.example/view/2", res.Link)
	assert.Equal(t, FailedPlaceholder, res.Text)
}

// TestProcess_OCRDisabled verifies text extraction is skipped while the
// backup upload still happens.
func TestProcess_OCRDisabled(t *testing.T) {
	p := New(
		&fakeFetcher{data: []byte("x")},
		&fakeBackup{link: "https://drive.example/view/3", text: "should not be used"},
		false,
	)

	res := p.Process(context.Background(), msgWith(
		models.Attachment{Filename: "cv.pdf", AttachmentID: "a1"},
	))
	assert.Equal(t, "https://drive.example/view/3", res.Link)
	assert.Empty(t, res.Text)
}

// TestPickResume covers selection priority and filtering.
func TestPickResume(t *testing.T) {
	tests := []struct {
		name string
		atts []models.Attachment
		want string
	}{
		{
			name: "resume name beats earlier document",
			atts: []models.Attachment{
				{Filename: "cover_letter.docx", AttachmentID: "a1"},
				{Filename: "jane_resume.pdf", AttachmentID: "a2"},
			},
			want: "jane_resume.pdf",
		},
		{
			name: "first document as fallback",
			atts: []models.Attachment{
				{Filename: "profile.pdf", AttachmentID: "a1"},
				{Filename: "other.pdf", AttachmentID: "a2"},
			},
			want: "profile.pdf",
		},
		{
			name: "images ignored",
			atts: []models.Attachment{
				{Filename: "photo.jpg", AttachmentID: "a1"},
			},
			want: "",
		},
		{
			name: "oversized skipped",
			atts: []models.Attachment{
				{Filename: "huge.pdf", AttachmentID: "a1", SizeBytes: 64 << 20},
				{Filename: "cv.pdf", AttachmentID: "a2", SizeBytes: 100 << 10},
			},
			want: "cv.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickResume(tt.atts)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, tt.want, got.Filename)
			}
		})
	}
}
