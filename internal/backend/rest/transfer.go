package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"coursedesk/internal/domain/backend"
	"coursedesk/internal/domain/models/curriculum"
)

// uploadVideoResponse carries the server-assigned path of an uploaded video.
type uploadVideoResponse struct {
	FilePath string `json:"file_path"`
}

func (c *Client) UploadLessonVideo(ctx context.Context, lessonID string, file backend.File, onProgress backend.ProgressFunc) (string, error) {
	var out uploadVideoResponse
	err := c.uploadMultipart(ctx, "/api/lessons/"+lessonID+"/video", file, onProgress, &out)
	if err != nil {
		return "", err
	}
	return out.FilePath, nil
}

func (c *Client) UploadLessonResource(ctx context.Context, lessonID string, file backend.File) (*curriculum.Resource, error) {
	var out curriculum.Resource
	if err := c.uploadMultipart(ctx, "/api/lessons/"+lessonID+"/resources", file, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteLessonResource(ctx context.Context, resourceID string) error {
	return c.do(ctx, http.MethodDelete, "/api/resources/"+resourceID, nil, nil)
}

// uploadMultipart streams a multipart upload without buffering the file in
// memory. Progress is measured on the file body, not the multipart
// envelope, so 100 means the whole file left the client.
func (c *Client) uploadMultipart(ctx context.Context, path string, file backend.File, onProgress backend.ProgressFunc, out any) error {
	body := &progressReader{
		r:          file.Content,
		total:      file.Size,
		onProgress: onProgress,
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", file.Name)
		if err == nil {
			_, err = io.Copy(part, body)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, pr)
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.MethodPost, path); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode upload response: %w", err)
		}
	}
	return nil
}

// progressReader counts bytes read out of the wrapped reader and reports
// whole-percent progress. Percentages never decrease and never repeat.
type progressReader struct {
	r          io.Reader
	total      int64
	sent       int64
	lastPct    int
	onProgress backend.ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.sent += int64(n)

	if p.onProgress != nil && p.total > 0 {
		pct := int(p.sent * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct > p.lastPct {
			p.lastPct = pct
			p.onProgress(pct)
		}
	}
	return n, err
}
