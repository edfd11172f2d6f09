package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"bluecarbon/internal/services"
)

// Asset is one file in an upload batch.
type Asset struct {
	Name string
	MIME string
	Data []byte
}

type uploadResponse struct {
	Uploaded []string `json:"uploaded"`
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// UploadAssets transmits staged files for a project as a single multipart
// batch and returns the URLs the registry stored them under. The whole batch
// succeeds or fails together; a failure leaves the project itself intact.
func (c *Client) UploadAssets(ctx context.Context, projectID string, assets []Asset) ([]string, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, services.Wrap(services.ErrValidation, "registry", "upload assets", "project id required", nil)
	}
	if len(assets) == 0 {
		return nil, services.Wrap(services.ErrValidation, "registry", "upload assets", "no assets to upload", nil)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, asset := range assets {
		part, err := writer.CreatePart(partHeader(asset))
		if err != nil {
			return nil, services.Wrap(services.ErrUploadFailed, "registry", "upload assets", "build multipart body", err)
		}
		if _, err := part.Write(asset.Data); err != nil {
			return nil, services.Wrap(services.ErrUploadFailed, "registry", "upload assets", "write multipart body", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, services.Wrap(services.ErrUploadFailed, "registry", "upload assets", "finalize multipart body", err)
	}

	endpoint := c.cfg.BaseURL + "/projects/" + url.PathEscape(projectID) + "/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, services.Wrap(services.ErrUploadFailed, "registry", "upload assets", "new request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrUploadFailed, "registry", "upload assets", "", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrUploadFailed, "registry", "upload assets", "read body", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := &httpStatusError{StatusCode: resp.StatusCode, Body: snippet(payload)}
		return nil, services.Wrap(services.ErrUploadFailed, "registry", "upload assets", "", statusErr)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, services.Wrap(services.ErrUploadFailed, "registry", "upload assets", "decode response", err)
	}
	return parsed.Uploaded, nil
}

func partHeader(asset Asset) textproto.MIMEHeader {
	name := strings.TrimSpace(asset.Name)
	if name == "" {
		name = "upload"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, quoteEscaper.Replace(name)))
	if mime := strings.TrimSpace(asset.MIME); mime != "" {
		header.Set("Content-Type", mime)
	}
	return header
}
