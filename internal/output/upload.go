package output

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/vk/ridgegrow/internal/ctxlog"
	"github.com/vk/ridgegrow/internal/grower"
)

// GeoJSONContentType is sent for uploads whose name has no known extension.
const GeoJSONContentType = "application/geo+json"

// Uploader PUTs the ridge set to a pre-signed object storage URL.
type Uploader struct {
	Client *http.Client
	URL    string
	// Name picks the content type by extension.
	Name string
}

// Upload encodes res and sends it in a single PUT request.
func (u *Uploader) Upload(ctx context.Context, res *grower.Result) error {
	logger := ctxlog.FromContext(ctx).With("action", "upload")

	var body bytes.Buffer
	if err := WriteGeoJSON(&body, res); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u.URL, bytes.NewReader(body.Bytes()))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(u.Name))
	if contentType == "" {
		contentType = GeoJSONContentType
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(body.Len())

	logger.Info("Uploading ridges", "size", body.Len(), "contentType", contentType)

	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload failed with status: %s", resp.Status)
	}
	logger.Info("Successfully uploaded ridges", "status", resp.Status)
	return nil
}
