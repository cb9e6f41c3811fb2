package adapters

import (
	"context"
	"errors"
	"net/http"
	"os"
	"short-video-agent/application/ports/outbound"
	"short-video-agent/domain"
)

var errEmptyAsset = errors.New("downloaded asset is empty")

type httpAssetDownloader struct {
	ContentFetcher
	logger outbound.LoggerPort
}

func NewHTTPAssetDownloader(contentFetcher ContentFetcher, logger outbound.LoggerPort) outbound.AssetDownloaderPort {
	return &httpAssetDownloader{
		ContentFetcher: contentFetcher,
		logger:         logger,
	}
}

// Download streams url into fileName. A partial file is removed on failure.
func (d *httpAssetDownloader) Download(ctx context.Context, url string, fileName string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &domain.DownloadError{URL: url, Err: err}
	}

	file, err := os.Create(fileName)
	if err != nil {
		return &domain.DownloadError{URL: url, Err: err}
	}

	n, err := d.StreamContent(req, file)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n == 0 {
		err = errEmptyAsset
	}
	if err != nil {
		if removeErr := os.Remove(fileName); removeErr != nil && !os.IsNotExist(removeErr) {
			d.logger.Error(removeErr, "Failed to remove partial download")
		}
		return &domain.DownloadError{URL: url, Err: err}
	}

	d.logger.DebugWithFields("Asset downloaded", map[string]interface{}{
		"file":  fileName,
		"bytes": n,
	})
	return nil
}
