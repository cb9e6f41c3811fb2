package outbound

import "context"

type AssetDownloaderPort interface {
	Download(ctx context.Context, url string, fileName string) error
}
