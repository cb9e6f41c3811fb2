package adapters

import (
	"io"
	"net/http"
	"short-video-agent/application/ports/outbound"
)

func testLogger() outbound.LoggerPort {
	return NewZerologWrapperFor(io.Discard, "debug")
}

func testFetcher() ContentFetcher {
	return NewContentFetcher(testLogger(), &http.Client{})
}
