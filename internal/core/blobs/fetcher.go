package blobs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MaxImageSize is the per-image byte limit for feed post embeds.
const MaxImageSize = 1_000_000

const fetchUserAgent = "Mozilla/5.0 (compatible; driftwood/1.0)"

// FetchImage downloads an image from a URL and validates it for upload.
// Returns the raw bytes and the normalized MIME type.
// Flow:
//  1. Fetch the URL with a timeout (30s to handle slow CDNs)
//  2. Validate MIME type (image/jpeg, image/png, image/webp)
//  3. Validate size against the embed limit
func FetchImage(ctx context.Context, httpClient *http.Client, imageURL string) ([]byte, string, error) {
	if imageURL == "" {
		return nil, "", fmt.Errorf("image URL cannot be empty")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request for image URL: %w", err)
	}

	// Set User-Agent to avoid being blocked by CDNs that filter bot traffic
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image from URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to fetch image: HTTP %d", resp.StatusCode)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		return nil, "", fmt.Errorf("image URL response missing Content-Type header")
	}

	// Strip parameters (charset etc.) and normalize, e.g. image/jpg → image/jpeg
	if idx := strings.IndexByte(mimeType, ';'); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	mimeType = normalizeMimeType(mimeType)

	if !isValidMimeType(mimeType) {
		return nil, "", fmt.Errorf("unsupported MIME type: %s (allowed: image/jpeg, image/png, image/webp)", mimeType)
	}

	// Read one byte past the limit so oversized bodies are detected without
	// buffering the whole file.
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > MaxImageSize {
		return nil, "", fmt.Errorf("image exceeds maximum of %d bytes", MaxImageSize)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("image URL returned an empty body")
	}

	return data, mimeType, nil
}

// normalizeMimeType converts non-standard MIME types to their standard equivalents
// Common case: Many CDNs return image/jpg instead of the standard image/jpeg
func normalizeMimeType(mimeType string) string {
	switch mimeType {
	case "image/jpg":
		return "image/jpeg"
	default:
		return mimeType
	}
}

// isValidMimeType checks if the MIME type is allowed for blob uploads
func isValidMimeType(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/png", "image/webp":
		return true
	default:
		return false
	}
}
