// Package blobs holds the AT Protocol blob wire shape and the image-fetch
// pipeline used when attaching remote images to a new post.
package blobs

// BlobRef represents a blob reference for atproto records
type BlobRef struct {
	Type     string            `json:"$type"`
	Ref      map[string]string `json:"ref"`
	MimeType string            `json:"mimeType"`
	Size     int               `json:"size"`
}

// CID returns the blob's content identifier, empty when the ref is absent.
func (b *BlobRef) CID() string {
	if b == nil || b.Ref == nil {
		return ""
	}
	return b.Ref["$link"]
}
