package blobs

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchImage(t *testing.T) {
	jpegBody := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}

	tests := []struct {
		name        string
		contentType string
		status      int
		body        []byte
		wantMime    string
		wantErr     string
	}{
		{
			name:        "valid jpeg",
			contentType: "image/jpeg",
			status:      http.StatusOK,
			body:        jpegBody,
			wantMime:    "image/jpeg",
		},
		{
			name:        "image/jpg normalized to image/jpeg",
			contentType: "image/jpg",
			status:      http.StatusOK,
			body:        jpegBody,
			wantMime:    "image/jpeg",
		},
		{
			name:        "content type with charset parameter",
			contentType: "image/png; charset=binary",
			status:      http.StatusOK,
			body:        []byte{0x89, 0x50, 0x4E, 0x47},
			wantMime:    "image/png",
		},
		{
			name:        "unsupported mime type",
			contentType: "text/html",
			status:      http.StatusOK,
			body:        []byte("<html></html>"),
			wantErr:     "unsupported MIME type",
		},
		{
			name:        "non-200 status",
			contentType: "image/jpeg",
			status:      http.StatusNotFound,
			body:        jpegBody,
			wantErr:     "HTTP 404",
		},
		{
			name:        "oversized image",
			contentType: "image/png",
			status:      http.StatusOK,
			body:        bytes.Repeat([]byte{0xAB}, MaxImageSize+1),
			wantErr:     "exceeds maximum",
		},
		{
			name:        "empty body",
			contentType: "image/webp",
			status:      http.StatusOK,
			body:        nil,
			wantErr:     "empty body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUA string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUA = r.Header.Get("User-Agent")
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				w.Write(tt.body)
			}))
			defer server.Close()

			data, mime, err := FetchImage(context.Background(), server.Client(), server.URL+"/img")

			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %q, want contains %q", err.Error(), tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mime != tt.wantMime {
				t.Errorf("mime = %q, want %q", mime, tt.wantMime)
			}
			if !bytes.Equal(data, tt.body) {
				t.Errorf("data length = %d, want %d", len(data), len(tt.body))
			}
			if gotUA == "" {
				t.Error("request carried no User-Agent header")
			}
		})
	}
}

func TestFetchImage_EmptyURL(t *testing.T) {
	_, _, err := FetchImage(context.Background(), nil, "")
	if err == nil {
		t.Fatal("expected error for empty URL")
	}
}

func TestBlobRef_CID(t *testing.T) {
	tests := []struct {
		name string
		ref  *BlobRef
		want string
	}{
		{
			name: "valid ref",
			ref: &BlobRef{
				Type:     "blob",
				Ref:      map[string]string{"$link": "bafkreihdwdcefgh4dqkjv67uzcmw7ojee6xedzdetojuzjevtenxquvyku"},
				MimeType: "image/jpeg",
				Size:     1024,
			},
			want: "bafkreihdwdcefgh4dqkjv67uzcmw7ojee6xedzdetojuzjevtenxquvyku",
		},
		{name: "nil ref map", ref: &BlobRef{Type: "blob"}, want: ""},
		{name: "nil receiver", ref: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.CID(); got != tt.want {
				t.Errorf("CID() = %q, want %q", got, tt.want)
			}
		})
	}
}
