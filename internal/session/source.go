package session

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ImageSource yields the bytes of one image.
type ImageSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}

// BytesSource is an image already held in memory, e.g. an upload.
type BytesSource struct {
	Data     []byte
	Filename string
}

func (s BytesSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.Data)), nil
}

func (s BytesSource) Name() string { return s.Filename }

// FileSource reads an image from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Open(context.Context) (io.ReadCloser, error) {
	return os.Open(s.Path)
}

func (s FileSource) Name() string { return filepath.Base(s.Path) }

// URLSource fetches an image over HTTP.
type URLSource struct {
	URL    string
	Client *http.Client
}

func (s URLSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s URLSource) Name() string {
	if u, err := url.Parse(s.URL); err == nil {
		return filepath.Base(u.Path)
	}
	return s.URL
}

// SourceForURL picks a source for a resolved background URL: http(s) URLs
// are fetched, file URLs and bare paths are read from disk.
func SourceForURL(raw string, client *http.Client) ImageSource {
	switch {
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return URLSource{URL: raw, Client: client}
	case strings.HasPrefix(raw, "file://"):
		if u, err := url.Parse(raw); err == nil {
			return FileSource{Path: u.Path}
		}
	}
	return FileSource{Path: raw}
}
