package file

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
)

// Object describes a stored artifact.
type Object struct {
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Storage is a flat key/value store for run artifacts. Keys use forward
// slashes regardless of the backend.
type Storage interface {
	// Put stores body under key, replacing any existing object.
	Put(ctx context.Context, key string, body io.Reader, contentType string) (*Object, error)
	// Get opens the object for reading. The caller closes it.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) bool
	// Delete removes the object. Missing objects return ErrFileNotFound.
	Delete(ctx context.Context, key string) error
	// List returns every object whose key starts with prefix, sorted by key.
	List(ctx context.Context, prefix string) ([]Object, error)
	// URL returns the public location of key.
	URL(key string) string
}

// CleanKey normalizes a key: leading and trailing slashes are removed and
// the path is cleaned. Keys that are empty or escape the root are rejected.
func CleanKey(key string) (string, error) {
	k := strings.ReplaceAll(key, "\\", "/")
	if strings.Contains(k, "\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
	}
	for _, part := range strings.Split(k, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
		}
	}
	k = strings.Trim(path.Clean("/"+k), "/")
	if k == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidPath)
	}
	return k, nil
}

// cleanPrefix normalizes a listing prefix. An empty prefix lists everything.
func cleanPrefix(prefix string) (string, error) {
	if strings.Trim(prefix, "/") == "" {
		return "", nil
	}
	p, err := CleanKey(prefix)
	if err != nil {
		return "", err
	}
	if strings.HasSuffix(prefix, "/") {
		p += "/"
	}
	return p, nil
}

// ContentType guesses the MIME type of key from its extension.
func ContentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".csv":
		return "text/csv; charset=utf-8"
	case ".json":
		return "application/json"
	case ".parquet":
		return "application/vnd.apache.parquet"
	}
	if t := mime.TypeByExtension(path.Ext(key)); t != "" {
		return t
	}
	return "application/octet-stream"
}
