package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// LocalStorage stores objects as files under a base directory. Keys cannot
// address anything outside it.
type LocalStorage struct {
	baseDir string
	baseURL string
}

// NewLocalStorage creates the base directory when needed. baseURL prefixes
// the keys returned by URL; it may be empty.
func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("%w: base directory is required", ErrInvalidConfig)
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Join(ErrFailedToCreateDirectory, err)
	}
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStorage{baseDir: abs, baseURL: baseURL}, nil
}

// BaseDir returns the absolute base directory.
func (s *LocalStorage) BaseDir() string { return s.baseDir }

func (s *LocalStorage) resolve(key string) (string, string, error) {
	k, err := CleanKey(key)
	if err != nil {
		return "", "", err
	}
	p := filepath.Join(s.baseDir, filepath.FromSlash(k))
	rel, err := filepath.Rel(s.baseDir, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
	}
	return k, p, nil
}

// Put writes body to a temporary file next to the target and renames it into
// place, so readers never see a partial object.
func (s *LocalStorage) Put(ctx context.Context, key string, body io.Reader, contentType string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k, p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, errors.Join(ErrFailedToCreateDirectory, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-*")
	if err != nil {
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: body})
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}

	if contentType == "" {
		contentType = ContentType(k)
	}
	return &Object{Key: k, Size: n, ContentType: contentType, URL: s.URL(k)}, nil
}

func (s *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, key)
	}
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	return f, nil
}

func (s *LocalStorage) Exists(_ context.Context, key string) bool {
	_, p, err := s.resolve(key)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, p, err := s.resolve(key)
	if err != nil {
		return err
	}
	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, key)
	}
	if err := os.Remove(p); err != nil {
		return errors.Join(ErrFailedToDeleteFile, err)
	}
	return nil
}

func (s *LocalStorage) List(ctx context.Context, prefix string) ([]Object, error) {
	pfx, err := cleanPrefix(prefix)
	if err != nil {
		return nil, err
	}

	var objects []Object
	err = filepath.WalkDir(s.baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.baseDir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, pfx) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, Object{
			Key:         key,
			Size:        info.Size(),
			ContentType: ContentType(key),
			URL:         s.URL(key),
		})
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Join(ErrFailedToListFiles, err)
	}

	slices.SortFunc(objects, func(a, b Object) int { return strings.Compare(a.Key, b.Key) })
	return objects, nil
}

// URL joins the base URL and key. Without a base URL it is the file path.
func (s *LocalStorage) URL(key string) string {
	k := strings.TrimPrefix(key, "/")
	if s.baseURL == "" {
		return filepath.Join(s.baseDir, filepath.FromSlash(k))
	}
	return s.baseURL + k
}

// ctxReader stops a copy once its context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
