package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Source mở fixture file theo tên (vd: "category.csv").
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// DirSource đọc fixtures từ thư mục local.
type DirSource string

func (d DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(string(d), name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

func (d DirSource) String() string {
	return string(d)
}

// ParseBucketURL tách "s3://bucket/prefix" thành bucket và prefix.
// ok = false nếu raw không phải S3 URL.
func ParseBucketURL(raw string) (bucket, prefix string, ok bool) {
	rest, found := strings.CutPrefix(raw, "s3://")
	if !found {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	return bucket, strings.Trim(prefix, "/"), bucket != ""
}
