package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"cmis-harness/core/storage"

	"github.com/minio/minio-go/v7"
)

// ErrNotConfigured is returned by Open when neither a path nor an object is set.
var ErrNotConfigured = errors.New("no web archive configured")

// Archive is an opened web archive. Its private directories (WEB-INF, META-INF)
// are hidden from FS, the same way a servlet container never serves them.
type Archive struct {
	Source string

	reader  *zip.ReadCloser
	tmpFile string
}

// Open opens the archive described by cfg. Remote archives are downloaded from
// bucket into a temporary file that Close removes.
func Open(ctx context.Context, cfg Config, client storage.Client, bucket string) (*Archive, error) {
	switch {
	case cfg.Object != "":
		if client == nil {
			return nil, fmt.Errorf("archive object %q configured without a storage client", cfg.Object)
		}
		return download(ctx, client, bucket, cfg.Object)
	case cfg.Path != "":
		return openFile(cfg.Path, cfg.Path, "")
	default:
		return nil, ErrNotConfigured
	}
}

func openFile(file, source, tmp string) (*Archive, error) {
	r, err := zip.OpenReader(file)
	if err != nil {
		if tmp != "" {
			_ = os.Remove(tmp)
		}
		return nil, fmt.Errorf("failed to open web archive %s: %w", source, err)
	}
	return &Archive{Source: source, reader: r, tmpFile: tmp}, nil
}

func download(ctx context.Context, client storage.Client, bucket, object string) (*Archive, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	if _, err := client.StatObject(ctx, bucket, object, minio.StatObjectOptions{}); err != nil {
		return nil, fmt.Errorf("web archive %s/%s not found: %w", bucket, object, err)
	}

	body, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download web archive %s/%s: %w", bucket, object, err)
	}
	defer body.Close()

	tmp, err := os.CreateTemp("", "cmis-harness-*.zip")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to download web archive %s/%s: %w", bucket, object, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, err
	}

	return openFile(tmp.Name(), "s3://"+bucket+"/"+object, tmp.Name())
}

// FS returns the public contents of the archive.
func (a *Archive) FS() fs.FS {
	return publicFS{a.reader}
}

// Has reports whether name exists as a public file in the archive.
func (a *Archive) Has(name string) bool {
	info, err := fs.Stat(a.FS(), name)
	return err == nil && !info.IsDir()
}

// Close releases the zip reader and any downloaded temp file.
func (a *Archive) Close() error {
	if a == nil {
		return nil
	}
	err := a.reader.Close()
	if a.tmpFile != "" {
		if rmErr := os.Remove(a.tmpFile); rmErr != nil && err == nil {
			err = rmErr
		}
	}
	return err
}

type publicFS struct {
	fsys fs.FS
}

func (p publicFS) Open(name string) (fs.File, error) {
	if isPrivate(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return p.fsys.Open(name)
}

func isPrivate(name string) bool {
	first := strings.SplitN(path.Clean(name), "/", 2)[0]
	return strings.EqualFold(first, "WEB-INF") || strings.EqualFold(first, "META-INF")
}
