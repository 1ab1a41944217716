package storage

import (
	"context"
	"errors"
	"eventhub/infras/otel"
	"eventhub/shared/constant"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

var ErrOutsideRoot = errors.New("path escapes the upload directory")

type localStore struct {
	root       string
	publicPath string
	otel       otel.Otel
}

func (l *localStore) Save(ctx context.Context, dir, name, _ string, data []byte) (url string, err error) {
	_, scope := l.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".local.Save")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	target, err := l.resolve(path.Join(dir, name))
	if err != nil {
		return constant.Empty, err
	}

	if err = os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return constant.Empty, fmt.Errorf("failed to create upload directory: %w", err)
	}

	if err = os.WriteFile(target, data, filePerm); err != nil {
		return constant.Empty, fmt.Errorf("failed to write upload: %w", err)
	}

	return l.publicPath + "/" + path.Join(dir, name), nil
}

// Delete ignores URLs outside the public path and files that are already gone.
func (l *localStore) Delete(ctx context.Context, url string) (err error) {
	_, scope := l.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".local.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !strings.HasPrefix(url, l.publicPath+"/") {
		return nil
	}

	target, err := l.resolve(strings.TrimPrefix(url, l.publicPath+"/"))
	if err != nil {
		return err
	}

	if err = os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete upload: %w", err)
	}

	return nil
}

func (l *localStore) resolve(relative string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash("/" + relative))
	target := filepath.Join(l.root, cleaned)

	rel, err := filepath.Rel(l.root, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", ErrOutsideRoot
	}

	return target, nil
}
