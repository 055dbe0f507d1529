// Package storage 保存食譜圖片到本機 media 目錄
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// FileStore 以相對路徑存取檔案
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) error
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

var newUUID = uuid.NewString

// RecipeImagePath 產生 uploads/recipe/<slug(title)>-<uuid>.<ext>
func RecipeImagePath(title, ext string) string {
	base := slug.Make(title)
	if base == "" {
		base = "recipe"
	}
	return path.Join("uploads", "recipe", fmt.Sprintf("%s-%s.%s", base, newUUID(), ext))
}

// Local 將檔案寫入 Root，URL 以 BaseURL 為前綴
type Local struct {
	Root    string
	BaseURL string
}

func NewLocal(root, baseURL string) *Local {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Local{Root: root, BaseURL: baseURL}
}

func (l *Local) resolve(name string) (string, error) {
	clean := path.Clean("/" + name)
	if clean == "/" {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(l.Root, filepath.FromSlash(clean)), nil
}

// Save 先寫暫存檔再 rename，避免留下半寫入的檔案
func (l *Local) Save(ctx context.Context, name string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := l.resolve(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename file: %w", err)
	}
	return nil
}

// Delete 移除檔案，檔案不存在視為成功
func (l *Local) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := l.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) URL(name string) string {
	return l.BaseURL + strings.TrimPrefix(name, "/")
}
