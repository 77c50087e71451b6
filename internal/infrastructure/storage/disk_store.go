// Package storage guarda en disco las imágenes de firma del onboarding.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/invoicegen-api/internal/application/onboarding"
	"github.com/jhoicas/invoicegen-api/internal/domain"
	"github.com/jhoicas/invoicegen-api/pkg/config"
)

// MaxSignatureBytes tamaño máximo aceptado para una firma.
const MaxSignatureBytes = 5 << 20

var _ onboarding.SignatureStore = (*DiskStore)(nil)

// DiskStore escribe las firmas bajo un directorio servido como estático.
type DiskStore struct {
	dir       string
	publicURL string
	now       func() time.Time
}

// NewDiskStore crea el directorio si no existe.
func NewDiskStore(cfg config.UploadConfig) (*DiskStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear %s: %w", cfg.Dir, err)
	}
	return &DiskStore{
		dir:       cfg.Dir,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
		now:       time.Now,
	}, nil
}

// Save escribe el archivo como sig-<timestamp>-<aleatorio><ext> y devuelve su URL pública.
// Un archivo que supera MaxSignatureBytes se descarta con un error de validación.
func (s *DiskStore) Save(ctx context.Context, up onboarding.Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := fmt.Sprintf("sig-%d-%s%s", s.now().UnixMilli(), uuid.NewString()[:8], extension(up.Filename))
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: crear archivo: %w", err)
	}
	n, err := io.Copy(f, io.LimitReader(up.Reader, MaxSignatureBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxSignatureBytes {
		_ = os.Remove(path)
		v := &domain.ValidationError{}
		v.Add("signature", fmt.Sprintf("la firma supera %d bytes", MaxSignatureBytes))
		return "", v
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("storage: guardar firma: %w", err)
	}
	return s.publicURL + "/" + name, nil
}

// Remove borra la firma apuntada por url. URLs fuera del prefijo público o que
// no nombran un sig-* se ignoran, igual que un archivo que ya no existe.
func (s *DiskStore) Remove(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, ok := strings.CutPrefix(url, s.publicURL+"/")
	if !ok || !strings.HasPrefix(name, "sig-") || strings.ContainsAny(name, `/\`) {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: borrar firma: %w", err)
	}
	return nil
}

// extension conserva solo extensiones simples del nombre original.
func extension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) < 2 || len(ext) > 6 || strings.ContainsAny(ext, `/\ `) {
		return ""
	}
	return ext
}
