package naming

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hackfolio/catalog-backend/interfaces"
)

// FileResolver keeps pointer bindings as one file per name under a base
// directory. It pairs with the file, S3, and Vault content stores in
// deployments that have no IPNS-capable node.
type FileResolver struct {
	baseDir string
	log     *slog.Logger
}

// NewFileResolver creates a file pointer table under baseDir, creating the
// directory if needed.
func NewFileResolver(baseDir string, log *slog.Logger) (*FileResolver, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, "pointers"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create pointers directory: %w", err)
	}
	return &FileResolver{
		baseDir: baseDir,
		log:     log,
	}, nil
}

// Publish rebinds the pointer named keyName to addr.
func (r *FileResolver) Publish(ctx context.Context, keyName string, addr interfaces.Address) (interfaces.PointerName, error) {
	name := interfaces.PointerName(keyName)

	if err := os.WriteFile(r.pointerPath(name), []byte(addr.String()+"\n"), 0644); err != nil {
		return "", fmt.Errorf("%w: write pointer file: %v", interfaces.ErrWriteFailed, err)
	}

	r.log.Debug("Published pointer in file",
		slog.String("name", keyName),
		slog.String("address", addr.String()))

	return name, nil
}

// PointerFor returns the key name itself as the bound name.
func (r *FileResolver) PointerFor(ctx context.Context, keyName string) (interfaces.PointerName, error) {
	return interfaces.PointerName(keyName), nil
}

// Resolve returns the bound address or ErrPointerNotFound.
func (r *FileResolver) Resolve(ctx context.Context, name interfaces.PointerName) (interfaces.Address, error) {
	data, err := os.ReadFile(r.pointerPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", interfaces.ErrPointerNotFound
		}
		return "", fmt.Errorf("read pointer file: %w", err)
	}

	addr := strings.TrimSpace(string(data))
	if addr == "" {
		return "", interfaces.ErrPointerNotFound
	}
	return interfaces.Address(addr), nil
}

// Available checks that the base directory exists.
func (r *FileResolver) Available(ctx context.Context) bool {
	_, err := os.Stat(r.baseDir)
	return err == nil
}

// Name returns an identifier for logging.
func (r *FileResolver) Name() string {
	return "file-resolver"
}

func (r *FileResolver) pointerPath(name interfaces.PointerName) string {
	return filepath.Join(r.baseDir, "pointers", name.String())
}
