package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"

	"github.com/hackfolio/catalog-backend/interfaces"
)

// VaultStore implements a content store using HashiCorp Vault's KV v2 engine.
// Blobs are written under a fixed data path keyed by their hex SHA-256
// address, authenticated with a Vault token.
type VaultStore struct {
	client      *api.Client
	mountPath   string
	dataPath    string
	log         *slog.Logger
	locationURI string
}

// NewVaultStore creates a new Vault content store.
//
// Parameters:
//   - address: Vault server address (e.g. https://vault.example.com:8200)
//   - mountPath: Vault KV mount path (e.g. "secret")
//   - dataPath: Path within the mount (e.g. "catalog")
//   - token: Vault token used for authentication
//   - log: Structured logger for operational insights
func NewVaultStore(address, mountPath, dataPath, token string, log *slog.Logger) (*VaultStore, error) {
	config := api.DefaultConfig()
	config.Address = address
	config.HttpClient = &http.Client{
		Timeout: 30 * time.Second,
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	client.SetToken(token)

	mountPath = strings.TrimSuffix(mountPath, "/")
	dataPath = strings.TrimPrefix(dataPath, "/")
	dataPath = strings.TrimSuffix(dataPath, "/")

	return &VaultStore{
		client:      client,
		mountPath:   mountPath,
		dataPath:    dataPath,
		log:         log,
		locationURI: fmt.Sprintf("vault://%s/%s/%s", address, mountPath, dataPath),
	}, nil
}

// Put saves data to Vault and returns its content address.
func (s *VaultStore) Put(ctx context.Context, data []byte) (interfaces.Address, error) {
	start := time.Now()
	addr := interfaces.ComputeAddress(data)
	path := s.blobPath(addr)

	// KV v2 format
	secretData := map[string]interface{}{
		"data": map[string]interface{}{
			"content": string(data),
		},
	}

	_, err := s.client.Logical().WriteWithContext(ctx, path, secretData)
	if err != nil {
		s.log.Error("Failed to write to Vault",
			slog.String("path", path),
			slog.String("address", addr.String()),
			"err", err)
		return addr, fmt.Errorf("%w: %v", interfaces.ErrWriteFailed, err)
	}

	s.log.Debug("Stored content in Vault",
		slog.String("address", addr.String()),
		slog.Duration("duration", time.Since(start)))

	return addr, nil
}

// Get retrieves data from Vault by its content address.
func (s *VaultStore) Get(ctx context.Context, addr interfaces.Address) ([]byte, error) {
	start := time.Now()
	path := s.blobPath(addr)

	secret, err := s.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		s.log.Error("Failed to read from Vault",
			slog.String("path", path),
			slog.String("address", addr.String()),
			"err", err)
		return nil, fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}

	if secret == nil || secret.Data == nil {
		s.log.Debug("Content not found in Vault",
			slog.String("path", path),
			slog.String("address", addr.String()))
		return nil, interfaces.ErrBlobNotFound
	}

	// KV v2 response nests the payload under "data"
	data, ok := secret.Data["data"]
	if !ok {
		return nil, fmt.Errorf("invalid data format in Vault response")
	}

	content, ok := data.(map[string]interface{})["content"]
	if !ok {
		return nil, fmt.Errorf("content key not found in Vault data")
	}

	contentStr, ok := content.(string)
	if !ok {
		return nil, fmt.Errorf("invalid content format in Vault data")
	}

	s.log.Debug("Fetched content from Vault",
		slog.String("address", addr.String()),
		slog.Duration("duration", time.Since(start)))

	return []byte(contentStr), nil
}

// Available checks if the Vault store is accessible.
// It uses the health endpoint to verify that Vault is initialized and unsealed.
func (s *VaultStore) Available(ctx context.Context) bool {
	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := s.client.Sys().HealthWithContext(healthCtx)
	if err != nil {
		s.log.Debug("Vault health check failed", "err", err)
		return false
	}

	if !health.Initialized || health.Sealed {
		s.log.Debug("Vault is not available",
			slog.Bool("initialized", health.Initialized),
			slog.Bool("sealed", health.Sealed))
		return false
	}

	return true
}

// Name returns a unique identifier for this content store.
func (s *VaultStore) Name() string {
	return fmt.Sprintf("vault-%s-%s", s.mountPath, s.dataPath)
}

// LocationURI returns the URI that identifies this content store.
func (s *VaultStore) LocationURI() string {
	return s.locationURI
}

func (s *VaultStore) blobPath(addr interfaces.Address) string {
	// KV v2 data path structure
	return fmt.Sprintf("%s/data/%s/%s", s.mountPath, s.dataPath, addr.String())
}
