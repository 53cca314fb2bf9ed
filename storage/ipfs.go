package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"

	"github.com/hackfolio/catalog-backend/interfaces"
)

// IPFSStore implements a content store backed by an IPFS node. Addresses are
// the CIDs returned by the node on add.
type IPFSStore struct {
	shell       *shell.Shell
	host        string
	port        string
	log         *slog.Logger
	locationURI string
}

// NewIPFSStore creates a new IPFS content store connected to the node API at
// the specified host and port.
func NewIPFSStore(host, port, timeout string, log *slog.Logger) (*IPFSStore, error) {
	apiURL := fmt.Sprintf("%s:%s", host, port)
	uri := fmt.Sprintf("ipfs://%s/?timeout=%s", apiURL, timeout)

	return &IPFSStore{
		shell:       shell.NewShell(apiURL),
		host:        host,
		port:        port,
		log:         log,
		locationURI: uri,
	}, nil
}

// Shell exposes the underlying IPFS API shell so the naming layer can share
// the node connection for IPNS publishing.
func (s *IPFSStore) Shell() *shell.Shell {
	return s.shell
}

// Put adds data to IPFS and returns the CID as its content address.
// Returns ErrStoreUnavailable if the IPFS node is not accessible.
func (s *IPFSStore) Put(ctx context.Context, data []byte) (interfaces.Address, error) {
	if !s.shell.IsUp() {
		s.log.Warn("IPFS node unavailable",
			slog.String("host", s.host),
			slog.String("port", s.port))
		return "", interfaces.ErrStoreUnavailable
	}

	cid, err := s.shell.Add(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: failed to add data to IPFS: %v", interfaces.ErrWriteFailed, err)
	}

	s.log.Debug("Stored content in IPFS",
		slog.String("cid", cid),
		slog.Int("size", len(data)))

	return interfaces.Address(cid), nil
}

// Get retrieves data from IPFS by content address. Returns ErrBlobNotFound if
// the content doesn't exist or ErrStoreUnavailable if the IPFS node is not
// accessible.
func (s *IPFSStore) Get(ctx context.Context, addr interfaces.Address) ([]byte, error) {
	start := time.Now()
	path := "/ipfs/" + addr.String()

	if !s.shell.IsUp() {
		s.log.Warn("IPFS node unavailable",
			slog.String("host", s.host),
			slog.String("port", s.port))
		return nil, interfaces.ErrStoreUnavailable
	}

	reader, err := s.shell.Cat(path)
	if err != nil {
		if strings.Contains(err.Error(), "no link named") || strings.Contains(err.Error(), "invalid path") {
			s.log.Debug("Content not found in IPFS",
				slog.String("path", path),
				slog.Duration("duration", time.Since(start)))
			return nil, interfaces.ErrBlobNotFound
		}

		s.log.Error("Failed to fetch data from IPFS",
			slog.String("path", path),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("failed to fetch data from IPFS: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		s.log.Error("Failed to read data from IPFS",
			slog.String("path", path),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("failed to read data from IPFS: %w", err)
	}

	s.log.Debug("Fetched content from IPFS",
		slog.String("path", path),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return data, nil
}

// Available checks if the IPFS node is accessible.
func (s *IPFSStore) Available(ctx context.Context) bool {
	return s.shell.IsUp()
}

// Name returns a unique identifier for this content store.
func (s *IPFSStore) Name() string {
	return fmt.Sprintf("ipfs-%s-%s", s.host, s.port)
}

// LocationURI returns the URI that identifies this content store.
func (s *IPFSStore) LocationURI() string {
	return s.locationURI
}
