// Package storage implements content-addressed blob stores over several
// substrates: IPFS nodes, the local filesystem, S3-compatible object storage,
// HashiCorp Vault, and process memory. All stores share the same contract:
// identical bytes always map to the identical address, writes are immutable,
// and reads are permissionless within the backend's own access model.
//
// Stores are created from location URIs through the Factory:
//
//	ipfs://host:port/?timeout=30s
//	file:///var/lib/catalog/blobs
//	s3://ACCESS:SECRET@bucket/prefix/?region=us-east-1
//	vault://vault.example.com:8200/secret/catalog?token=...
//	mem://
//
// The IPFS store addresses content by CID; every other store addresses it by
// the hex-encoded SHA-256 of the bytes.
package storage
