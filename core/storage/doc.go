// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so that a pre-built web archive can be fetched from
// AWS S3 or a self-hosted MinIO bucket instead of the local filesystem.
//
// # Client Interface
//
// The Client interface covers BucketExists, StatObject and GetObject.
// core/storage/mocks provides a testify mock of it.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	info, err := client.StatObject(ctx, "archives", "cmis-inmemory.zip", minio.StatObjectOptions{})
package storage
