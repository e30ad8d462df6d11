package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"icd201_backend/internal/config"
	"icd201_backend/internal/export"
	"icd201_backend/internal/util"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArchiveProvider 导出文档的归档后端，key 使用 "/" 分隔
type ArchiveProvider interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	URL(key string) string
	Name() string
}

// LocalArchive 写入本地目录，通过 /uploads 静态路由访问
type LocalArchive struct {
	Root string
}

func (p *LocalArchive) Put(ctx context.Context, key string, data []byte, contentType string) error {
	dst := filepath.Join(p.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}

func (p *LocalArchive) URL(key string) string {
	return "/uploads/" + key
}

func (p *LocalArchive) Name() string { return util.StorageLocal }

type MinioArchive struct {
	Bucket string
	Client *minio.Client
}

func NewMinioArchive(cfg *config.StorageConfig) (*MinioArchive, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, err
	}
	return &MinioArchive{Bucket: cfg.MinioBucket, Client: client}, nil
}

func (p *MinioArchive) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := p.Client.PutObject(ctx, p.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:        contentType,
		ContentDisposition: "attachment; filename=" + path.Base(key),
	})
	return err
}

func (p *MinioArchive) URL(key string) string {
	return "/" + p.Bucket + "/" + key
}

func (p *MinioArchive) Name() string { return util.StorageMinio }

type OSSArchive struct {
	Endpoint string
	Bucket   *oss.Bucket
}

func NewOSSArchive(cfg *config.StorageConfig) (*OSSArchive, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}
	return &OSSArchive{Endpoint: cfg.OSSEndpoint, Bucket: bucket}, nil
}

func (p *OSSArchive) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return p.Bucket.PutObject(key, bytes.NewReader(data),
		oss.ContentType(contentType),
		oss.ContentDisposition("attachment; filename="+path.Base(key)),
		oss.WithContext(ctx))
}

func (p *OSSArchive) URL(key string) string {
	return fmt.Sprintf("https://%s.%s/%s", p.Bucket.BucketName, p.Endpoint, key)
}

func (p *OSSArchive) Name() string { return util.StorageOSS }

// StorageService 导出归档
type StorageService struct {
	Provider ArchiveProvider
}

// NewStorageService 按 storage.type 选择后端；远程后端初始化失败时退回本地目录并返回错误供调用方记录
func NewStorageService(cfg *config.StorageConfig) (*StorageService, error) {
	var (
		provider ArchiveProvider
		err      error
	)
	switch cfg.Type {
	case util.StorageMinio:
		provider, err = NewMinioArchive(cfg)
	case util.StorageOSS:
		provider, err = NewOSSArchive(cfg)
	}
	if err != nil || provider == nil {
		provider = &LocalArchive{Root: cfg.LocalPath}
	}
	return &StorageService{Provider: provider}, err
}

// ArchiveDocument 以 exports/<id>/<filename> 保存文档，返回访问地址
func (s *StorageService) ArchiveDocument(ctx context.Context, id string, doc *export.Document) (string, error) {
	if s == nil || s.Provider == nil {
		return "", util.ErrStorageDisabled
	}
	key := path.Join("exports", id, doc.Filename)
	if err := s.Provider.Put(ctx, key, doc.Data, doc.ContentType); err != nil {
		return "", fmt.Errorf("archive %s to %s: %w", doc.Filename, s.Provider.Name(), err)
	}
	return s.Provider.URL(key), nil
}

func (s *StorageService) Backend() string {
	if s == nil || s.Provider == nil {
		return "disabled"
	}
	return s.Provider.Name()
}
