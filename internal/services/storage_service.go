// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/slayk/storefront-admin/internal/config"
)

const productImageFolder = "products"

var ErrInvalidUpload = errors.New("invalid upload")

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// StorageService stores product media in S3 when AWS credentials are
// configured and on local disk otherwise.
type StorageService struct {
	s3Client *s3.S3
	aws      config.AWSConfig
	storage  config.StorageConfig
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

func NewStorageService(awsCfg config.AWSConfig, storageCfg config.StorageConfig) (*StorageService, error) {
	service := &StorageService{aws: awsCfg, storage: storageCfg}
	if awsCfg.AccessKeyID == "" {
		return service, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(awsCfg.Region),
		Credentials: credentials.NewStaticCredentials(
			awsCfg.AccessKeyID,
			awsCfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	service.s3Client = s3.New(sess)
	return service, nil
}

// IsLocal reports whether uploads land on local disk.
func (s *StorageService) IsLocal() bool {
	return s.s3Client == nil
}

// LocalPath is the directory backing /uploads when IsLocal.
func (s *StorageService) LocalPath() string {
	return s.storage.LocalPath
}

func (s *StorageService) maxUploadBytes() int64 {
	return int64(s.storage.MaxUploadMB) * 1024 * 1024
}

// UploadProductImages validates every file before storing any of them. If a
// store fails midway the files already stored are removed again.
func (s *StorageService) UploadProductImages(ctx context.Context, headers []*multipart.FileHeader) ([]UploadResult, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("no files: %w", ErrInvalidUpload)
	}

	type pending struct {
		name        string
		data        []byte
		contentType string
	}
	files := make([]pending, 0, len(headers))
	for _, header := range headers {
		data, contentType, err := s.readImage(header)
		if err != nil {
			return nil, err
		}
		files = append(files, pending{name: header.Filename, data: data, contentType: contentType})
	}

	results := make([]UploadResult, 0, len(files))
	for _, f := range files {
		key := s.generateKey(f.name, productImageFolder)
		result, err := s.store(ctx, key, f.data, f.contentType)
		if err != nil {
			for _, done := range results {
				if delErr := s.DeleteFile(ctx, done.Key); delErr != nil {
					logrus.WithError(delErr).WithField("key", done.Key).Warn("Failed to remove partial upload")
				}
			}
			return nil, err
		}
		results = append(results, *result)
	}
	return results, nil
}

// readImage enforces the size limit, the extension allow list and that the
// content actually sniffs as the image type the extension claims.
func (s *StorageService) readImage(header *multipart.FileHeader) ([]byte, string, error) {
	if max := s.maxUploadBytes(); max > 0 && header.Size > max {
		return nil, "", fmt.Errorf("%s exceeds %d MB: %w", header.Filename, s.storage.MaxUploadMB, ErrInvalidUpload)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	expected, ok := allowedImageTypes[ext]
	if !ok {
		return nil, "", fmt.Errorf("file type %q is not allowed: %w", ext, ErrInvalidUpload)
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", header.Filename, err)
	}

	if detected := http.DetectContentType(data); detected != expected {
		return nil, "", fmt.Errorf("%s content is %s: %w", header.Filename, detected, ErrInvalidUpload)
	}
	return data, expected, nil
}

func (s *StorageService) store(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	if s.s3Client != nil {
		return s.uploadToS3(ctx, key, data, contentType)
	}
	return s.uploadToLocal(key, data, contentType)
}

func (s *StorageService) uploadToS3(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.aws.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(key string, data []byte, contentType string) (*UploadResult, error) {
	target := filepath.Join(s.storage.LocalPath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	return &UploadResult{
		URL:      strings.TrimRight(s.storage.PublicBaseURL, "/") + "/uploads/" + key,
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) DeleteFile(ctx context.Context, key string) error {
	if s.s3Client == nil {
		err := os.Remove(filepath.Join(s.storage.LocalPath, filepath.FromSlash(key)))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete local file: %w", err)
		}
		return nil
	}

	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.aws.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

func (s *StorageService) generateKey(originalName, folder string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	timestamp := time.Now().UTC().Format("20060102")
	return path.Join(folder, fmt.Sprintf("%s_%s%s", timestamp, uuid.NewString()[:8], ext))
}

func (s *StorageService) getS3URL(key string) string {
	if s.aws.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.aws.CloudFrontURL, "/"), key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.aws.S3Bucket, s.aws.Region, key)
}
