package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
)

// S3Config: параметры S3-совместимого хранилища.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

// S3Storage хранит изображения в бакете S3-совместимого сервиса.
type S3Storage struct {
	client         s3iface.S3API
	bucket         string
	publicURL      string
	maxUploadBytes int64
}

// NewS3Storage создаёт клиента по статическим ключам.
func NewS3Storage(cfg S3Config, maxUploadMB int64) (*S3Storage, error) {
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(cfg.Endpoint != ""),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось создать сессию S3: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return newS3Storage(s3.New(sess), cfg.Bucket, publicURL, maxUploadMB), nil
}

func newS3Storage(client s3iface.S3API, bucket, publicURL string, maxUploadMB int64) *S3Storage {
	return &S3Storage{
		client:         client,
		bucket:         bucket,
		publicURL:      strings.TrimRight(publicURL, "/"),
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}
}

// Save загружает изображение в ads/<owner>/ с публичным доступом на чтение.
func (s *S3Storage) Save(ctx context.Context, owner uuid.UUID, _ string, r io.Reader) (string, int64, error) {
	data, err := readLimited(r, s.maxUploadBytes)
	if err != nil {
		return "", 0, err
	}
	mime, ext, err := DetectImage(data)
	if err != nil {
		return "", 0, err
	}

	key := fmt.Sprintf("ads/%s/%s%s", owner, uuid.NewString(), ext)
	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(mime),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return "", 0, fmt.Errorf("storage: не удалось загрузить файл в S3: %w", err)
	}
	return key, int64(len(data)), nil
}

// Delete удаляет объект. S3 не возвращает ошибку для отсутствующего ключа.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: не удалось удалить файл из S3: %w", err)
	}
	return nil
}

func (s *S3Storage) URL(key string) string {
	return s.publicURL + "/" + strings.TrimLeft(key, "/")
}
