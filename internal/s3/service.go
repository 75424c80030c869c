package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/flexprice/couponmanager/internal/config"
	ierr "github.com/flexprice/couponmanager/internal/errors"
	internalTypes "github.com/flexprice/couponmanager/internal/types"
)

type Service interface {
	UploadDocument(ctx context.Context, document *Document) error
	GetDocument(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// objectAPI is the subset of the S3 client used by the service
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type s3ServiceImpl struct {
	client    objectAPI
	bucket    string
	keyPrefix string
}

// NewService returns nil when the ledger is not stored in S3
func NewService(config *config.Configuration) (Service, error) {
	if config.Ledger.Backend != internalTypes.LedgerBackendS3 {
		return nil, nil
	}

	awsCfg, err := loadAwsConfig(config)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to load aws config").
			Mark(ierr.ErrHTTPClient)
	}

	return newService(s3.NewFromConfig(awsCfg), config.Ledger.S3), nil
}

func loadAwsConfig(cfg *config.Configuration) (aws.Config, error) {
	return config.LoadAwsConfig(context.Background(), cfg.Ledger.S3.Region)
}

func newService(client objectAPI, cfg config.LedgerS3Config) *s3ServiceImpl {
	return &s3ServiceImpl{
		client:    client,
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
	}
}

func (s *s3ServiceImpl) getObjectKey(key string) string {
	if s.keyPrefix != "" {
		return fmt.Sprintf("%s/%s", s.keyPrefix, key)
	}
	return key
}

func (s *s3ServiceImpl) getContentType(docKind DocumentKind) string {
	switch docKind {
	case DocumentKindJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

func isMissing(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}

// Exists implements Service.
func (s *s3ServiceImpl) Exists(ctx context.Context, key string) (bool, error) {
	objectKey := s.getObjectKey(key)

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		if isMissing(err) {
			return false, nil
		}
		return false, ierr.WithError(err).WithHint("failed to check if document exists").
			WithMessagef("bucket:%s, key:%s", s.bucket, objectKey).
			Mark(ierr.ErrHTTPClient)
	}

	return true, nil
}

// UploadDocument implements Service.
func (s *s3ServiceImpl) UploadDocument(ctx context.Context, document *Document) error {
	objectKey := s.getObjectKey(document.Key)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(document.Data),
		ContentType: aws.String(s.getContentType(document.Kind)),
	})
	if err != nil {
		return ierr.WithError(err).WithHint("failed to upload document").
			WithMessagef("bucket:%s, key:%s", s.bucket, objectKey).
			Mark(ierr.ErrHTTPClient)
	}

	return nil
}

// GetDocument implements Service. A missing object is reported as ErrNotFound.
func (s *s3ServiceImpl) GetDocument(ctx context.Context, key string) ([]byte, error) {
	objectKey := s.getObjectKey(key)

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		if isMissing(err) {
			return nil, ierr.WithError(err).WithHint("document does not exist").
				WithMessagef("bucket:%s, key:%s", s.bucket, objectKey).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).WithHint("failed to get document").
			WithMessagef("bucket:%s, key:%s", s.bucket, objectKey).
			Mark(ierr.ErrHTTPClient)
	}

	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to read document").
			Mark(ierr.ErrHTTPClient)
	}
	return data, nil
}
