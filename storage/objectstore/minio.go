// Package objectstore issues time-limited download URLs for stored files,
// either presigned by a MinIO/S3 deployment or HMAC-signed for local serving.
package objectstore

import (
	"context"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/trezcool/somo/core"
)

// MinioIssuer presigns object GET URLs against a MinIO/S3 bucket.
type MinioIssuer struct {
	client *minio.Client
	bucket string
}

var _ core.LinkIssuer = (*MinioIssuer)(nil)

func NewMinioIssuer(conf *core.Config) (*MinioIssuer, error) {
	client, err := minio.New(conf.ObjectStore.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.ObjectStore.AccessKey, conf.ObjectStore.SecretKey, ""),
		Secure: conf.ObjectStore.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating object store client")
	}
	return &MinioIssuer{client: client, bucket: conf.ObjectStore.Bucket}, nil
}

func (iss *MinioIssuer) IssueURL(ctx context.Context, fileRef string, expiry time.Duration) (string, error) {
	u, err := iss.client.PresignedGetObject(ctx, iss.bucket, fileRef, expiry, url.Values{})
	if err != nil {
		return "", errors.Wrapf(err, "presigning %s", fileRef)
	}
	return u.String(), nil
}
