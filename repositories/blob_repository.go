package repositories

import (
	"context"
	"io"
	"sync"

	"github.com/cockroachdb/errors"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/ecomdata/import-backend/models"
)

type Blob struct {
	FileName   string
	ReadCloser io.ReadCloser
}

type BlobRepository interface {
	GetBlob(ctx context.Context, bucketUrl, fileName string) (Blob, error)
	OpenStream(ctx context.Context, bucketUrl, fileName string) (io.WriteCloser, error)
	DeleteFile(ctx context.Context, bucketUrl, fileName string) error
}

type blobRepository struct {
	mu      sync.Mutex
	buckets map[string]*blob.Bucket
}

func NewBlobRepository() BlobRepository {
	return &blobRepository{
		buckets: make(map[string]*blob.Bucket),
	}
}

func (repo *blobRepository) openBlobBucket(ctx context.Context, bucketUrl string) (*blob.Bucket, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.buckets[bucketUrl] == nil {
		bucket, err := blob.OpenBucket(ctx, bucketUrl)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open bucket %s", bucketUrl)
		}

		ok, err := bucket.IsAccessible(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to check bucket accessibility %s", bucketUrl)
		} else if !ok {
			return nil, errors.Newf("bucket %s is not accessible", bucketUrl)
		}

		repo.buckets[bucketUrl] = bucket
	}
	return repo.buckets[bucketUrl], nil
}

func (repo *blobRepository) GetBlob(ctx context.Context, bucketUrl, fileName string) (Blob, error) {
	bucket, err := repo.openBlobBucket(ctx, bucketUrl)
	if err != nil {
		return Blob{}, err
	}

	ok, err := bucket.Exists(ctx, fileName)
	if err != nil {
		return Blob{}, errors.Wrapf(err, "failed to check if file %s exists in bucket %s", fileName, bucketUrl)
	} else if !ok {
		return Blob{}, errors.Wrapf(models.NotFoundError,
			"file %s does not exist in bucket %s", fileName, bucketUrl)
	}

	reader, err := bucket.NewReader(ctx, fileName, nil)
	if err != nil {
		return Blob{}, errors.Wrapf(err, "failed to read object %s/%s", bucketUrl, fileName)
	}

	return Blob{FileName: fileName, ReadCloser: reader}, nil
}

func (repo *blobRepository) OpenStream(ctx context.Context, bucketUrl, fileName string) (io.WriteCloser, error) {
	bucket, err := repo.openBlobBucket(ctx, bucketUrl)
	if err != nil {
		return nil, err
	}

	return bucket.NewWriter(ctx, fileName, nil)
}

func (repo *blobRepository) DeleteFile(ctx context.Context, bucketUrl, fileName string) error {
	bucket, err := repo.openBlobBucket(ctx, bucketUrl)
	if err != nil {
		return err
	}

	return bucket.Delete(ctx, fileName)
}
