package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	p "path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/klauspost/compress/s2"

	internalStorage "github.com/diamonddb/diamond-node/internal/storage"
	"github.com/diamonddb/diamond-node/pkg/config"
)

// Object metadata key holding the decompressed size of the object.
const objectSizeMetadataKey = "decompressed-size"

// ObjectClient is the subset of the S3 API used by the driver. *s3.Client
// satisfies it.
type ObjectClient interface {
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ObjectFileSystemDriver stores every file as a single s2 compressed object.
// Appends and positional writes rewrite the whole object.
type ObjectFileSystemDriver struct {
	bucket  string
	buffers sync.Pool
	client  ObjectClient
	context context.Context
}

func NewObjectFileSystemDriver(c *config.Config) (*ObjectFileSystemDriver, error) {
	ctx := context.Background()

	options := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(c.StorageRegion),
	}

	if c.StorageEndpoint != "" {
		options = append(options, awsConfig.WithBaseEndpoint(c.StorageEndpoint))
	}

	if c.StorageAccessKeyId != "" {
		options = append(options, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				c.StorageAccessKeyId,
				c.StorageSecretAccessKey,
				"",
			),
		))
	}

	sdkConfig, err := awsConfig.LoadDefaultConfig(ctx, options...)

	if err != nil {
		return nil, fmt.Errorf("could not load object storage configuration: %w", err)
	}

	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if c.FakeObjectStorage {
			o.UsePathStyle = true
		}
	})

	return NewObjectFileSystemDriverWithClient(client, c.StorageBucket), nil
}

func NewObjectFileSystemDriverWithClient(client ObjectClient, bucket string) *ObjectFileSystemDriver {
	return &ObjectFileSystemDriver{
		bucket: bucket,
		buffers: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 1024))
			},
		},
		client:  client,
		context: context.Background(),
	}
}

func (fs *ObjectFileSystemDriver) Append(path string, data []byte) error {
	existing, err := fs.ReadFile(path)

	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return fs.WriteFile(path, append(existing, data...), 0600)
}

// Create the bucket if it does not exist yet.
func (fs *ObjectFileSystemDriver) EnsureBucketExists() error {
	_, err := fs.client.HeadBucket(fs.context, &s3.HeadBucketInput{
		Bucket: aws.String(fs.bucket),
	})

	if err == nil {
		return nil
	}

	_, err = fs.client.CreateBucket(fs.context, &s3.CreateBucketInput{
		Bucket: aws.String(fs.bucket),
	})

	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", fs.bucket, err)
	}

	return nil
}

func (fs *ObjectFileSystemDriver) MkdirAll(path string, perm fs.FileMode) error {
	// This is a no-op since there are no directories in object storage
	return nil
}

func (fs *ObjectFileSystemDriver) ReadDir(path string) ([]internalStorage.DirEntry, error) {
	prefix := strings.TrimPrefix(path, "/")

	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	paginator := s3.NewListObjectsV2Paginator(fs.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(fs.bucket),
		Delimiter: aws.String("/"),
		MaxKeys:   aws.Int32(1000),
		Prefix:    aws.String(prefix),
	})

	entries := make([]internalStorage.DirEntry, 0)

	for paginator.HasMorePages() {
		response, err := paginator.NextPage(fs.context)

		if err != nil {
			if isObjectNotFound(err) {
				return nil, &os.PathError{Op: "readdir", Path: path, Err: os.ErrNotExist}
			}

			return nil, err
		}

		for _, object := range response.Contents {
			key := p.Base(aws.ToString(object.Key))

			entries = append(entries, internalStorage.NewDirEntry(
				key,
				false,
				NewStaticFileInfo(key, aws.ToInt64(object.Size), aws.ToTime(object.LastModified)),
			))
		}

		for _, commonPrefix := range response.CommonPrefixes {
			key := p.Base(strings.TrimRight(aws.ToString(commonPrefix.Prefix), "/"))

			entries = append(entries, internalStorage.NewDirEntry(
				key,
				true,
				NewStaticFileInfo(key+"/", 0, time.Time{}),
			))
		}
	}

	return entries, nil
}

func (fs *ObjectFileSystemDriver) ReadFile(path string) ([]byte, error) {
	output, err := fs.client.GetObject(fs.context, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(path),
	})

	if err != nil {
		if isObjectNotFound(err) {
			return nil, &os.PathError{Op: "read", Path: path, Err: os.ErrNotExist}
		}

		slog.Error("Error reading object", "key", path, "error", err)

		return nil, err
	}

	defer output.Body.Close()

	body, err := io.ReadAll(output.Body)

	if err != nil {
		slog.Error("Error reading object body", "key", path, "error", err)
		return nil, err
	}

	if len(body) == 0 {
		return []byte{}, nil
	}

	decompressed, err := s2.Decode(nil, body)

	if err != nil {
		slog.Error("Error decompressing object", "key", path, "size", len(body), "error", err)
		return nil, err
	}

	return decompressed, nil
}

func (fs *ObjectFileSystemDriver) Remove(path string) error {
	_, err := fs.client.DeleteObject(fs.context, &s3.DeleteObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(path),
	})

	return err
}

func (fs *ObjectFileSystemDriver) RemoveAll(path string) error {
	paginator := s3.NewListObjectsV2Paginator(fs.client, &s3.ListObjectsV2Input{
		Bucket:  aws.String(fs.bucket),
		MaxKeys: aws.Int32(1000),
		Prefix:  aws.String(strings.TrimPrefix(path, "/")),
	})

	for paginator.HasMorePages() {
		response, err := paginator.NextPage(fs.context)

		if err != nil {
			return err
		}

		if len(response.Contents) == 0 {
			break
		}

		objectsToDelete := make([]s3types.ObjectIdentifier, len(response.Contents))

		for i, object := range response.Contents {
			objectsToDelete[i] = s3types.ObjectIdentifier{Key: object.Key}
		}

		_, err = fs.client.DeleteObjects(fs.context, &s3.DeleteObjectsInput{
			Bucket: aws.String(fs.bucket),
			Delete: &s3types.Delete{
				Objects: objectsToDelete,
			},
		})

		if err != nil {
			return err
		}
	}

	return nil
}

func (fs *ObjectFileSystemDriver) Stat(path string) (fs.FileInfo, error) {
	output, err := fs.client.HeadObject(fs.context, &s3.HeadObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(path),
	})

	if err != nil {
		if isObjectNotFound(err) {
			return nil, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
		}

		return nil, err
	}

	size := aws.ToInt64(output.ContentLength)

	if value, ok := output.Metadata[objectSizeMetadataKey]; ok {
		if decompressedSize, err := strconv.ParseInt(value, 10, 64); err == nil {
			size = decompressedSize
		}
	}

	return NewStaticFileInfo(p.Base(path), size, aws.ToTime(output.LastModified)), nil
}

func (fs *ObjectFileSystemDriver) WriteAt(path string, data []byte, offset int64) error {
	existing, err := fs.ReadFile(path)

	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	end := offset + int64(len(data))

	if int64(len(existing)) < end {
		grown := make([]byte, end)
		copy(grown, existing)
		existing = grown
	}

	copy(existing[offset:end], data)

	return fs.WriteFile(path, existing, 0600)
}

func (fs *ObjectFileSystemDriver) WriteFile(path string, data []byte, perm fs.FileMode) error {
	compressionBuffer := fs.buffers.Get().(*bytes.Buffer)
	defer fs.buffers.Put(compressionBuffer)

	compressionBuffer.Reset()

	maxEncodedLen := s2.MaxEncodedLen(len(data))

	if compressionBuffer.Cap() < maxEncodedLen {
		compressionBuffer.Grow(maxEncodedLen)
	}

	compressed := s2.Encode(compressionBuffer.Bytes()[:maxEncodedLen], data)

	_, err := fs.client.PutObject(fs.context, &s3.PutObjectInput{
		Body:        bytes.NewReader(compressed),
		Bucket:      aws.String(fs.bucket),
		ContentType: aws.String("application/octet-stream"),
		Key:         aws.String(path),
		Metadata: map[string]string{
			objectSizeMetadataKey: strconv.Itoa(len(data)),
		},
	})

	return err
}

func isObjectNotFound(err error) bool {
	var noKey *s3types.NoSuchKey
	var notFound *s3types.NotFound

	if errors.As(err, &notFound) || errors.As(err, &noKey) {
		return true
	}

	var apiErr smithy.APIError

	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}

	return false
}
