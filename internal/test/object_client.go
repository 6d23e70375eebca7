package test

import (
	"bytes"
	"context"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type storedObject struct {
	body     []byte
	metadata map[string]string
	modTime  time.Time
}

// ObjectClient is an in-memory stand-in for the S3 API. It ignores buckets
// other than for existence checks and never paginates.
type ObjectClient struct {
	buckets map[string]bool
	mutex   sync.Mutex
	objects map[string]storedObject
}

func NewObjectClient() *ObjectClient {
	return &ObjectClient{
		buckets: make(map[string]bool),
		objects: make(map[string]storedObject),
	}
}

func (c *ObjectClient) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.buckets[aws.ToString(params.Bucket)] = true

	return &s3.CreateBucketOutput{}, nil
}

func (c *ObjectClient) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.objects, aws.ToString(params.Key))

	return &s3.DeleteObjectOutput{}, nil
}

func (c *ObjectClient) DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, object := range params.Delete.Objects {
		delete(c.objects, aws.ToString(object.Key))
	}

	return &s3.DeleteObjectsOutput{}, nil
}

func (c *ObjectClient) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	object, ok := c.objects[aws.ToString(params.Key)]

	if !ok {
		return nil, &s3types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}

	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(object.body)),
		ContentLength: aws.Int64(int64(len(object.body))),
		LastModified:  aws.Time(object.modTime),
		Metadata:      maps.Clone(object.metadata),
	}, nil
}

func (c *ObjectClient) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.buckets[aws.ToString(params.Bucket)] {
		return nil, &s3types.NotFound{}
	}

	return &s3.HeadBucketOutput{}, nil
}

func (c *ObjectClient) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	object, ok := c.objects[aws.ToString(params.Key)]

	if !ok {
		return nil, &s3types.NotFound{}
	}

	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(object.body))),
		LastModified:  aws.Time(object.modTime),
		Metadata:      maps.Clone(object.metadata),
	}, nil
}

func (c *ObjectClient) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	prefix := aws.ToString(params.Prefix)
	delimiter := aws.ToString(params.Delimiter)

	output := &s3.ListObjectsV2Output{
		IsTruncated: aws.Bool(false),
	}

	seenPrefixes := map[string]bool{}

	for _, key := range slices.Sorted(maps.Keys(c.objects)) {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		rest := key[len(prefix):]

		if delimiter != "" {
			if index := strings.Index(rest, delimiter); index >= 0 {
				commonPrefix := prefix + rest[:index+len(delimiter)]

				if !seenPrefixes[commonPrefix] {
					seenPrefixes[commonPrefix] = true
					output.CommonPrefixes = append(output.CommonPrefixes, s3types.CommonPrefix{Prefix: aws.String(commonPrefix)})
				}

				continue
			}
		}

		object := c.objects[key]

		output.Contents = append(output.Contents, s3types.Object{
			Key:          aws.String(key),
			LastModified: aws.Time(object.modTime),
			Size:         aws.Int64(int64(len(object.body))),
		})
	}

	output.KeyCount = aws.Int32(int32(len(output.Contents) + len(output.CommonPrefixes)))

	return output, nil
}

func (c *ObjectClient) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(params.Body)

	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.objects[aws.ToString(params.Key)] = storedObject{
		body:     body,
		metadata: maps.Clone(params.Metadata),
		modTime:  time.Now().UTC(),
	}

	return &s3.PutObjectOutput{}, nil
}

// Return the keys of every stored object.
func (c *ObjectClient) Keys() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return slices.Sorted(maps.Keys(c.objects))
}
