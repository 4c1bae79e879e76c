package cloud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	apistorage "github.com/periflow/cli/pkg/api/types/storage"
)

type s3Lister struct {
	client *s3.Client
}

func newS3Lister(ctx context.Context, credential map[string]any) (Lister, error) {
	accessKey, err := stringField(credential, "aws_access_key_id")
	if err != nil {
		return nil, err
	}
	secretKey, err := stringField(credential, "aws_secret_access_key")
	if err != nil {
		return nil, err
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	}
	if region, err := stringField(credential, "aws_default_region"); err == nil && region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &s3Lister{client: s3.NewFromConfig(cfg)}, nil
}

func (l *s3Lister) ListFiles(ctx context.Context, storageName string, pathPrefix string) ([]apistorage.FileInfo, error) {
	if _, err := l.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(storageName),
	}); err != nil {
		// covers both missing buckets and forbidden access
		return nil, fmt.Errorf("%w: bucket %s: %s", ErrStorageNotFound, storageName, err.Error())
	}

	input := &s3.ListObjectsV2Input{Bucket: aws.String(storageName)}
	if pathPrefix != "" {
		input.Prefix = aws.String(pathPrefix)
	}

	files := []apistorage.FileInfo{}
	pager := s3.NewListObjectsV2Paginator(l.client, input)
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			name := key[strings.LastIndex(key, "/")+1:]
			if name == "" {
				continue // directory placeholder
			}
			files = append(files, apistorage.FileInfo{
				Name:  name,
				Path:  key,
				MTime: aws.ToTime(obj.LastModified).UTC().Format(time.RFC3339),
				Size:  aws.ToInt64(obj.Size),
			})
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: bucket %s", ErrNoFile, storageName)
	}
	return files, nil
}
