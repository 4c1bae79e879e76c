package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	apistorage "github.com/periflow/cli/pkg/api/types/storage"
)

type gcsLister struct {
	client *gcs.Client
}

// newGcsLister takes the whole credential value as a service account
// key, the form the GCP credential is stored in.
func newGcsLister(ctx context.Context, credential map[string]any) (Lister, error) {
	keyJson, err := json.Marshal(credential)
	if err != nil {
		return nil, err
	}

	client, err := gcs.NewClient(ctx, option.WithCredentialsJSON(keyJson))
	if err != nil {
		return nil, err
	}
	return &gcsLister{client: client}, nil
}

func (l *gcsLister) ListFiles(ctx context.Context, storageName string, pathPrefix string) ([]apistorage.FileInfo, error) {
	bucket := l.client.Bucket(storageName)
	if _, err := bucket.Attrs(ctx); err != nil {
		if errors.Is(err, gcs.ErrBucketNotExist) {
			return nil, fmt.Errorf("%w: bucket %s", ErrStorageNotFound, storageName)
		}
		return nil, err
	}

	query := &gcs.Query{}
	if pathPrefix != "" {
		query.Prefix = pathPrefix
	}

	files := []apistorage.FileInfo{}
	it := bucket.Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}

		name := attrs.Name[strings.LastIndex(attrs.Name, "/")+1:]
		if name == "" {
			continue // directory placeholder
		}
		files = append(files, apistorage.FileInfo{
			Name:  name,
			Path:  attrs.Name,
			MTime: attrs.Updated.UTC().Format(time.RFC3339),
			Size:  attrs.Size,
		})
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: bucket %s", ErrNoFile, storageName)
	}
	return files, nil
}
