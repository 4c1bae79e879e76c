package cloud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	apistorage "github.com/periflow/cli/pkg/api/types/storage"
)

type blobLister struct {
	client *azblob.Client
}

func newBlobLister(credential map[string]any) (Lister, error) {
	accountName, err := stringField(credential, "storage_account_name")
	if err != nil {
		return nil, err
	}
	accountKey, err := stringField(credential, "storage_account_key")
	if err != nil {
		return nil, err
	}

	cred, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, err
	}
	return &blobLister{client: client}, nil
}

func (l *blobLister) ListFiles(ctx context.Context, storageName string, pathPrefix string) ([]apistorage.FileInfo, error) {
	container := l.client.ServiceClient().NewContainerClient(storageName)
	if _, err := container.GetProperties(ctx, nil); err != nil {
		return nil, fmt.Errorf("%w: container %s: %s", ErrStorageNotFound, storageName, err.Error())
	}

	opts := &azblob.ListBlobsFlatOptions{}
	if pathPrefix != "" {
		opts.Prefix = &pathPrefix
	}

	files := []apistorage.FileInfo{}
	pager := l.client.NewListBlobsFlatPager(storageName, opts)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, blob := range page.Segment.BlobItems {
			if blob.Name == nil {
				continue
			}
			key := *blob.Name
			name := key[strings.LastIndex(key, "/")+1:]
			if name == "" {
				continue // directory placeholder
			}

			mtime := ""
			size := int64(0)
			if props := blob.Properties; props != nil {
				if props.LastModified != nil {
					mtime = props.LastModified.UTC().Format(time.RFC3339)
				}
				if props.ContentLength != nil {
					size = *props.ContentLength
				}
			}
			files = append(files, apistorage.FileInfo{
				Name:  name,
				Path:  key,
				MTime: mtime,
				Size:  size,
			})
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: container %s", ErrNoFile, storageName)
	}
	return files, nil
}
