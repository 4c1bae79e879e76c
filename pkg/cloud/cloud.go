// Package cloud lists files in user-owned cloud storages.
//
// It is used when a dataset or a checkpoint is registered on top of
// a storage the user already has, to record the file inventory.
package cloud

import (
	"context"
	"errors"
	"fmt"

	apistorage "github.com/periflow/cli/pkg/api/types/storage"
)

// ErrNoFile is returned when the storage holds nothing to register.
var ErrNoFile = errors.New("no file exists in the storage")

// ErrStorageNotFound is returned when the named bucket or container
// does not exist, or the credential cannot see it.
var ErrStorageNotFound = errors.New("storage is not found")

// Lister enumerates files of one storage vendor.
type Lister interface {
	// ListFiles returns files under pathPrefix in the storage.
	//
	// Keys ending with a slash are vendor-specific directory
	// placeholders and are skipped. An empty result is ErrNoFile.
	ListFiles(ctx context.Context, storageName string, pathPrefix string) ([]apistorage.FileInfo, error)
}

// ForVendor builds a Lister talking to the given storage vendor
// with a stored credential value.
func ForVendor(ctx context.Context, vendor apistorage.Type, credential map[string]any) (Lister, error) {
	switch vendor {
	case apistorage.TypeS3:
		return newS3Lister(ctx, credential)
	case apistorage.TypeAzureBlob:
		return newBlobLister(credential)
	case apistorage.TypeGCS:
		return newGcsLister(ctx, credential)
	default:
		return nil, fmt.Errorf("files in %s storage cannot be listed from this machine", vendor)
	}
}

func stringField(credential map[string]any, key string) (string, error) {
	v, ok := credential[key]
	if !ok {
		return "", fmt.Errorf("credential does not have %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("credential field %s is not text", key)
	}
	return s, nil
}
