package storage

import (
	"fmt"

	"github.com/periflow/cli/pkg/utils"
)

// Type is a kind of storage a dataset or checkpoint lives in.
type Type string

const (
	TypeS3        Type = "s3"
	TypeAzureBlob Type = "azure-blob"
	TypeGCS       Type = "gcs"

	// TypeFAI is platform-managed storage for uploaded datasets.
	TypeFAI Type = "fai"
)

// vendorNames maps CLI-facing storage types to vendor names the server uses.
var vendorNames = map[Type]string{
	TypeS3:        "aws",
	TypeAzureBlob: "azure.blob",
	TypeGCS:       "gcp",
	TypeFAI:       "fai",
}

var vendorNamesInv = func() map[string]Type {
	inv := map[string]Type{}
	for t, n := range vendorNames {
		inv[n] = t
	}
	return inv
}()

// VendorName returns the vendor name the server knows this type by.
func (t Type) VendorName() (string, error) {
	n, ok := vendorNames[t]
	if !ok {
		return "", fmt.Errorf("unknown storage type: %s", t)
	}
	return n, nil
}

// TypeOfVendorName is the inverse of Type.VendorName.
func TypeOfVendorName(name string) (Type, error) {
	t, ok := vendorNamesInv[name]
	if !ok {
		return "", fmt.Errorf("unknown storage vendor name: %s", name)
	}
	return t, nil
}

func Types() []Type {
	return []Type{TypeS3, TypeAzureBlob, TypeGCS, TypeFAI}
}

// ValidateRegion checks that region is a known region of the storage vendor.
func ValidateRegion(t Type, region string) error {
	regions, ok := regionNames[t]
	if !ok {
		return fmt.Errorf("unknown storage type: %s", t)
	}
	if _, found := utils.First(regions, func(r string) bool { return r == region }); !found {
		return fmt.Errorf(
			"'%s' is not a valid region of %s. please choose one of %v",
			region, t, regions,
		)
	}
	return nil
}

var regionNames = map[Type][]string{
	TypeS3:        awsRegionNames,
	TypeAzureBlob: azureRegionNames,
	TypeGCS:       gcpRegionNames,
	TypeFAI:       {""},
}

var awsRegionNames = []string{
	"us-east-1",
	"us-east-2",
	"us-west-1",
	"us-west-2",
	"eu-west-1",
	"eu-central-1",
	"ap-northeast-1",
	"ap-northeast-2",
	"ap-southeast-1",
	"ap-southeast-2",
	"ap-south-1",
	"sa-east-1",
}

var azureRegionNames = []string{
	"eastus",
	"eastus2",
	"southcentralus",
	"westus2",
	"westus3",
	"australiaeast",
	"southeastasia",
	"northeurope",
	"swedencentral",
	"uksouth",
	"westeurope",
	"centralus",
	"northcentralus",
	"westus",
	"southafricanorth",
	"centralindia",
	"eastasia",
	"japaneast",
	"jioindiawest",
	"koreacentral",
	"canadacentral",
	"francecentral",
	"germanywestcentral",
	"norwayeast",
	"switzerlandnorth",
	"uaenorth",
	"brazilsouth",
	"centralusstage",
}

var gcpRegionNames = []string{
	"asia-east1-a",
	"asia-east1-b",
	"asia-east1-c",
	"asia-east2-a",
	"asia-east2-b",
	"asia-east2-c",
	"asia-northeast1-a",
	"asia-northeast1-b",
	"asia-northeast1-c",
	"asia-northeast2-a",
	"asia-northeast2-b",
	"asia-northeast2-c",
	"asia-northeast3-a",
	"asia-northeast3-b",
	"asia-northeast3-c",
	"asia-south1-a",
	"asia-south1-b",
	"asia-south1-c",
	"asia-south2-a",
	"asia-south2-b",
	"asia-south2-c",
	"asia-southeast1-a",
	"asia-southeast1-b",
	"asia-southeast1-c",
	"asia-southeast2-a",
	"asia-southeast2-b",
	"asia-southeast2-c",
	"australia-southeast1-a",
	"australia-southeast1-b",
	"australia-southeast1-c",
	"australia-southeast2-a",
	"australia-southeast2-b",
	"australia-southeast2-c",
	"europe-central2-a",
	"europe-central2-b",
	"europe-central2-c",
	"europe-north1-a",
	"europe-north1-b",
	"europe-north1-c",
	"europe-west1-b",
	"europe-west1-c",
	"europe-west1-d",
	"europe-west2-a",
	"europe-west2-b",
	"europe-west2-c",
	"europe-west3-a",
	"europe-west3-b",
	"europe-west3-c",
	"europe-west4-a",
	"europe-west4-b",
	"europe-west4-c",
	"europe-west6-a",
	"europe-west6-b",
	"europe-west6-c",
	"northamerica-northeast1-a",
	"northamerica-northeast1-b",
	"northamerica-northeast1-c",
	"northamerica-northeast2-a",
	"northamerica-northeast2-b",
	"northamerica-northeast2-c",
	"southamerica-east1-a",
	"southamerica-east1-b",
	"southamerica-east1-c",
	"southamerica-west1-a",
	"southamerica-west1-b",
	"southamerica-west1-c",
	"us-central1-a",
	"us-central1-b",
	"us-central1-c",
	"us-central1-f",
	"us-east1-b",
	"us-east1-c",
	"us-east1-d",
	"us-east4-a",
	"us-east4-b",
	"us-east4-c",
	"us-west1-a",
	"us-west1-b",
	"us-west1-c",
	"us-west2-a",
	"us-west2-b",
	"us-west2-c",
	"us-west3-a",
	"us-west3-b",
	"us-west3-c",
	"us-west4-a",
	"us-west4-b",
}

// FileInfo describes a single file in a storage.
//
// MTime keeps the string the storage reported, to round-trip it unchanged.
type FileInfo struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	MTime string `json:"mtime"`
	Size  int64  `json:"size"`
}
