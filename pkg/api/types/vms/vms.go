package vms

// VMInstanceType identifies a machine shape offered by a cloud vendor.
type VMInstanceType struct {
	Name string `json:"name"`

	// Code is the name users specify in job configurations, like "azure-a100-8g".
	Code string `json:"code"`

	Vendor     string `json:"vendor"`
	Region     string `json:"region"`
	DeviceType string `json:"device_type"`

	// devices per single VM
	NumDevices int `json:"num_devices"`
}

// VMConfigType wraps an instance type with platform-side configuration.
type VMConfigType struct {
	Name           string         `json:"name"`
	VMInstanceType VMInstanceType `json:"vm_instance_type"`
}

// VMConfig is a VM configuration available to an organization.
type VMConfig struct {
	ID           int          `json:"id"`
	VMConfigType VMConfigType `json:"vm_config_type"`
}

// Lock statuses of VM instances.
const (
	LockActive   = "active"
	LockDeleting = "deleting"
)

// Quota limits the number of devices a project may use for a VM type.
type Quota struct {
	VMConfigType struct {
		Name       string `json:"name"`
		Vendor     string `json:"vendor"`
		Region     string `json:"region"`
		DeviceType string `json:"device_type"`
	} `json:"vm_config_type"`
	Quota int `json:"quota"`
}
