package jobconfig

import (
	"context"
	"strings"
)

// Resolver turns names found in a configuration into server-side ids.
type Resolver interface {
	// VMConfigID resolves a VM type name.
	VMConfigID(ctx context.Context, vmName string) (int, error)

	// DatasetID resolves a dataset name registered in the working project.
	DatasetID(ctx context.Context, name string) (int, error)
}

// RequestBody converts the configuration into the request body of
// the job submission API.
//
// Names are resolved into ids, and the defaults the server expects
// are filled in.
func (c *Config) RequestBody(ctx context.Context, resolver Resolver) (map[string]any, error) {
	if err := c.Verify(); err != nil {
		return nil, err
	}

	body := map[string]any{}
	if c.Name != "" {
		body["name"] = c.Name
	}

	switch c.JobSetting.Type {
	case TypeCustom:
		vmConfigId, err := resolver.VMConfigID(ctx, c.VM)
		if err != nil {
			return nil, err
		}
		body["vm_config_id"] = vmConfigId
		body["num_devices"] = c.NumDevices
		body["job_setting"] = c.customJobSetting()
	case TypePredefined:
		body["job_setting"] = c.predefinedJobSetting()
	}

	if err := c.fillData(ctx, resolver, body); err != nil {
		return nil, err
	}

	if ckpt := c.Checkpoint; ckpt != nil {
		m := map[string]any{}
		if ckpt.Input != nil {
			in := map[string]any{"id": ckpt.Input.ID}
			if ckpt.Input.MountPath != "" {
				in["mount_path"] = ckpt.Input.MountPath
			}
			m["input"] = in
		}
		if ckpt.OutputCheckpointDir != "" {
			m["output_checkpoint_dir"] = ckpt.OutputCheckpointDir
		}
		body["checkpoint"] = m
	}

	if dist := c.Dist; dist != nil {
		body["dist"] = map[string]any{
			"dp_degree": dist.DpDegree,
			"pp_degree": dist.PpDegree,
			"mp_degree": dist.MpDegree,
		}
	}

	if plugin := c.Plugin; plugin != nil {
		m := map[string]any{}
		if plugin.Wandb != nil {
			m["wandb"] = map[string]any{"credential_id": plugin.Wandb.CredentialID}
		}
		if plugin.Slack != nil {
			m["slack"] = map[string]any{
				"credential_id": plugin.Slack.CredentialID,
				"channel":       plugin.Slack.Channel,
			}
		}
		body["plugin"] = m
	}

	return body, nil
}

func (c *Config) customJobSetting() map[string]any {
	docker := map[string]any{
		"image": c.JobSetting.Docker.Image,
		"command": map[string]any{
			"setup": c.JobSetting.Docker.Command.Setup,
			"run":   c.JobSetting.Docker.Command.Run,
		},
	}
	if env := c.JobSetting.Docker.EnvVar; len(env) > 0 {
		docker["env_var"] = env
	}
	if cred := c.JobSetting.Docker.CredentialID; cred != "" {
		docker["credential_id"] = cred
	}

	mountPath := DefaultWorkspaceMountPath
	if ws := c.JobSetting.Workspace; ws != nil {
		mountPath = ws.MountPath
	}

	launchMode := c.JobSetting.LaunchMode
	if launchMode == "" {
		launchMode = DefaultLaunchMode
	}

	return map[string]any{
		"type":        TypeCustom,
		"docker":      docker,
		"workspace":   map[string]any{"mount_path": mountPath},
		"launch_mode": launchMode,
	}
}

func (c *Config) predefinedJobSetting() map[string]any {
	setting := map[string]any{
		"type":        TypePredefined,
		"template_id": c.JobSetting.TemplateID,
	}
	if len(c.JobSetting.ModelConfig) > 0 {
		setting["model_config"] = c.JobSetting.ModelConfig
	}
	return setting
}

// fillData puts the dataset reference into body.
//
// A name with the huggingface: prefix points at a public dataset,
// expressed as public_source. Other names are looked up in the project.
func (c *Config) fillData(ctx context.Context, resolver Resolver, body map[string]any) error {
	if c.Data == nil {
		return nil
	}

	if name, ok := strings.CutPrefix(c.Data.Name, HuggingFaceDataPrefix); ok {
		data := map[string]any{
			"provider": "huggingface",
			"name":     name,
		}
		if c.Data.MountPath != "" {
			data["mount_path"] = c.Data.MountPath
		}
		body["public_source"] = map[string]any{"data": data}
		return nil
	}

	dataId, err := resolver.DatasetID(ctx, c.Data.Name)
	if err != nil {
		return err
	}
	data := map[string]any{"id": dataId}
	if c.Data.MountPath != "" {
		data["mount_path"] = c.Data.MountPath
	}
	body["data"] = data
	return nil
}
