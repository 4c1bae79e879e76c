package jobconfig

import (
	"fmt"

	"github.com/periflow/cli/pkg/utils"
	"github.com/periflow/cli/pkg/utils/yamler"
)

// CustomTemplateOption selects the sections of a generated custom
// job configuration template.
type CustomTemplateOption struct {
	PrivateImage     bool
	Workspace        bool
	Data             bool
	InputCheckpoint  bool
	OutputCheckpoint bool
	Dist             bool
	Wandb            bool
	Slack            bool
}

// PredefinedTemplateOption selects the sections of a generated
// predefined job configuration template.
type PredefinedTemplateOption struct {
	TemplateID      string
	ModelConfig     map[string]any
	Data            bool
	InputCheckpoint bool
	Wandb           bool
	Slack           bool
}

const ddpCommandNote = `Bash shell command to run the job.
The following environment variables are set for PyTorch DDP.
  - MASTER_ADDR: Address of rank 0 node.
  - WORLD_SIZE: The total number of GPUs participating in the task.
  - NODE_RANK: Index of the current node.
  - NPROC_PER_NODE: The number of processes in the current node.`

// CustomTemplate renders a job configuration template to be filled
// in by hand. Selected sections come with guiding comments.
func CustomTemplate(opt CustomTemplateOption) ([]byte, error) {
	entries := []yamler.MapEntry{
		yamler.Entry(
			yamler.Text("name", yamler.WithHeadComment("The name of job")),
			yamler.Null(),
		),
		yamler.Entry(
			yamler.Text("vm", yamler.WithHeadComment("The name of vm type")),
			yamler.Null(),
		),
		yamler.Entry(
			yamler.Text("num_devices", yamler.WithHeadComment("The number of GPU devices")),
			yamler.Null(),
		),
	}

	docker := []yamler.MapEntry{
		yamler.Entry(
			yamler.Text("image", yamler.WithHeadComment("Docker image you want to use in the job")),
			yamler.Null(),
		),
		yamler.Entry(
			yamler.Text("command", yamler.WithHeadComment(ddpCommandNote)),
			yamler.Map(
				yamler.Entry(yamler.Text("setup"), yamler.Null()),
				yamler.Entry(yamler.Text("run"), yamler.Null()),
			),
		),
	}
	if opt.PrivateImage {
		docker = append(docker, yamler.Entry(
			yamler.Text("credential_id", yamler.WithHeadComment("Credential for the private docker image")),
			yamler.Null(),
		))
	}

	jobSetting := []yamler.MapEntry{
		yamler.Entry(yamler.Text("type"), yamler.Text("custom")),
		yamler.Entry(
			yamler.Text("docker", yamler.WithHeadComment("Docker config")),
			yamler.Map(docker...),
		),
	}
	if opt.Workspace {
		jobSetting = append(jobSetting, yamler.Entry(
			yamler.Text(
				"workspace",
				yamler.WithHeadComment("Path to mount your workspace volume. If not specified, '/workspace' is used."),
			),
			yamler.Map(yamler.Entry(yamler.Text("mount_path"), yamler.Null())),
		))
	}
	entries = append(entries, yamler.Entry(
		yamler.Text("job_setting", yamler.WithHeadComment("Configure your job!")),
		yamler.Map(jobSetting...),
	))

	if opt.Data {
		entries = append(entries, yamler.Entry(
			yamler.Text("data", yamler.WithHeadComment("Configure dataset")),
			yamler.Map(
				yamler.Entry(
					yamler.Text("name", yamler.WithHeadComment("The name of dataset")),
					yamler.Null(),
				),
				yamler.Entry(
					yamler.Text("mount_path", yamler.WithHeadComment("Path to mount your dataset volume")),
					yamler.Null(),
				),
			),
		))
	}

	if opt.InputCheckpoint || opt.OutputCheckpoint {
		ckpt := []yamler.MapEntry{}
		if opt.InputCheckpoint {
			ckpt = append(ckpt, yamler.Entry(
				yamler.Text("input"),
				yamler.Map(
					yamler.Entry(
						yamler.Text("id", yamler.WithHeadComment("UUID of input checkpoint")),
						yamler.Null(),
					),
					yamler.Entry(
						yamler.Text("mount_path", yamler.WithHeadComment("Input checkpoint mount path")),
						yamler.Null(),
					),
				),
			))
		}
		if opt.OutputCheckpoint {
			ckpt = append(ckpt, yamler.Entry(
				yamler.Text("output_checkpoint_dir", yamler.WithHeadComment("Path to output checkpoint")),
				yamler.Null(),
			))
		}
		entries = append(entries, yamler.Entry(
			yamler.Text("checkpoint", yamler.WithHeadComment("Checkpoint config")),
			yamler.Map(ckpt...),
		))
	}

	if opt.Dist {
		entries = append(entries, yamler.Entry(
			yamler.Text("dist", yamler.WithHeadComment("Distributed training config")),
			yamler.Map(
				yamler.Entry(yamler.Text("dp_degree"), yamler.Null()),
				yamler.Entry(yamler.Text("pp_degree"), yamler.Null()),
				yamler.Entry(yamler.Text("mp_degree"), yamler.Null()),
			),
		))
	}

	if plugin := pluginEntries(opt.Wandb, opt.Slack); plugin != nil {
		entries = append(entries, *plugin)
	}

	return yamler.Marshal(yamler.Map(entries...))
}

// PredefinedTemplate renders a configuration template for a
// predefined job, pre-filled with the chosen template id and its
// example model config.
func PredefinedTemplate(opt PredefinedTemplateOption) ([]byte, error) {
	entries := []yamler.MapEntry{
		yamler.Entry(
			yamler.Text("name", yamler.WithHeadComment("The name of job")),
			yamler.Null(),
		),
	}

	jobSetting := []yamler.MapEntry{
		yamler.Entry(yamler.Text("type"), yamler.Text("predefined")),
		yamler.Entry(yamler.Text("template_id"), yamler.Text(opt.TemplateID)),
	}
	if len(opt.ModelConfig) > 0 {
		model := []yamler.MapEntry{}
		for _, key := range sortedKeys(opt.ModelConfig) {
			model = append(model, yamler.Entry(
				yamler.Text(key),
				yamler.Text(fmt.Sprint(opt.ModelConfig[key])),
			))
		}
		jobSetting = append(jobSetting, yamler.Entry(
			yamler.Text("model_config"), yamler.Map(model...),
		))
	}
	entries = append(entries, yamler.Entry(
		yamler.Text("job_setting", yamler.WithHeadComment("Configure your job!")),
		yamler.Map(jobSetting...),
	))

	if opt.Data {
		entries = append(entries, yamler.Entry(
			yamler.Text("data", yamler.WithHeadComment("Configure dataset")),
			yamler.Map(
				yamler.Entry(
					yamler.Text("name", yamler.WithHeadComment("The name of dataset")),
					yamler.Null(),
				),
			),
		))
	}

	if opt.InputCheckpoint {
		entries = append(entries, yamler.Entry(
			yamler.Text("checkpoint", yamler.WithHeadComment("Checkpoint config")),
			yamler.Map(
				yamler.Entry(
					yamler.Text("input"),
					yamler.Map(
						yamler.Entry(
							yamler.Text("id", yamler.WithHeadComment("UUID of input checkpoint")),
							yamler.Null(),
						),
					),
				),
			),
		))
	}

	if plugin := pluginEntries(opt.Wandb, opt.Slack); plugin != nil {
		entries = append(entries, *plugin)
	}

	return yamler.Marshal(yamler.Map(entries...))
}

func pluginEntries(wandb bool, slack bool) *yamler.MapEntry {
	if !wandb && !slack {
		return nil
	}

	plugins := []yamler.MapEntry{}
	if wandb {
		plugins = append(plugins, yamler.Entry(
			yamler.Text("wandb"),
			yamler.Map(yamler.Entry(
				yamler.Text("credential_id", yamler.WithLineComment("W&B API key")),
				yamler.Null(),
			)),
		))
	}
	if slack {
		plugins = append(plugins, yamler.Entry(
			yamler.Text("slack"),
			yamler.Map(
				yamler.Entry(yamler.Text("credential_id"), yamler.Null()),
				yamler.Entry(yamler.Text("channel"), yamler.Null()),
			),
		))
	}

	e := yamler.Entry(
		yamler.Text(
			"plugin",
			yamler.WithHeadComment("Additional plugin for job monitoring and push notification"),
		),
		yamler.Map(plugins...),
	)
	return &e
}

func sortedKeys(m map[string]any) []string {
	return utils.Sorted(utils.KeysOf(m), func(a, b string) bool { return a < b })
}
