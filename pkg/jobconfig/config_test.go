package jobconfig_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/periflow/cli/pkg/jobconfig"
	"github.com/periflow/cli/pkg/utils/try"
)

const customConfigYaml = `
name: train-gpt
vm: azure-16gpu
num_devices: 16
job_setting:
  type: custom
  docker:
    image: periflow/trainer:latest
    command:
      setup: pip install -r requirements.txt
      run: python train.py
data:
  name: wikitext
  mount_path: /data
dist:
  dp_degree: 2
  pp_degree: 2
  mp_degree: 4
`

func TestLoad(t *testing.T) {
	t.Run("custom job config", func(t *testing.T) {
		conf := try.To(jobconfig.Load(strings.NewReader(customConfigYaml))).OrFatal(t)

		if conf.Name != "train-gpt" {
			t.Errorf("name: got %s", conf.Name)
		}
		if conf.VM != "azure-16gpu" || conf.NumDevices != 16 {
			t.Errorf("vm settings: got %s x%d", conf.VM, conf.NumDevices)
		}
		if conf.JobSetting.Docker.Command.Run != "python train.py" {
			t.Errorf("run command: got %s", conf.JobSetting.Docker.Command.Run)
		}
	})

	t.Run("command given as one line", func(t *testing.T) {
		conf := try.To(jobconfig.Load(strings.NewReader(`
vm: azure-1gpu
num_devices: 1
job_setting:
  type: custom
  docker:
    image: periflow/trainer:latest
    command: python train.py
`))).OrFatal(t)

		cmd := conf.JobSetting.Docker.Command
		if cmd.Setup != "" || cmd.Run != "python train.py" {
			t.Errorf("command: got %+v", cmd)
		}
	})

	t.Run("predefined job config", func(t *testing.T) {
		conf := try.To(jobconfig.Load(strings.NewReader(`
name: train-bert
job_setting:
  type: predefined
  template_id: 00000000-0000-0000-0000-000000000001
  model_config:
    learning_rate: 0.0001
`))).OrFatal(t)

		if conf.JobSetting.TemplateID != "00000000-0000-0000-0000-000000000001" {
			t.Errorf("template id: got %s", conf.JobSetting.TemplateID)
		}
	})

	for name, yamlText := range map[string]string{
		"unknown field": `
vm: azure-1gpu
num_devices: 1
unknown_field: true
job_setting:
  type: custom
  docker:
    image: img
    command: run.sh
`,
		"missing vm for custom job": `
num_devices: 1
job_setting:
  type: custom
  docker:
    image: img
    command: run.sh
`,
		"missing docker image": `
vm: azure-1gpu
num_devices: 1
job_setting:
  type: custom
  docker:
    command: run.sh
`,
		"vm settings on predefined job": `
vm: azure-1gpu
num_devices: 1
job_setting:
  type: predefined
  template_id: xxxx
`,
		"dist on predefined job": `
job_setting:
  type: predefined
  template_id: xxxx
dist:
  dp_degree: 1
  pp_degree: 1
  mp_degree: 1
`,
		"incomplete dist": `
vm: azure-1gpu
num_devices: 1
job_setting:
  type: custom
  docker:
    image: img
    command: run.sh
dist:
  dp_degree: 1
  pp_degree: 1
`,
		"unknown job type": `
job_setting:
  type: never-such-type
`,
	} {
		t.Run("it rejects config with "+name, func(t *testing.T) {
			if _, err := jobconfig.Load(strings.NewReader(yamlText)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

type fakeResolver struct {
	vms      map[string]int
	datasets map[string]int
}

func (r fakeResolver) VMConfigID(_ context.Context, vmName string) (int, error) {
	id, ok := r.vms[vmName]
	if !ok {
		return 0, fmt.Errorf("VM(%s) is not found", vmName)
	}
	return id, nil
}

func (r fakeResolver) DatasetID(_ context.Context, name string) (int, error) {
	id, ok := r.datasets[name]
	if !ok {
		return 0, fmt.Errorf("dataset (%s) is not found", name)
	}
	return id, nil
}

func TestRequestBody(t *testing.T) {
	ctx := context.Background()
	resolver := fakeResolver{
		vms:      map[string]int{"azure-16gpu": 7},
		datasets: map[string]int{"wikitext": 11},
	}

	t.Run("custom job", func(t *testing.T) {
		conf := try.To(jobconfig.Load(strings.NewReader(customConfigYaml))).OrFatal(t)
		body := try.To(conf.RequestBody(ctx, resolver)).OrFatal(t)

		if body["vm_config_id"] != 7 {
			t.Errorf("vm_config_id: got %v", body["vm_config_id"])
		}
		if _, ok := body["vm"]; ok {
			t.Error("vm name should be replaced with vm_config_id")
		}

		data, ok := body["data"].(map[string]any)
		if !ok {
			t.Fatalf("data: got %v", body["data"])
		}
		if data["id"] != 11 || data["mount_path"] != "/data" {
			t.Errorf("data: got %v", data)
		}

		setting, ok := body["job_setting"].(map[string]any)
		if !ok {
			t.Fatalf("job_setting: got %v", body["job_setting"])
		}
		if setting["launch_mode"] != "node" {
			t.Errorf("launch_mode should default to node, but got %v", setting["launch_mode"])
		}
		workspace, ok := setting["workspace"].(map[string]any)
		if !ok || workspace["mount_path"] != "/workspace" {
			t.Errorf("workspace should default to /workspace, but got %v", setting["workspace"])
		}
	})

	t.Run("one line command gets an empty setup", func(t *testing.T) {
		conf := try.To(jobconfig.Load(strings.NewReader(`
vm: azure-16gpu
num_devices: 1
job_setting:
  type: custom
  docker:
    image: img
    command: python train.py
`))).OrFatal(t)
		body := try.To(conf.RequestBody(ctx, resolver)).OrFatal(t)

		setting := body["job_setting"].(map[string]any)
		docker := setting["docker"].(map[string]any)
		command := docker["command"].(map[string]any)
		if command["setup"] != "" || command["run"] != "python train.py" {
			t.Errorf("command: got %v", command)
		}
	})

	t.Run("huggingface dataset becomes a public source", func(t *testing.T) {
		conf := try.To(jobconfig.Load(strings.NewReader(`
vm: azure-16gpu
num_devices: 1
job_setting:
  type: custom
  docker:
    image: img
    command: run.sh
data:
  name: huggingface:wikitext-103
  mount_path: /data
`))).OrFatal(t)
		body := try.To(conf.RequestBody(ctx, resolver)).OrFatal(t)

		if _, ok := body["data"]; ok {
			t.Error("huggingface dataset should not be sent as data")
		}
		source, ok := body["public_source"].(map[string]any)
		if !ok {
			t.Fatalf("public_source: got %v", body["public_source"])
		}
		data := source["data"].(map[string]any)
		if data["provider"] != "huggingface" || data["name"] != "wikitext-103" {
			t.Errorf("public source data: got %v", data)
		}
	})

	t.Run("unknown vm name is an error", func(t *testing.T) {
		conf := try.To(jobconfig.Load(strings.NewReader(`
vm: no-such-vm
num_devices: 1
job_setting:
  type: custom
  docker:
    image: img
    command: run.sh
`))).OrFatal(t)
		if _, err := conf.RequestBody(ctx, resolver); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("unknown dataset name is an error", func(t *testing.T) {
		conf := try.To(jobconfig.Load(strings.NewReader(`
vm: azure-16gpu
num_devices: 1
job_setting:
  type: custom
  docker:
    image: img
    command: run.sh
data:
  name: no-such-dataset
  mount_path: /data
`))).OrFatal(t)
		if _, err := conf.RequestBody(ctx, resolver); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("predefined job does not resolve VMs", func(t *testing.T) {
		conf := try.To(jobconfig.Load(strings.NewReader(`
job_setting:
  type: predefined
  template_id: tmpl-1
data:
  name: wikitext
`))).OrFatal(t)
		body := try.To(conf.RequestBody(ctx, fakeResolver{
			datasets: map[string]int{"wikitext": 11},
		})).OrFatal(t)

		if _, ok := body["vm_config_id"]; ok {
			t.Error("predefined job should not carry vm_config_id")
		}
		data := body["data"].(map[string]any)
		if data["id"] != 11 {
			t.Errorf("data: got %v", data)
		}
	})
}

func TestTemplates(t *testing.T) {
	t.Run("custom template is a loadable config skeleton", func(t *testing.T) {
		tpl := try.To(jobconfig.CustomTemplate(jobconfig.CustomTemplateOption{
			Workspace:        true,
			Data:             true,
			InputCheckpoint:  true,
			OutputCheckpoint: true,
			Dist:             true,
			Wandb:            true,
			Slack:            true,
		})).OrFatal(t)

		text := string(tpl)
		for _, want := range []string{
			"type: custom", "vm:", "num_devices:", "image:", "run:",
			"mount_path:", "dp_degree:", "wandb:", "slack:",
			"output_checkpoint_dir:",
		} {
			if !strings.Contains(text, want) {
				t.Errorf("template should contain %q:\n%s", want, text)
			}
		}

		// the skeleton parses, though it fails verification until filled in
		_, err := jobconfig.Load(strings.NewReader(text))
		if err != nil && !errors.Is(err, jobconfig.ErrConfig) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("predefined template carries the chosen template", func(t *testing.T) {
		tpl := try.To(jobconfig.PredefinedTemplate(jobconfig.PredefinedTemplateOption{
			TemplateID:  "tmpl-42",
			ModelConfig: map[string]any{"learning_rate": 0.001, "batch_size": 32},
			Data:        true,
		})).OrFatal(t)

		text := string(tpl)
		for _, want := range []string{
			"type: predefined", "template_id: tmpl-42",
			"learning_rate:", "batch_size:",
		} {
			if !strings.Contains(text, want) {
				t.Errorf("template should contain %q:\n%s", want, text)
			}
		}
	})
}
