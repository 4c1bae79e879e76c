// Package jobconfig reads, checks and converts job configuration files.
//
// A configuration is written in YAML and comes in two flavors,
// selected by job_setting.type: "custom" runs a user docker image,
// "predefined" instantiates a server-side job template.
package jobconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	TypeCustom     = "custom"
	TypePredefined = "predefined"
)

// DefaultWorkspaceMountPath is mounted when the configuration
// does not name one.
const DefaultWorkspaceMountPath = "/workspace"

// DefaultLaunchMode is applied to custom jobs when not set.
const DefaultLaunchMode = "node"

// HuggingFaceDataPrefix marks a dataset name as a public Hugging Face
// dataset rather than one registered in the project.
const HuggingFaceDataPrefix = "huggingface:"

var ErrConfig = errors.New("job configuration is invalid")

// Config is a job configuration file.
type Config struct {
	Name       string      `yaml:"name,omitempty"`
	VM         string      `yaml:"vm,omitempty"`
	NumDevices int         `yaml:"num_devices,omitempty"`
	JobSetting JobSetting  `yaml:"job_setting"`
	Checkpoint *Checkpoint `yaml:"checkpoint,omitempty"`
	Data       *Data       `yaml:"data,omitempty"`
	Dist       *Dist       `yaml:"dist,omitempty"`
	Plugin     *Plugin     `yaml:"plugin,omitempty"`
}

type JobSetting struct {
	Type string `yaml:"type"`

	// custom job fields
	Docker     *Docker    `yaml:"docker,omitempty"`
	Workspace  *Workspace `yaml:"workspace,omitempty"`
	LaunchMode string     `yaml:"launch_mode,omitempty"`

	// predefined job fields
	TemplateID  string         `yaml:"template_id,omitempty"`
	ModelConfig map[string]any `yaml:"model_config,omitempty"`
}

type Docker struct {
	Image        string            `yaml:"image"`
	Command      Command           `yaml:"command"`
	EnvVar       map[string]string `yaml:"env_var,omitempty"`
	CredentialID string            `yaml:"credential_id,omitempty"`
}

// Command is either one shell command line or a setup/run pair.
type Command struct {
	Setup string `yaml:"setup,omitempty"`
	Run   string `yaml:"run"`
}

func (c *Command) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.Setup = ""
		c.Run = node.Value
		return nil
	}

	aux := struct {
		Setup string `yaml:"setup"`
		Run   string `yaml:"run"`
	}{}
	if err := node.Decode(&aux); err != nil {
		return err
	}
	c.Setup = aux.Setup
	c.Run = aux.Run
	return nil
}

type Workspace struct {
	MountPath string `yaml:"mount_path"`
}

type Checkpoint struct {
	Input               *InputCheckpoint `yaml:"input,omitempty"`
	OutputCheckpointDir string           `yaml:"output_checkpoint_dir,omitempty"`
}

type InputCheckpoint struct {
	ID        string `yaml:"id"`
	MountPath string `yaml:"mount_path,omitempty"`
}

type Data struct {
	Name      string `yaml:"name"`
	MountPath string `yaml:"mount_path,omitempty"`
}

type Dist struct {
	DpDegree int `yaml:"dp_degree"`
	PpDegree int `yaml:"pp_degree"`
	MpDegree int `yaml:"mp_degree"`
}

type Plugin struct {
	Wandb *WandbPlugin `yaml:"wandb,omitempty"`
	Slack *SlackPlugin `yaml:"slack,omitempty"`
}

type WandbPlugin struct {
	CredentialID string `yaml:"credential_id"`
}

type SlackPlugin struct {
	CredentialID string `yaml:"credential_id"`
	Channel      string `yaml:"channel"`
}

// Load reads a job configuration, rejecting unknown fields.
func Load(r io.Reader) (*Config, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)

	conf := &Config{}
	if err := dec.Decode(conf); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfig, err.Error())
	}

	if err := conf.Verify(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Verify checks that the configuration is complete for its job type.
func (c *Config) Verify() error {
	switch c.JobSetting.Type {
	case TypeCustom:
		return c.verifyCustom()
	case TypePredefined:
		return c.verifyPredefined()
	default:
		return fmt.Errorf(
			"%w: job_setting.type should be %q or %q",
			ErrConfig, TypeCustom, TypePredefined,
		)
	}
}

func (c *Config) verifyCustom() error {
	if c.VM == "" {
		return fmt.Errorf("%w: vm is required for a custom job", ErrConfig)
	}
	if c.NumDevices <= 0 {
		return fmt.Errorf("%w: num_devices is required for a custom job", ErrConfig)
	}
	if c.JobSetting.TemplateID != "" || c.JobSetting.ModelConfig != nil {
		return fmt.Errorf("%w: a custom job cannot take template fields", ErrConfig)
	}

	docker := c.JobSetting.Docker
	if docker == nil {
		return fmt.Errorf("%w: job_setting.docker is required for a custom job", ErrConfig)
	}
	if docker.Image == "" {
		return fmt.Errorf("%w: job_setting.docker.image is required", ErrConfig)
	}
	if docker.Command.Run == "" {
		return fmt.Errorf("%w: job_setting.docker.command.run is required", ErrConfig)
	}
	if ws := c.JobSetting.Workspace; ws != nil && ws.MountPath == "" {
		return fmt.Errorf("%w: job_setting.workspace.mount_path is required when workspace is set", ErrConfig)
	}

	if c.Data != nil {
		if c.Data.Name == "" || c.Data.MountPath == "" {
			return fmt.Errorf("%w: data needs both name and mount_path", ErrConfig)
		}
	}
	if ckpt := c.Checkpoint; ckpt != nil && ckpt.Input != nil {
		if ckpt.Input.ID == "" || ckpt.Input.MountPath == "" {
			return fmt.Errorf("%w: checkpoint.input needs both id and mount_path", ErrConfig)
		}
	}
	if dist := c.Dist; dist != nil {
		if dist.DpDegree <= 0 || dist.PpDegree <= 0 || dist.MpDegree <= 0 {
			return fmt.Errorf("%w: dist needs dp_degree, pp_degree and mp_degree", ErrConfig)
		}
	}

	return c.verifyPlugin()
}

func (c *Config) verifyPredefined() error {
	if c.VM != "" || c.NumDevices != 0 {
		return fmt.Errorf("%w: a predefined job cannot take VM settings", ErrConfig)
	}
	if c.JobSetting.TemplateID == "" {
		return fmt.Errorf("%w: job_setting.template_id is required for a predefined job", ErrConfig)
	}
	if c.JobSetting.Docker != nil || c.JobSetting.Workspace != nil || c.JobSetting.LaunchMode != "" {
		return fmt.Errorf("%w: a predefined job cannot take docker settings", ErrConfig)
	}

	if c.Data != nil && c.Data.Name == "" {
		return fmt.Errorf("%w: data needs name", ErrConfig)
	}
	if c.Dist != nil {
		return fmt.Errorf("%w: a predefined job cannot take dist settings", ErrConfig)
	}
	if ckpt := c.Checkpoint; ckpt != nil {
		if ckpt.OutputCheckpointDir != "" {
			return fmt.Errorf("%w: a predefined job cannot take output_checkpoint_dir", ErrConfig)
		}
		if ckpt.Input != nil && ckpt.Input.ID == "" {
			return fmt.Errorf("%w: checkpoint.input needs id", ErrConfig)
		}
	}

	return c.verifyPlugin()
}

func (c *Config) verifyPlugin() error {
	if c.Plugin == nil {
		return nil
	}
	if w := c.Plugin.Wandb; w != nil && w.CredentialID == "" {
		return fmt.Errorf("%w: plugin.wandb needs credential_id", ErrConfig)
	}
	if s := c.Plugin.Slack; s != nil && (s.CredentialID == "" || s.Channel == "") {
		return fmt.Errorf("%w: plugin.slack needs credential_id and channel", ErrConfig)
	}
	return nil
}
