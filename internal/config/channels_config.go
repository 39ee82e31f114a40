package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ChannelsConfig is the optional YAML file describing channel routing and
// reaction affordances. Anything set here overrides the environment.
type ChannelsConfig struct {
	Channels struct {
		Submissions string   `yaml:"submissions"`
		Review      string   `yaml:"review"`
		Notify      []string `yaml:"notify,omitempty"`
	} `yaml:"channels"`
	Emojis struct {
		Approve string `yaml:"approve,omitempty"`
		Reject  string `yaml:"reject,omitempty"`
		Delete  string `yaml:"delete,omitempty"`
	} `yaml:"emojis"`
}

// LoadChannelsConfig loads the YAML channels file. Path is determined by
// CHANNELS_FILE, defaulting to "channels.yaml". Returns nil without error
// if the file doesn't exist; the file is optional.
func LoadChannelsConfig() (*ChannelsConfig, error) {
	path := getEnv("CHANNELS_FILE", "channels.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cfg ChannelsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Apply merges the channels file into the environment-derived config.
func (c *Config) Apply(channels *ChannelsConfig) {
	if channels == nil {
		return
	}
	if channels.Channels.Submissions != "" {
		c.SubmissionsChannelID = channels.Channels.Submissions
	}
	if channels.Channels.Review != "" {
		c.ReviewChannelID = channels.Channels.Review
	}
	if len(channels.Channels.Notify) > 0 {
		c.NotifyChannelIDs = channels.Channels.Notify
	} else if channels.Channels.Submissions != "" || channels.Channels.Review != "" {
		c.NotifyChannelIDs = nil
		if c.SubmissionsChannelID != "" {
			c.NotifyChannelIDs = append(c.NotifyChannelIDs, c.SubmissionsChannelID)
		}
		if c.ReviewChannelID != "" && c.ReviewChannelID != c.SubmissionsChannelID {
			c.NotifyChannelIDs = append(c.NotifyChannelIDs, c.ReviewChannelID)
		}
	}
	if channels.Emojis.Approve != "" {
		c.ApproveEmoji = channels.Emojis.Approve
	}
	if channels.Emojis.Reject != "" {
		c.RejectEmoji = channels.Emojis.Reject
	}
	if channels.Emojis.Delete != "" {
		c.DeleteEmoji = channels.Emojis.Delete
	}
}
