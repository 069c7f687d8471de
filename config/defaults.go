package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/primordia",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Backend: BackendConfig{
			BaseURL:        "http://localhost:8080/api",
			TimeoutSeconds: 60,
		},
		Model: ModelConfig{
			Provider: "anthropic",
			Model:    "claude-sonnet-4-5-20250929",
		},
		Agent: AgentConfig{
			MaxToolRounds:       25,
			PollIntervalSeconds: 3,
			AllowStatusTool:     false,
		},
		Credentials: CredentialConfig{
			Method: string(SecurityPlainText),
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# Primordia Console System Configuration
# Location: ~/.config/primordia/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the user config, credentials and job history are stored
data_directory = "~/.local/share/primordia"
`
}

func GenerateUserConfigTemplate() string {
	return `# Primordia Console User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[backend]
# Base URL of the Primordia orchestration API
base_url = "http://localhost:8080/api"
timeout_seconds = 60

[model]
# One of: anthropic, openai, ollama
provider = "anthropic"
model = "claude-sonnet-4-5-20250929"
# Optional API base URL override (e.g. http://localhost:11434 for ollama)
# base_url = ""

[agent]
# Maximum tool-call rounds per user message (0 = unlimited)
max_tool_rounds = 25
# Seconds between job status polls
poll_interval_seconds = 3
# Let the model call getWorkspaceJobStatus directly (the console polls for it)
allow_status_tool = false
# Replaces the built-in agent instructions when set
# system_prompt = ""

[credentials]
# "plaintext" stores the API key in credentials.toml (0600)
# "ssh_key" encrypts it into credentials.enc using the SSH key below
method = "plaintext"
# ssh_key_path = "~/.ssh/id_ed25519"
`
}
