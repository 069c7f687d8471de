package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"primordia/app"
	"primordia/config"
	"primordia/gateway"
	"primordia/job"
	"primordia/model"
	"primordia/orchestrator"
	"primordia/provider"
	"primordia/storage"
	"primordia/tools"
	"primordia/ui"
)

const Version = "0.1.0"

func main() {
	storeKey := flag.Bool("store-key", false, "read a model API key from stdin and save it to the credential store")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("primordia", Version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		showError("Configuration Error", fmt.Sprintf("%v\n\nFix settings.toml or the PRIMORDIA_* environment variables and restart.", err))
		os.Exit(1)
	}

	config.InitDebugLog(cfg.DataDir())

	if cfg.NeedsSSHPassphrase() {
		passphrase, ok := promptPassphrase(cfg.SSHKeyPath)
		if !ok {
			os.Exit(0)
		}
		cfg.SSHPassphrase = passphrase
	}

	if *storeKey {
		if err := saveAPIKey(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to store API key: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("API key saved.")
		return
	}

	session, configErr := provider.NewSessionFromConfig(cfg)
	if configErr != nil && !errors.Is(configErr, provider.ErrNotConfigured) {
		fmt.Fprintf(os.Stderr, "Failed to initialize model session: %v\n", configErr)
		os.Exit(1)
	}

	client := gateway.NewClient(cfg.BackendURL, gateway.WithTimeout(cfg.BackendTimeout))
	transcript := model.NewTranscript()
	tracker := job.NewTracker()

	poller := &job.Poller{
		Source:     client,
		Interval:   cfg.PollInterval,
		Transcript: transcript,
		Tracker:    tracker,
	}

	// Job history is optional; the agent keeps working without it.
	jobStore, err := storage.NewJobStore(cfg.DataDir())
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Main] Job history disabled: %v", err)
		}
		jobStore = nil
	} else {
		poller.Store = jobStore
	}

	dispatcher := tools.NewDispatcher(client, transcript, tools.Options{AllowStatusTool: cfg.AllowStatusTool})
	orch := orchestrator.New(session, dispatcher, poller, transcript, orchestrator.Options{MaxToolRounds: cfg.MaxToolRounds})

	m := app.NewModel(cfg, orch, client, tracker, jobStore, configErr, Version)
	defer m.Shutdown()

	p := tea.NewProgram(
		ui.NewAppView(m),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running primordia: %v\n", err)
		os.Exit(1)
	}
}

func showError(title, message string) {
	p := tea.NewProgram(
		ui.NewErrorModal(title, message),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func promptPassphrase(keyPath string) (string, bool) {
	verify := func(passphrase string) error {
		_, err := config.LoadSSHPrivateKeyWithPassphrase(keyPath, passphrase)
		return err
	}

	p := tea.NewProgram(
		ui.NewPassphraseModal(keyPath, verify),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return "", false
	}
	modal, ok := final.(ui.PassphraseModal)
	if !ok || modal.Cancelled() {
		return "", false
	}
	return modal.Passphrase(), true
}

func saveAPIKey(cfg *config.Config) error {
	fmt.Fprint(os.Stderr, "API key: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("failed to read key: %w", err)
	}

	store := config.NewCredentialStore(cfg.CredentialMethod, cfg.SSHKeyPath)
	store.SetPassphrase(cfg.SSHPassphrase)
	store.SetAPIKey(line)
	if store.APIKey() == "" {
		return errors.New("empty key")
	}
	return store.Save(cfg.DataDir())
}
