// Package main implements the deployed-prompts CLI tool for inspecting which
// prompt template versions are deployed to each Freeplay environment.
//
// Usage:
//
//	go run ./cmd/deployed-prompts --project-id=<uuid> [--env=production] [--all]
//
// Without a project ID the tool lists the available projects so the operator
// can pick one. With --all it additionally lists every prompt template in the
// project, deployed or not.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"unicode/utf8"

	"freeplayctl/internal/config"
	"freeplayctl/internal/freeplay"
	"freeplayctl/internal/types"
)

// contentPreviewRunes caps how much of a prompt message is shown per line.
const contentPreviewRunes = 200

func main() {
	projectID := flag.String("project-id", "", "Project ID (or FREEPLAY_PROJECT_ID env); omit to list projects")
	environment := flag.String("env", "", "Only show one environment (dev, staging, production)")
	all := flag.Bool("all", false, "Also list every prompt template in the project")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	client := freeplay.NewClient(nil, freeplay.ClientConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.APIBase,
		Timeout: cfg.HTTPTimeout,
		Logger:  logger,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// No project anywhere: list projects so the operator can find the ID
	// they need, but still exit non-zero so a scripted caller can tell
	// "no project selected" from a real inspection.
	project := *projectID
	if project == "" {
		project = cfg.ProjectID
	}
	if project == "" {
		if err := listProjects(ctx, client); err != nil {
			logger.Error("failed to list projects", "error", err)
			os.Exit(1)
		}
		fmt.Println("\nRe-run with --project-id=<id> to inspect deployments.")
		os.Exit(1)
	}

	environments := freeplay.Environments
	if *environment != "" {
		environments = []string{*environment}
	}

	failed := false
	for _, env := range environments {
		prompts, err := client.DeployedPrompts(ctx, project, env)
		if err != nil {
			logger.Error("failed to fetch deployed prompts", "environment", env, "error", err)
			failed = true
			continue
		}
		printEnvironment(env, prompts)
	}

	if *all {
		templates, err := client.ListPromptTemplates(ctx, project)
		if err != nil {
			logger.Error("failed to list prompt templates", "error", err)
			failed = true
		} else {
			fmt.Printf("\nAll prompt templates (%d):\n", len(templates))
			for _, tpl := range templates {
				fmt.Printf("  %s  %s\n", tpl.ID, tpl.Name)
			}
		}
	}

	if failed {
		os.Exit(1)
	}
}

func listProjects(ctx context.Context, client *freeplay.Client) error {
	projects, err := client.ListProjects(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Projects (%d):\n", len(projects))
	for _, p := range projects {
		fmt.Printf("  %s  %s\n", p.ID, p.Name)
	}
	return nil
}

func printEnvironment(env string, prompts []types.DeployedPrompt) {
	fmt.Printf("\n=== %s ===\n", env)
	if len(prompts) == 0 {
		fmt.Println("  (no deployed prompts)")
		return
	}
	for _, p := range prompts {
		version := p.VersionName
		if version == "" {
			version = p.PromptTemplateVersionID
		}
		fmt.Printf("  %s (version %s, %s/%s)\n", p.PromptTemplateName, version, p.Provider, p.Model)
		for _, msg := range p.Content {
			fmt.Printf("    [%s] %s\n", msg.Role, preview(msg.Content))
		}
	}
}

// preview flattens a message to one line and truncates it for display.
func preview(content string) string {
	flat := strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(flat) <= contentPreviewRunes {
		return flat
	}
	runes := []rune(flat)
	return string(runes[:contentPreviewRunes]) + "..."
}
