package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Stefan/ppm-saas-sub008/internal/config"
	"github.com/Stefan/ppm-saas-sub008/internal/manifest"
	"github.com/Stefan/ppm-saas-sub008/internal/platform"
	"github.com/Stefan/ppm-saas-sub008/internal/verify"

	// Register the DOM providers with platform.Open.
	_ "github.com/Stefan/ppm-saas-sub008/internal/platform/browser"
	_ "github.com/Stefan/ppm-saas-sub008/internal/platform/htmldom"
)

// builtinSource names the compiled-in structures in command output.
const builtinSource = "builtin"

// settings returns the loaded environment configuration, or defaults when
// the root pre-run hook has not run.
func settings() *config.Config {
	if cfg != nil {
		return cfg
	}
	c, err := config.Load()
	if err != nil {
		return &config.Config{TestIDAttribute: platform.DefaultTestIDAttribute, Concurrency: verify.DefaultConcurrency}
	}
	return c
}

// loadProject reads .structcheck.yaml from the working directory.
func loadProject() (*config.ProjectConfig, error) {
	project, err := config.LoadProject(".")
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", config.ProjectFile, err)
	}
	return project, nil
}

func addManifestFlag(cmd *cobra.Command) {
	cmd.Flags().String("manifest", "", "Structure manifest file (default: project manifest, then built-in structures)")
}

// loadRegistry resolves the structures for a command: the --manifest flag,
// then the project file's manifest, then the built-in structures.
func loadRegistry(cmd *cobra.Command) (*manifest.Registry, string, error) {
	path, _ := cmd.Flags().GetString("manifest")
	if path == "" {
		project, err := loadProject()
		if err != nil {
			return nil, "", err
		}
		path = project.Manifest
	}
	if path == "" {
		return manifest.DefaultFor(settings().TestIDAttribute), builtinSource, nil
	}
	reg, err := manifest.Load(path)
	if err != nil {
		return nil, path, err
	}
	log.Debug().Str("manifest", path).Int("pages", len(reg.PageNames())).Int("components", len(reg.ComponentNames())).Msg("loaded manifest")
	return reg, path, nil
}

// openTarget opens a DOM provider for an HTML file or URL.
func openTarget(ctx context.Context, target string) (*platform.Provider, error) {
	c := settings()
	log.Debug().Str("target", target).Str("kind", platform.TargetKind(target)).Msg("opening target")
	p, err := platform.Open(ctx, target, platform.OpenOptions{
		TestIDAttribute: c.TestIDAttribute,
		Headless:        c.Headless,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", target, err)
	}
	return p, nil
}

// newVerifier builds a verifier over p using the environment configuration.
func newVerifier(p *platform.Provider) *verify.Verifier {
	c := settings()
	return verify.New(p.DOM, verify.Config{
		Concurrency:     c.Concurrency,
		TestIDAttribute: c.TestIDAttribute,
		Waiter:          p.Waiter,
		Wait:            c.Wait,
	})
}

// closeProvider releases p, logging instead of failing the command.
func closeProvider(p *platform.Provider) {
	if err := p.Close(); err != nil {
		log.Warn().Err(err).Msg("close provider")
	}
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// errFailed marks a command whose output was printed but whose check did
// not pass, so the process exits non-zero.
var errFailed = errors.New("check failed")
