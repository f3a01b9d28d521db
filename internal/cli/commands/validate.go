package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/commitlens/pkg/config"
	"github.com/ccollicutt/commitlens/pkg/loader"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a commitlens configuration file without loading any logs.

Checks:
  - YAML syntax
  - Required fields and value ranges
  - Render geometry and location
  - Log source file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	w := cmd.OutOrStdout()
	ok := color.New(color.FgGreen, color.Bold)
	warn := color.New(color.FgYellow)

	_, _ = fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(commandContext(cmd), configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	_, _ = ok.Fprintln(w, "\nConfiguration valid!")
	_, _ = fmt.Fprintf(w, "  Log sources: %d pattern(s)\n", len(cfg.LogSources))
	_, _ = fmt.Fprintf(w, "  Plot:        %gx%g px, radius %g-%g\n",
		cfg.Render.Width, cfg.Render.Height, cfg.Render.RadiusMin, cfg.Render.RadiusMax)
	if cfg.Render.Location != "" {
		_, _ = fmt.Fprintf(w, "  Location:    %s\n", cfg.Render.Location)
	}
	if cfg.RepoURL != "" {
		_, _ = fmt.Fprintf(w, "  Repository:  %s\n", cfg.RepoURL)
	}
	if cfg.Projects.Source != "" {
		_, _ = fmt.Fprintf(w, "  Projects:    %s\n", cfg.Projects.Source)
	}
	if cfg.Cache.Path != "" {
		_, _ = fmt.Fprintf(w, "  Cache:       %s\n", cfg.Cache.Path)
	}

	files, err := loader.ExpandGlobs(cfg.LogSources)
	if err != nil {
		_, _ = warn.Fprintf(w, "\nWarning: Error expanding log source patterns: %v\n", err)
		return nil
	}

	var found, missing []string
	for _, f := range files {
		if info, err := os.Stat(f); err == nil && !info.IsDir() {
			found = append(found, f)
		} else {
			missing = append(missing, f)
		}
	}
	if len(found) > 0 {
		_, _ = fmt.Fprintf(w, "\nLog files matched: %d\n", len(found))
		for _, f := range found {
			_, _ = fmt.Fprintf(w, "  - %s\n", f)
		}
	}
	if len(missing) > 0 {
		_, _ = warn.Fprintln(w, "\nWarning: No files match these log sources:")
		for _, f := range missing {
			_, _ = warn.Fprintf(w, "  - %s\n", f)
		}
	}

	return nil
}
