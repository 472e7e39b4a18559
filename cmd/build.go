package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/docpress/core/builder"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the book",
	Long: `Build reads the documents starting at the root document, merges them
into one paginated page, writes the table of contents, renderer configuration
and stylesheet, and renders the final PDF.

Builders:
  vivliostyle  paginated Markdown, rendered by "vivliostyle build" (default)
  html         single-file HTML, rendered by "vivliostyle build <page>"
  draft        paginated Markdown, rendered in-process (no CSS support)

Examples:
  docpress build
  docpress build --builder html --output ./out
  DOCPRESS_VIVLIOSTYLE_RETRIES=2 docpress build`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	addBuildFlags(buildCmd)
}

// addBuildFlags registers the flags shared by build and watch and binds
// them to their configuration keys.
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("builder", "b", "", "Builder: "+strings.Join(builder.Names(), ", "))
	cmd.Flags().StringP("source", "s", "", "Source directory (default: current directory)")
	cmd.Flags().StringP("output", "o", "", "Output directory (default: _build)")
}

func bindBuildFlags(cmd *cobra.Command) error {
	for key, flag := range map[string]string{
		"builder":    "builder",
		"source_dir": "source",
		"output_dir": "output",
	} {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	if err := bindBuildFlags(cmd); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return buildOnce(ctx)
}

// buildOnce loads the configuration and runs one build.
func buildOnce(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	b, err := builder.New(cfg.Builder, cfg, builder.WithVersion(Version))
	if err != nil {
		return err
	}

	res, err := b.Build(ctx)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Built %d documents with %s\n", res.Documents, b.Name())
	for _, path := range res.Files {
		fmt.Fprintf(os.Stdout, "  ✓ Written: %s\n", path)
	}
	if res.Artifact != nil {
		fmt.Fprintf(os.Stdout, "  ✓ Rendered: %s (%d pages)\n", res.Artifact.Path, res.Artifact.Pages)
	} else {
		fmt.Fprintf(os.Stderr, "  ✗ No output at %s\n", res.Output)
	}
	return nil
}
