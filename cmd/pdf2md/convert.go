package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf2md/internal/convert"
	"github.com/pdiddy/pdf2md/internal/provider"
	"github.com/pdiddy/pdf2md/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <pdf_file> [output_file]",
	Short: "Convert a single PDF file to Markdown",
	Long: `Convert transforms one PDF into structured Markdown. The document is
split into chunks of pages, each chunk is reformatted by the model, and the
outputs are reassembled in order. OUTPUT_FILE defaults to the PDF path with
a .md extension.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pl, err := buildPipeline(cmd)
		if err != nil {
			return err
		}

		outPath := ""
		if len(args) > 1 {
			outPath = args[1]
		}

		_, err = pl.ConvertPDF(cmd.Context(), args[0], outPath, optionsFromFlags(cmd))
		return err
	},
}

// addConversionFlags registers the flags shared by convert and batch.
func addConversionFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", types.DefaultProvider, "AI provider: anthropic or openai")
	cmd.Flags().String("model", "", "model identifier (defaults to the provider's default)")
	cmd.Flags().String("api-key", "", "API key (defaults to the provider's environment variable)")
	cmd.Flags().Int("max-tokens", types.DefaultMaxTokens, "output token budget per request")
	cmd.Flags().Int("pages-per-chunk", types.DefaultPagesPerChunk, "pages per model request")
	cmd.Flags().Bool("vision", false, "send rendered page images alongside extracted text")
	cmd.Flags().Bool("no-vision", false, "force text-only conversion, overriding config")
	cmd.Flags().Float64("vision-dpi", types.DefaultVisionDPI, "render resolution for page images")
	cmd.Flags().Int("vision-pages-per-chunk", types.DefaultVisionPagesPerChunk, "pages per request in vision mode")
}

// buildPipeline resolves the provider from flags and config and validates
// the credential before any API call.
func buildPipeline(cmd *cobra.Command) (*convert.Pipeline, error) {
	apiKey, _ := cmd.Flags().GetString("api-key")
	maxTokens := intSetting(cmd, "max-tokens")

	cfg := types.ProviderConfig{
		Provider:  stringSetting(cmd, "provider"),
		APIKey:    apiKey,
		Model:     stringSetting(cmd, "model"),
		MaxTokens: maxTokens,
	}

	p, err := provider.New(cfg)
	if err != nil {
		return nil, err
	}
	if !p.ValidateConfig() {
		return nil, fmt.Errorf("no API key configured for provider %s; pass --api-key or set the provider's environment variable", p.Name())
	}

	return convert.New(p, maxTokens), nil
}

// optionsFromFlags assembles per-document options from flags and config.
func optionsFromFlags(cmd *cobra.Command) types.ConvertOptions {
	vision, _ := cmd.Flags().GetBool("vision")
	if !cmd.Flags().Changed("vision") {
		vision = viperBoolDefault("vision", vision)
	}
	if noVision, _ := cmd.Flags().GetBool("no-vision"); noVision {
		vision = false
	}

	dpi, _ := cmd.Flags().GetFloat64("vision-dpi")

	return types.ConvertOptions{
		PagesPerChunk:       intSetting(cmd, "pages-per-chunk"),
		Vision:              vision,
		VisionDPI:           dpi,
		VisionPagesPerChunk: intSetting(cmd, "vision-pages-per-chunk"),
		Progress:            os.Stdout,
	}
}

func init() {
	addConversionFlags(convertCmd)
	rootCmd.AddCommand(convertCmd)
}
