package main

import (
	"os"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_folder> [output_folder]",
	Short: "Convert every PDF under a folder to Markdown",
	Long: `Batch discovers all PDF files under INPUT_FOLDER recursively and converts
each one, mirroring the directory structure into OUTPUT_FOLDER (default:
the input folder). A file that fails to convert is reported in the summary
and does not stop the batch.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pl, err := buildPipeline(cmd)
		if err != nil {
			return err
		}

		outputRoot := ""
		if len(args) > 1 {
			outputRoot = args[1]
		}

		opts := optionsFromFlags(cmd)
		_, err = pl.RunBatch(cmd.Context(), args[0], outputRoot, opts, os.Stdout)
		return err
	},
}

func init() {
	addConversionFlags(batchCmd)
	rootCmd.AddCommand(batchCmd)
}
