// Package cli implements the vibes-cli commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"gyarumi/internal/config"
)

type options struct {
	memoryModel string
	format      string
}

// NewRootCmd builds the command tree. Defaults come from the environment.
func NewRootCmd() *cobra.Command {
	cfg, err := config.LoadCLIConfig()
	if err != nil {
		cfg = config.CLIConfig{MemoryModel: "decaying"}
	}
	opts := &options{}

	root := &cobra.Command{
		Use:          "vibes-cli",
		Short:        "Poke the gyarumi mood engine from a terminal",
		Long:         "Replays scripted conversations through the mood engine and prints intent flags for single messages.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.memoryModel, "memory-model", "m", cfg.MemoryModel, "Score model: decaying or none")
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", "text", "Output format: json or text")

	root.AddCommand(newSimulateCmd(opts), newClassifyCmd(opts))
	return root
}

func (o *options) validate() error {
	switch o.format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown format %q", o.format)
	}
	switch o.memoryModel {
	case "decaying", "none":
	default:
		return fmt.Errorf("unknown memory model %q", o.memoryModel)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
