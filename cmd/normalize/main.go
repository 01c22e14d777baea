package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/godilite/feedback-metrics/internal/normalizer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type flags struct {
	section string
	seed    uint64
	verbose bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "normalize",
		Short:         "Normalize feedback analysis payloads into chart-ready records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.section, "section", "", "read the named section of the payload")
	root.PersistentFlags().Uint64Var(&f.seed, "seed", 0, "seed for point jitter (0 picks a random seed)")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log pipeline details to stderr")

	root.AddCommand(newShapeCmd(f), newAspectsCmd(f), newPointsCmd(f))
	return root
}

func newShapeCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "shape <file.json|->",
		Short: "Print the detected payload shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd, args[0], f.section)
			if err != nil {
				return err
			}
			shape := normalizer.Detect(payload)
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"shape":        shape.String(),
				"aspect_shape": shape.IsAspectShape(),
				"point_shape":  shape.IsPointShape(),
			})
		},
	}
}

func newAspectsCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "aspects <file.json|->",
		Short: "Print ranked aspect comparison records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd, args[0], f.section)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), newNormalizer(cmd, f).Aspects(payload))
		},
	}
}

func newPointsCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "points <file.json|->",
		Short: "Print jittered scatter points grouped by satisfaction bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd, args[0], f.section)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), newNormalizer(cmd, f).Points(payload))
		},
	}
}

func newNormalizer(cmd *cobra.Command, f *flags) *normalizer.Normalizer {
	logger := zap.NewNop()
	if f.verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}

	opts := []normalizer.Option{normalizer.WithLogger(logger)}
	if cmd.Flags().Changed("seed") {
		opts = append(opts, normalizer.WithSeed(f.seed))
	}
	return normalizer.New(opts...)
}

// readPayload decodes the JSON document at path, or stdin when path is "-".
func readPayload(cmd *cobra.Command, path, section string) (normalizer.Payload, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	var payload normalizer.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode payload %s: %w", path, err)
	}
	if section != "" {
		payload = normalizer.Section(payload, section)
	}
	return payload, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
