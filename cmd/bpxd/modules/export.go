package modules

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/bpx"
	"github.com/arloliu/bpx/compress"
	"github.com/arloliu/bpx/format"
)

func newExportCommand(g *globals) *cobra.Command {
	var codecName string

	cmd := &cobra.Command{
		Use:   "export INDEX OUTPUT",
		Short: "Write the decoded content of a section to a file, optionally recompressed",
		Long: `Export decodes the section at INDEX and writes it to OUTPUT.

With --codec the content is compressed as a single zstd, s2 or lz4 block;
"none" writes it as is.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := g.requireFile()
			if err != nil {
				return err
			}

			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid section index %q: %w", args[0], err)
			}

			ct, ok := format.ParseCompressionType(codecName)
			if !ok {
				return fmt.Errorf("unknown codec %q, expected none, zstd, s2 or lz4", codecName)
			}
			codec, err := compress.CreateCodec(ct, "export")
			if err != nil {
				return err
			}

			dec, err := bpx.Open(path, g.containerOptions()...)
			if err != nil {
				return err
			}
			defer dec.Close()

			h, ok := dec.FindSectionByIndex(index)
			if !ok {
				return fmt.Errorf("could not find section with index %d", index)
			}

			s, err := dec.OpenSection(h)
			if err != nil {
				return err
			}
			defer s.Close()

			data, err := s.LoadInMemory()
			if err != nil {
				return err
			}

			out, err := codec.Compress(data)
			if err != nil {
				return fmt.Errorf("%s compress: %w", ct, err)
			}

			if err := os.WriteFile(args[1], out, 0o644); err != nil {
				return err
			}

			g.log.Info("section exported",
				zap.Int("index", index),
				zap.Stringer("codec", ct),
				zap.Int("size", len(data)),
				zap.Int("written", len(out)),
			)

			return nil
		},
	}

	cmd.Flags().StringVar(&codecName, "codec", "none", "output codec: none, zstd, s2 or lz4")

	return cmd
}
