package modules

import (
	"github.com/cheggaaa/pb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/bpx/bpxp"
	"github.com/arloliu/bpx/format"
)

func newUnpackCommand(g *globals) *cobra.Command {
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "unpack [TARGET]",
		Short: "Extract a BPX type P (package) into TARGET (default is the current directory)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := g.requireFile()
			if err != nil {
				return err
			}

			target := "."
			if len(args) == 1 {
				target = args[0]
			}

			// The decoder is opened twice: once to size the progress bar,
			// once with the progress hook installed.
			var bar *pb.ProgressBar
			if !noProgress {
				total, err := packedSize(g, path)
				if err != nil {
					return err
				}
				bar = newProgressBar(cmd, total)
			}

			dec, err := bpxp.Open(path,
				bpxp.WithLogger(g.log),
				bpxp.WithContainerOptions(g.containerOptions()...),
				bpxp.WithProgress(progressFunc(bar)),
			)
			if err != nil {
				return err
			}
			defer dec.Close()

			err = dec.Unpack(target)
			if bar != nil {
				bar.Finish()
			}
			if err != nil {
				return err
			}

			g.log.Info("package extracted", zap.String("target", target))

			return nil
		},
	}

	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "do not show the progress bar")

	return cmd
}

// packedSize returns the decoded size of all data sections of the package,
// an upper bound of the extracted content.
func packedSize(g *globals, path string) (int64, error) {
	dec, err := bpxp.Open(path, bpxp.WithContainerOptions(g.containerOptions()...))
	if err != nil {
		return 0, err
	}
	defer dec.Close()

	var total int64
	for _, h := range dec.Container().FindAllSectionsOfType(format.SectionData) {
		total += int64(h.Size)
	}

	return total, nil
}
