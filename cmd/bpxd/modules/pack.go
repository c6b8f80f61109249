package modules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheggaaa/pb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/bpx/bpxp"
	"github.com/arloliu/bpx/sd"
)

type packOptions struct {
	arch       string
	platform   string
	generator  string
	meta       []string
	noProgress bool
}

func newPackCommand(g *globals) *cobra.Command {
	o := &packOptions{}

	cmd := &cobra.Command{
		Use:   "pack FILES...",
		Short: "Create a BPX type P (package) holding the given files and directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := g.requireFile()
			if err != nil {
				return err
			}

			return o.run(cmd, g, path, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.arch, "arch", "", "target architecture: x86_64, aarch64, x86, armv7hl or any (default is the host)")
	f.StringVar(&o.platform, "platform", "", "target platform: linux, mac, windows, android or any (default is the host)")
	f.StringVar(&o.generator, "generator", "", "two character generator tag")
	f.StringSliceVar(&o.meta, "meta", nil, "metadata property as key=value, repeatable")
	f.BoolVar(&o.noProgress, "no-progress", false, "do not show the progress bar")

	return cmd
}

func (o *packOptions) typeExt() (bpxp.TypeExt, error) {
	ext := bpxp.HostTypeExt()

	if o.arch != "" {
		arch, err := bpxp.ParseArch(o.arch)
		if err != nil {
			return ext, err
		}
		ext.Arch = arch
	}

	if o.platform != "" {
		platform, err := bpxp.ParsePlatform(o.platform)
		if err != nil {
			return ext, err
		}
		ext.Platform = platform
	}

	if o.generator != "" {
		if len(o.generator) != 2 {
			return ext, fmt.Errorf("generator must be exactly two characters, got %q", o.generator)
		}
		copy(ext.Generator[:], o.generator)
	}

	return ext, nil
}

func (o *packOptions) metadata() (*sd.Object, error) {
	if len(o.meta) == 0 {
		return nil, nil
	}

	obj := sd.NewObject()
	for _, kv := range o.meta {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata %q, expected key=value", kv)
		}
		obj.Set(key, sd.String(value))
	}
	obj.AddDebugInfo()

	return obj, nil
}

func (o *packOptions) run(cmd *cobra.Command, g *globals, path string, sources []string) (err error) {
	ext, err := o.typeExt()
	if err != nil {
		return err
	}

	meta, err := o.metadata()
	if err != nil {
		return err
	}

	var bar *pb.ProgressBar
	if !o.noProgress {
		total, err := totalSize(sources)
		if err != nil {
			return err
		}
		bar = newProgressBar(cmd, total)
	}

	enc, err := bpxp.NewEncoder(path,
		bpxp.WithLogger(g.log),
		bpxp.WithContainerOptions(g.containerOptions()...),
		bpxp.WithProgress(progressFunc(bar)),
	)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, enc.Close())
		if err != nil {
			removePartial(g, path)
		}
	}()

	enc.SetTypeExt(ext)

	for _, src := range sources {
		g.log.Info("packing", zap.String("source", src))
		if err := enc.Pack(src); err != nil {
			return fmt.Errorf("pack %s: %w", src, err)
		}
	}

	if meta != nil {
		if err := enc.AddMetadata(meta); err != nil {
			return err
		}
	}

	err = enc.Save()
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	g.log.Info("package saved", zap.String("path", path))

	return nil
}

// removePartial deletes a package that failed to save.
func removePartial(g *globals, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		g.log.Warn("cannot remove incomplete package", zap.String("path", path), zap.Error(err))
	}
}

// totalSize sums the sizes of the regular files under every source.
func totalSize(sources []string) (int64, error) {
	var total int64
	for _, src := range sources {
		err := filepath.WalkDir(src, func(_ string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()

			return nil
		})
		if err != nil {
			return 0, err
		}
	}

	return total, nil
}

func newProgressBar(cmd *cobra.Command, total int64) *pb.ProgressBar {
	bar := pb.New64(total).SetUnits(pb.U_BYTES)
	bar.Output = cmd.ErrOrStderr()
	bar.Start()

	return bar
}

func progressFunc(bar *pb.ProgressBar) bpxp.ProgressFunc {
	if bar == nil {
		return nil
	}

	return func(_ string, n int64) {
		bar.Add64(n)
	}
}
