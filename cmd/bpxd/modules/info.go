package modules

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/bpx"
	"github.com/arloliu/bpx/bpxp"
	"github.com/arloliu/bpx/internal/hash"
	"github.com/arloliu/bpx/sd"
	"github.com/arloliu/bpx/section"
)

var errBinaryToTerminal = errors.New("writing binary data to standard output can mess up your terminal, use --output or --force")

type infoOptions struct {
	sht      bool
	metadata bool
	hex      bool
	force    bool
	bpxsd    bool
	digest   bool
	dump     int
	output   string
	format   string
}

func newInfoCommand(g *globals) *cobra.Command {
	o := &infoOptions{}

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print general information about a BPX file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := g.requireFile()
			if err != nil {
				return err
			}

			dec, err := bpx.Open(path, g.containerOptions()...)
			if err != nil {
				return err
			}
			defer dec.Close()

			return o.run(cmd, dec)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&o.sht, "sht", "s", false, "print the section header table")
	f.BoolVarP(&o.metadata, "metadata", "m", false, "print the TypeExt block of the main header")
	f.BoolVarP(&o.hex, "hex", "x", false, "print data in hex")
	f.BoolVar(&o.force, "force", false, "write binary section data to the terminal")
	f.BoolVar(&o.bpxsd, "bpxsd", false, "decode the dumped section as a BPXSD object")
	f.BoolVar(&o.digest, "digest", false, "add the xxHash64 of each decoded section to the section table")
	f.IntVarP(&o.dump, "dump", "d", -1, "dump the content of the section with the given index")
	f.StringVarP(&o.output, "output", "o", "", "write the dump to a file")
	f.StringVar(&o.format, "format", "text", "BPXSD output format: text or yaml")

	return cmd
}

func (o *infoOptions) run(cmd *cobra.Command, dec *bpx.Decoder) error {
	w := cmd.OutOrStdout()

	printMainHeader(w, dec.MainHeader())

	if o.metadata {
		printTypeExt(w, dec.MainHeader(), o.hex)
	}

	if o.sht {
		if err := printSectionTable(w, dec, o.digest); err != nil {
			return err
		}
	}

	if o.dump < 0 {
		return nil
	}

	h, ok := dec.FindSectionByIndex(o.dump)
	if !ok {
		return fmt.Errorf("could not find section with index %d", o.dump)
	}

	s, err := dec.OpenSection(h)
	if err != nil {
		return err
	}
	defer s.Close()

	if o.bpxsd {
		return o.printStructuredData(w, s)
	}

	out := w
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	} else if !o.hex && !o.force {
		return errBinaryToTerminal
	}

	if o.hex {
		return hexDump(out, s)
	}

	_, err = io.Copy(out, s)

	return err
}

func (o *infoOptions) printStructuredData(w io.Writer, r io.Reader) error {
	obj, err := sd.Decode(r)
	if err != nil {
		return err
	}

	switch o.format {
	case "text":
		return sd.Print(w, obj)
	case "yaml":
		native, err := sd.ToNative(obj)
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(w)
		if err := enc.Encode(native); err != nil {
			return err
		}

		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q, expected text or yaml", o.format)
	}
}

func printMainHeader(w io.Writer, h section.MainHeader) {
	fmt.Fprintln(w, "====> BPX Main Header <====")
	fmt.Fprintf(w, "Type: %c (%s)\n", rune(h.Type), h.Type)
	fmt.Fprintf(w, "Version: %d\n", h.Version)
	fmt.Fprintf(w, "File size: %d\n", h.FileSize)
	fmt.Fprintf(w, "Number of sections: %d\n", h.SectionCount)
	fmt.Fprintf(w, "Checksum: %#x\n", h.Checksum)
	fmt.Fprintln(w, "====> End <====")
	fmt.Fprintln(w)
}

func printTypeExt(w io.Writer, h section.MainHeader, asHex bool) {
	fmt.Fprintln(w, "====> BPX TypeExt <====")

	fields, ok := bpxp.DescribeTypeExt(h.Type, h.TypeExt)
	if asHex || !ok {
		fmt.Fprintln(w, hexLine(h.TypeExt[:]))
	} else {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			fmt.Fprintf(w, "%s: %s\n", k, fields[k])
		}
	}

	fmt.Fprintln(w, "====> End <====")
	fmt.Fprintln(w)
}

func printSectionTable(w io.Writer, dec *bpx.Decoder, withDigest bool) error {
	header := []string{"#", "Type", "Pointer", "Size", "Compressed", "Checksum", "Flags"}
	if withDigest {
		header = append(header, "XXH64")
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for i := 0; i < dec.SectionCount(); i++ {
		h := dec.SectionByIndex(i)
		row := []string{
			strconv.Itoa(i),
			fmt.Sprintf("%s (%#02x)", h.Type, uint8(h.Type)),
			strconv.FormatUint(h.Pointer, 10),
			strconv.FormatUint(uint64(h.Size), 10),
			strconv.FormatUint(uint64(h.CompressedSize), 10),
			fmt.Sprintf("%#x", h.Checksum),
			h.Flags.String(),
		}

		if withDigest {
			digest, err := sectionDigest(dec, h)
			if err != nil {
				return fmt.Errorf("section %d: %w", i, err)
			}
			row = append(row, fmt.Sprintf("%016x", digest))
		}

		table.Append(row)
	}

	fmt.Fprintln(w, "====> BPX Section Header Table <====")
	table.Render()
	fmt.Fprintln(w, "====> End <====")
	fmt.Fprintln(w)

	return nil
}

func sectionDigest(dec *bpx.Decoder, h section.Header) (uint64, error) {
	s, err := dec.OpenSection(h)
	if err != nil {
		return 0, err
	}
	defer s.Close()

	return hash.Digest(s)
}

// hexLine formats b as upper-case hex bytes separated by spaces.
func hexLine(b []byte) string {
	out := make([]byte, 0, len(b)*3)
	for i, c := range b {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, fmt.Sprintf("%02X", c)...)
	}

	return string(out)
}

// hexDump writes r in the layout of `hexdump -C`.
func hexDump(w io.Writer, r io.Reader) error {
	d := hex.Dumper(w)
	if _, err := io.Copy(d, r); err != nil {
		return err
	}

	return d.Close()
}
