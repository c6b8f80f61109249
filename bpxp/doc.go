// Package bpxp implements the BPX package container (type 'P'): a file tree
// packed into data sections together with a string table of paths and an
// optional BPXSD metadata object.
//
// Each packed file is a record inside a data section:
//
//	[size u64][path offset u32][size bytes of content]
//
// The path offset addresses the shared string table. Paths are relative,
// '/' separated and start with the base name of the packed source. Data
// sections are capped (DefaultSectionCap); a file whose content does not fit
// continues at the start of the next data section, while a record header
// always fits in the section that holds it.
//
// # Packing
//
//	enc, err := bpxp.NewEncoder("assets.bpx")
//	if err != nil {
//	    return err
//	}
//	defer enc.Close()
//
//	enc.SetTypeExt(bpxp.HostTypeExt())
//	if err := enc.Pack("./assets"); err != nil {
//	    return err
//	}
//	return enc.Save()
//
// # Unpacking
//
//	dec, err := bpxp.Open("assets.bpx")
//	if err != nil {
//	    return err
//	}
//	defer dec.Close()
//
//	return dec.Unpack("./out")
package bpxp
