// Package bpx reads and writes BPX containers: a fixed 40-byte main header, a
// table of 24-byte section headers and the section payloads.
//
// Each section is an independently framed payload with its own type tag, weak
// checksum and optional xz compression. Sections are exposed as seekable byte
// streams; payloads above one million bytes are backed by a temporary file,
// smaller ones by memory.
//
// # Basic Usage
//
// Writing a container:
//
//	enc, _ := bpx.Create("out.bpx")
//	defer enc.Close()
//
//	idx, _ := enc.AddSection(format.SectionType(0x10), 0)
//	s := enc.SectionByIndex(idx)
//	s.Write(payload)
//
//	strIdx, _ := enc.AddSection(format.SectionStringTable, 0)
//	strs := bpx.NewStringTable(enc.SectionByIndex(strIdx))
//	offset, _ := strs.WriteString("hello")
//
//	if err := enc.Save(); err != nil {
//	    return err
//	}
//
// Reading it back:
//
//	dec, err := bpx.Open("out.bpx")
//	if err != nil {
//	    return err // corrupt or unsupported container
//	}
//	defer dec.Close()
//
//	h, _ := dec.FindSectionByType(format.SectionType(0x10))
//	s, _ := dec.OpenSection(h)
//	defer s.Close()
//	data, _ := s.LoadInMemory()
//
// # Integrity
//
// The main header checksum covers the main header and every section header, so
// the whole table is validated when a Decoder is created. Payload checksums are
// verified when a section is opened. The checksum is a wrapping byte sum: it
// detects accidental damage, not tampering.
//
// # Package Structure
//
// The sd package layers the BPXSD structured data format on top of a section and
// the bpxp package implements packed file trees (container type 'P').
package bpx
