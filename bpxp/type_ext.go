package bpxp

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/arloliu/bpx/format"
	"github.com/arloliu/bpx/section"
)

// Arch is the target architecture stored in byte 0 of the type extension.
type Arch uint8

const (
	ArchX86_64 Arch = iota
	ArchAarch64
	ArchX86
	ArchArmv7hl
	ArchAny
)

var archNames = [...]string{"x86_64", "aarch64", "x86", "armv7hl", "Any"}

func (a Arch) String() string {
	if int(a) >= len(archNames) {
		return "Unknown"
	}

	return archNames[a]
}

// ParseArch parses an architecture name, case-insensitively.
func ParseArch(s string) (Arch, error) {
	for i, name := range archNames {
		if strings.EqualFold(s, name) {
			return Arch(i), nil
		}
	}

	return 0, fmt.Errorf("unknown architecture %q", s)
}

// Platform is the target platform stored in byte 1 of the type extension.
type Platform uint8

const (
	PlatformLinux Platform = iota
	PlatformMac
	PlatformWindows
	PlatformAndroid
	PlatformAny
)

var platformNames = [...]string{"Linux", "Mac", "Windows", "Android", "Any"}

func (p Platform) String() string {
	if int(p) >= len(platformNames) {
		return "Unknown"
	}

	return platformNames[p]
}

// ParsePlatform parses a platform name, case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	for i, name := range platformNames {
		if strings.EqualFold(s, name) {
			return Platform(i), nil
		}
	}

	return 0, fmt.Errorf("unknown platform %q", s)
}

// TypeExt is the package specific content of the main header extension block.
//
//	Byte 0:    Arch
//	Byte 1:    Platform
//	Byte 2-3:  Generator, two ASCII characters
//	Byte 4-15: reserved
type TypeExt struct {
	Arch      Arch
	Platform  Platform
	Generator [2]byte
}

// HostTypeExt describes the running platform. Unknown combinations map to Any.
func HostTypeExt() TypeExt {
	ext := TypeExt{Arch: ArchAny, Platform: PlatformAny}

	switch runtime.GOARCH {
	case "amd64":
		ext.Arch = ArchX86_64
	case "arm64":
		ext.Arch = ArchAarch64
	case "386":
		ext.Arch = ArchX86
	case "arm":
		ext.Arch = ArchArmv7hl
	}

	switch runtime.GOOS {
	case "linux":
		ext.Platform = PlatformLinux
	case "darwin":
		ext.Platform = PlatformMac
	case "windows":
		ext.Platform = PlatformWindows
	case "android":
		ext.Platform = PlatformAndroid
	}

	return ext
}

// Bytes serializes the extension into the 16-byte header block.
func (t TypeExt) Bytes() [section.TypeExtSize]byte {
	var b [section.TypeExtSize]byte
	b[0] = uint8(t.Arch)
	b[1] = uint8(t.Platform)
	b[2] = t.Generator[0]
	b[3] = t.Generator[1]

	return b
}

// ParseTypeExt decodes a package extension block. Unknown enum values are kept
// and print as "Unknown".
func ParseTypeExt(b [section.TypeExtSize]byte) TypeExt {
	return TypeExt{
		Arch:      Arch(b[0]),
		Platform:  Platform(b[1]),
		Generator: [2]byte{b[2], b[3]},
	}
}

var typeExtDescribers = map[format.ContainerType]func([section.TypeExtSize]byte) map[string]string{
	format.ContainerPackage: describePackage,
}

// DescribeTypeExt renders the extension block of a container of type typ as
// named fields. The second return value is false for container types without a
// known extension layout.
func DescribeTypeExt(typ format.ContainerType, block [section.TypeExtSize]byte) (map[string]string, bool) {
	fn, ok := typeExtDescribers[typ]
	if !ok {
		return nil, false
	}

	return fn(block), true
}

func describePackage(block [section.TypeExtSize]byte) map[string]string {
	ext := ParseTypeExt(block)

	return map[string]string{
		"Architecture": ext.Arch.String(),
		"Platform":     ext.Platform.String(),
		"Generator":    string([]rune{rune(ext.Generator[0]), rune(ext.Generator[1])}),
	}
}
