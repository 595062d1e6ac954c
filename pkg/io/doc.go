// Package io reads and writes pattern images.
//
// # Formats
//
// Two lossless formats are supported, chosen by file extension:
//
//   - .bmp: 24-bit uncompressed bitmap, the format DMD controller software
//     loads directly
//   - .png: for previews and tooling that prefers compressed files
//
// Both round-trip an opaque [image.RGBA] byte for byte.
//
// # Saving frames
//
// [SaveFrame] writes the two artifacts of a rendered [dmd.Frame] into a
// directory:
//
//	paths, err := io.SaveFrame("patterns", "lattice.bmp", frame, face)
//	// paths.Pattern  == "patterns/pattern_lattice.bmp"  (mirror space)
//	// paths.Template == "patterns/template_lattice.bmp" (labeled real space)
//
// The template can be edited in any paint program and loaded back with
// [LoadImage] and [dmd.Frame.LoadReal].
//
// [dmd.Frame]: github.com/matzehuels/dmdpattern/pkg/dmd.Frame
// [dmd.Frame.LoadReal]: github.com/matzehuels/dmdpattern/pkg/dmd.Frame.LoadReal
package io
