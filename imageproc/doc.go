// Package imageproc computes raster transform descriptors and applies them
// to GIF, PNG and JPEG images.
//
// Geometry and execution are split: Resize, Scale, Crop and Flip are pure
// functions that turn original dimensions plus options into a Descriptor
// (source window, destination window, output size), and the executor decodes,
// resamples and re-encodes according to a Descriptor. This keeps the math
// trivially testable without touching pixels.
//
//	d, err := imageproc.Resize(800, 400, imageproc.ResizeOptions{
//	    MaxWidth:       400,
//	    PreserveAspect: true,
//	})
//	out, err := imageproc.Apply(srcBytes, imageproc.FormatPNG, d)
//
// Axis inversion is carried as explicit FlipH/FlipV flags on the Descriptor
// rather than any negative-dimension encoding, so any resampling backend can
// consume it natively.
package imageproc
