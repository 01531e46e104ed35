/*
Package domain contains the core value types shared by every Mosaic component.

It defines the raster and color model used by the avatar generator, the output
format tags understood by encoders, the error taxonomy and the lifecycle events.
This package is kept pure and free of I/O, following Hexagonal Architecture
principles.

# Key Entities

  - RGB / Palette: ordered 8-bit colors. Order matters for quantization.
  - PixelGrid: a square RGB8 raster, row-major, owned by a single generation call.
  - Format: the container tag handed to an encoder (png, gif, bmp, tiff).
  - ConfigError / EncodingError: the two failure kinds callers must tell apart.
*/
package domain
