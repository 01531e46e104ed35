/*
Package avatar turns an arbitrary identifier into a small, reproducible bitmap.

The pipeline is leaf-first:

  - DeriveSeed folds the first ten runes of the identifier into a uint32.
  - SampleBlocks walks the block lattice, samples the injected NoiseField once
    per block with the seed added to the y coordinate, and quantizes each
    sample into a palette index.
  - Paint expands the index grid into a row-major RGB8 PixelGrid.
  - Generator hands the finished grid to an ImageEncoder.

Every step is a pure function of the identifier and the Config, so two calls
with the same inputs produce byte-identical output. A Generator is immutable
after construction and safe for concurrent use.
*/
package avatar
