/*
Package ports defines the driven ports (interfaces) for the Mosaic service.

These interfaces decouple the avatar core and the service facade from concrete
implementations, so the generator can run against a scripted noise function in
tests and the service can swap its cache and secret backends.

# Key Interfaces

  - NoiseField: coherent 2D noise sampled once per avatar block.
  - ImageEncoder: serializes a finished PixelGrid to a sink in a given Format.
  - AvatarCache: stores encoded avatars keyed by seed and format.
  - SecretStore: resolves named secrets such as the dictionary API key.
*/
package ports
