/*
Package mosaic generates deterministic block avatars from arbitrary identifiers.

An identifier is reduced to a numeric seed, the seed selects a slice of a
coherent Perlin noise field, and each block of the image takes the palette
color its noise value falls into. The same identifier always produces the same
bytes, so avatars can be cached or regenerated freely.

The package also hosts the two small utilities served next to the avatars: a
dictionary proxy and an exact matrix determinant calculator.

# Usage

	svc, err := mosaic.New()
	if err != nil {
		log.Fatal(err)
	}

	res, err := svc.Avatar(ctx, "alice@example.com", domain.FormatPNG)
	if err != nil {
		log.Fatal(err)
	}
	os.WriteFile("alice.png", res.Data, 0o644)

Generation settings, caching and the dictionary client are injected with
options such as WithGenerator, WithCache and WithDictionary. Observability is
attached through WithHooks; see package observability.
*/
package mosaic
