// package common contains plain data types and math helpers shared across the engine packages.
// They are not interface-wrapped structs, just plain structs that express commonly used data-types.
package common

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
// Rows are stored bottom-up so that UV (0, 0) addresses the first texel, matching the OVO exporter.
type TextureStagingData struct {
	// Pixels is the RGBA pixel data, 4 bytes per pixel.
	Pixels []byte
	// Width is the texture width in pixels.
	Width uint32
	// Height is the texture height in pixels.
	Height uint32
}
