package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWarningHandler is an option builder that routes recoverable load problems to h.
// The handler may be called from several goroutines during LoadAll.
//
// Parameters:
//   - h: the warning handler, nil discards warnings
//
// Returns:
//   - LoaderBuilderOption: a function that applies the warning handler option to a loader
func WithWarningHandler(h WarningHandler) LoaderBuilderOption {
	return func(l *loader) {
		l.warn = h
	}
}

// WithTextureLoader is an option builder that replaces the texture loader.
//
// Parameters:
//   - t: the texture loader
//
// Returns:
//   - LoaderBuilderOption: a function that applies the texture loader option to a loader
func WithTextureLoader(t TextureLoader) LoaderBuilderOption {
	return func(l *loader) {
		l.textures = t
	}
}

// WithTextureDir is an option builder that sets the directory textures of LoadReader scenes
// are resolved against.
//
// Parameters:
//   - dir: the texture directory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the texture directory option to a loader
func WithTextureDir(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.textureDir = dir
	}
}

// WithMeshShadows is an option builder that sets whether loaded meshes cast shadows.
//
// Parameters:
//   - enabled: the CastsShadows value of every loaded mesh
//
// Returns:
//   - LoaderBuilderOption: a function that applies the mesh shadows option to a loader
func WithMeshShadows(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.meshShadows = enabled
	}
}

// WithWorkers is an option builder that caps the goroutines LoadAll decodes on.
//
// Parameters:
//   - n: the worker count, values below 1 mean one worker
//
// Returns:
//   - LoaderBuilderOption: a function that applies the workers option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = max(n, 1)
	}
}
