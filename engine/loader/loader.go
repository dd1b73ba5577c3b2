package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-ovo/engine/node"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// LoaderBackendType identifies the scene file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeOVO selects the OVO chunked scene backend.
	BackendTypeOVO LoaderBackendType = iota
)

// workerIdleTimeout is handed to the batch workers. They do not act on it; a batch worker
// exits when LoadAll closes its task channel.
const workerIdleTimeout = 1 * time.Second

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.Mutex

	backendType LoaderBackendType
	warn        WarningHandler
	textures    TextureLoader
	textureDir  string
	meshShadows bool
	workers     int
}

// Loader turns scene files into node trees. Each load builds a fresh tree hanging from a
// synthetic root named "Scene Root"; no partial tree is returned on error.
type Loader interface {
	// Load decodes the scene file at path. Textures are resolved relative to the file's
	// directory. Calls on one Loader are serialised.
	//
	// Parameters:
	//   - path: the scene file path
	//
	// Returns:
	//   - node.Node: the scene root
	//   - error: ErrFileNotFound, ErrTruncatedStream or ErrUnsupportedChunk, wrapped with the path
	Load(path string) (node.Node, error)

	// LoadReader decodes a scene from a stream. Textures are resolved relative to the
	// directory set with WithTextureDir.
	//
	// Parameters:
	//   - r: the scene byte stream
	//
	// Returns:
	//   - node.Node: the scene root
	//   - error: ErrTruncatedStream or ErrUnsupportedChunk
	LoadReader(r io.Reader) (node.Node, error)

	// LoadAll decodes several scene files concurrently. Every file gets its own backend and
	// material registry.
	//
	// Parameters:
	//   - paths: the scene file paths
	//
	// Returns:
	//   - []node.Node: the scene roots in the order of paths
	//   - error: the error of the first failing path in input order
	LoadAll(paths []string) ([]node.Node, error)

	// Textures returns the texture loader shared by every load.
	//
	// Returns:
	//   - TextureLoader: the texture loader
	Textures() TextureLoader
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the scene format backend (e.g., BackendTypeOVO)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		backendType: backendType,
		warn:        defaultWarningHandler,
		meshShadows: true,
		workers:     runtime.NumCPU(),
	}

	for _, option := range options {
		option(l)
	}
	if l.textures == nil {
		l.textures = NewTextureLoader(true)
	}
	if l.warn == nil {
		l.warn = func(string, ...any) {}
	}
	return l
}

func (l *loader) Load(path string) (node.Node, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadFile(path, l.newBackend())
}

func (l *loader) LoadReader(r io.Reader) (node.Node, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.newBackend().Decode(r, l.textureDir)
}

func (l *loader) LoadAll(paths []string) ([]node.Node, error) {
	roots := make([]node.Node, len(paths))
	if len(paths) == 0 {
		return roots, nil
	}
	errs := make([]error, len(paths))

	tasks := make(chan worker.Task, len(paths))
	stop := make(chan int)
	for id := range max(min(l.workers, len(paths)), 1) {
		worker.NewWorker(id, tasks, stop, workerIdleTimeout, nil).Start()
	}

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		tasks <- worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				roots[i], errs[i] = l.loadFile(path, l.newBackend())
				return roots[i], errs[i]
			},
		}
	}
	// workers drain the queue and return once it is closed
	close(tasks)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return roots, nil
}

func (l *loader) Textures() TextureLoader {
	return l.textures
}

// newBackend creates a backend for a single load.
func (l *loader) newBackend() loaderBackend {
	switch l.backendType {
	case BackendTypeOVO:
		return newOVOLoaderBackend(l.warn, l.textures, l.meshShadows)
	default:
		panic(fmt.Sprintf("loader: unknown backend type %d", l.backendType))
	}
}

// loadFile opens path and decodes it with backend.
func (l *loader) loadFile(path string, backend loaderBackend) (node.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	defer f.Close()

	root, err := backend.Decode(bufio.NewReader(f), filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return root, nil
}
