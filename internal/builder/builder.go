// Package builder implements the Builder component (spec.md §4.5): the
// stateless glue wiring the Scanner, Class Decoder, NodeFactory, and Model
// together.
package builder

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/classgraph/internal/cgerrors"
	"github.com/standardbeagle/classgraph/internal/classfile"
	"github.com/standardbeagle/classgraph/internal/graph"
	"github.com/standardbeagle/classgraph/internal/scanner"
)

// Builder owns a Model and a NodeFactory and drives class files discovered
// by the Scanner through the Decoder into the Model.
type Builder struct {
	Model   *graph.Model
	Factory graph.NodeFactory

	// WorkerCount bounds how many class files are decoded concurrently.
	// Default (0 or 1) is strictly sequential, matching spec.md §4.5's
	// pseudocode. Values above 1 fan decode+merge work out across a bounded
	// errgroup pool; Model.Merge is already safe for concurrent callers, so
	// this changes only throughput, never the resulting graph (spec.md §8
	// law 4, merge commutativity).
	WorkerCount int

	// ExcludeGlobs is forwarded to the Scanner.
	ExcludeGlobs []string

	cacheMu sync.Mutex
	cache   map[uint64]*classfile.DecodedClass
}

// New returns a Builder over model using factory to project decoded classes
// into nodes.
func New(model *graph.Model, factory graph.NodeFactory) *Builder {
	return &Builder{
		Model:   model,
		Factory: factory,
		cache:   make(map[uint64]*classfile.DecodedClass),
	}
}

// Append scans root and merges every discovered class file into the
// Builder's Model. Corrupt class files are logged and skipped; the scan
// continues. A corrupt archive (reported by the Scanner), model errors (e.g.
// merging into a closed Model) and scanner usage errors abort Append.
func (b *Builder) Append(root string) error {
	var mu sync.Mutex
	var paths []string

	s, err := scanner.Acquire(func(path string, origin []string) error {
		mu.Lock()
		paths = append(paths, path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}
	defer s.Release()
	s.ExcludeGlobs = b.ExcludeGlobs

	if _, err := s.Scan(root); err != nil {
		return err
	}

	return b.processAll(paths)
}

func (b *Builder) processAll(paths []string) error {
	if b.WorkerCount <= 1 {
		for _, path := range paths {
			if err := b.processOne(path); err != nil {
				return err
			}
		}
		return nil
	}

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(b.WorkerCount)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			return b.processOne(path)
		})
	}
	return g.Wait()
}

// processOne decodes one class file (via a content-hash cache) and merges
// the resulting node into the Model. Decode failures are artifact-level:
// logged and treated as success (the scan continues) per spec.md §7.
func (b *Builder) processOne(path string) error {
	dc, err := b.decodeCached(path)
	if err != nil {
		var artifactErr *cgerrors.ArtifactError
		if errors.As(err, &artifactErr) {
			log.Printf("builder: skipping %s: %v", path, err)
			return nil
		}
		return err
	}

	node := b.Factory.GetNode(dc)
	return b.Model.Merge(node)
}

// decodeCached reads path once, hashes its content, and decodes it only if
// the hash has not been seen before in this Builder's lifetime — nested
// jars frequently bundle byte-identical copies of the same class (spec.md
// §5 notes this as a pure performance addition; decoder purity, law 1,
// guarantees it never changes output).
//
// A read failure here is an I/O fault, not a malformed artifact (spec.md
// §7): the file was already found during the scan, so losing it now means
// something is wrong with the filesystem underneath the scan, and Append
// aborts rather than silently skipping it.
func (b *Builder) decodeCached(path string) (*classfile.DecodedClass, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	hash := xxhash.Sum64(content)

	b.cacheMu.Lock()
	if cached, ok := b.cache[hash]; ok {
		b.cacheMu.Unlock()
		return cached, nil
	}
	b.cacheMu.Unlock()

	dc, err := classfile.Decode(bytes.NewReader(content), int64(len(content)), path)
	if err != nil {
		return nil, err
	}

	b.cacheMu.Lock()
	b.cache[hash] = dc
	b.cacheMu.Unlock()

	return dc, nil
}
