package parser

import (
	"context"
	"os"
	"time"

	"anino/internal/core/errors"
	"anino/internal/shared/observability"
	"anino/internal/shared/util"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	"golang.org/x/sync/errgroup"
)

// SourceExtension is the only file type the front-end reads.
const SourceExtension = ".cs"

// ProjectExtension marks an MSBuild project file.
const ProjectExtension = ".csproj"

// CSharpLanguage returns the tree-sitter C# grammar.
func CSharpLanguage() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_c_sharp.Language())
}

type Options struct {
	ExcludeDirs  []string
	ExcludeFiles []string
	Workers      int
}

// FrontEnd parses C# sources into the syntax model.
type FrontEnd struct {
	pool      *ParserPool
	extractor Extractor
	filter    *util.PathFilter
	workers   int
}

func NewFrontEnd(opts Options) (*FrontEnd, error) {
	filter, err := util.NewPathFilter(opts.ExcludeDirs, opts.ExcludeFiles, []string{SourceExtension})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "invalid exclude pattern")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	return &FrontEnd{
		pool:      NewParserPool(CSharpLanguage()),
		extractor: NewCSharpExtractor(),
		filter:    filter,
		workers:   workers,
	}, nil
}

// ParseSource parses in-memory source attributed to path.
func (f *FrontEnd) ParseSource(path string, source []byte) (*File, error) {
	start := time.Now()
	sp := f.pool.Get()
	defer f.pool.Put(sp)

	tree := sp.Parse(source, nil)
	if tree == nil {
		observability.FilesParsedTotal.WithLabelValues("error").Inc()
		return nil, errors.AddContext(errors.New(errors.CodeParseFailed, "parse failed"), errors.CtxPath, path)
	}
	defer tree.Close()

	file, err := f.extractor.Extract(tree.RootNode(), source, path)
	if err != nil {
		observability.FilesParsedTotal.WithLabelValues("error").Inc()
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeParseFailed, "extraction failed"), errors.CtxPath, path)
	}
	observability.ParsingDuration.Observe(time.Since(start).Seconds())
	observability.FilesParsedTotal.WithLabelValues("ok").Inc()
	return file, nil
}

func (f *FrontEnd) ParseFile(path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		code := errors.CodeParseFailed
		if os.IsNotExist(err) {
			code = errors.CodeNotFound
		}
		return nil, errors.AddContext(errors.Wrap(err, code, "cannot read source file"), errors.CtxPath, path)
	}
	return f.ParseSource(path, source)
}

// ParseFiles parses paths concurrently. The result keeps input order; the
// first failure cancels the remaining work.
func (f *FrontEnd) ParseFiles(ctx context.Context, paths []string) ([]*File, error) {
	files := make([]*File, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file, err := f.ParseFile(path)
			if err != nil {
				return err
			}
			files[i] = file
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
