package parser

import (
	"context"
	"encoding/xml"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"anino/internal/core/errors"
	"anino/internal/shared/util"

	"github.com/gobwas/glob"
)

// Project is a parsed compilation unit: its own sources plus the projects it
// references. Loose marks a project assembled from a directory walk rather
// than a project file.
type Project struct {
	Path          string
	Name          string
	RootNamespace string
	Files         []*File
	References    []*Project
	Loose         bool
}

// AllFiles returns the project's files followed by those of every
// referenced project, each project once.
func (p *Project) AllFiles() []*File {
	var out []*File
	seen := make(map[*Project]bool)
	var visit func(*Project)
	visit = func(pr *Project) {
		if pr == nil || seen[pr] {
			return
		}
		seen[pr] = true
		out = append(out, pr.Files...)
		for _, ref := range pr.References {
			visit(ref)
		}
	}
	visit(p)
	return out
}

type msbuildProject struct {
	XMLName        xml.Name               `xml:"Project"`
	Sdk            string                 `xml:"Sdk,attr"`
	PropertyGroups []msbuildPropertyGroup `xml:"PropertyGroup"`
	ItemGroups     []msbuildItemGroup     `xml:"ItemGroup"`
}

type msbuildPropertyGroup struct {
	RootNamespace             string `xml:"RootNamespace"`
	AssemblyName              string `xml:"AssemblyName"`
	EnableDefaultCompileItems string `xml:"EnableDefaultCompileItems"`
}

type msbuildItemGroup struct {
	Compile          []msbuildItem `xml:"Compile"`
	ProjectReference []msbuildItem `xml:"ProjectReference"`
}

type msbuildItem struct {
	Include string `xml:"Include,attr"`
	Remove  string `xml:"Remove,attr"`
}

// ParseProject accepts a project file, a single source file or a directory.
// A directory resolves to the first project file directly inside it, or to
// its loose sources. A project file that cannot be loaded falls back once to
// the loose sources beside it.
func (f *FrontEnd) ParseProject(ctx context.Context, path string) (*Project, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "cannot open project"), errors.CtxPath, path)
	}

	if info.IsDir() {
		if proj := findProjectFile(path); proj != "" {
			return f.loadWithFallback(ctx, proj, make(map[string]bool))
		}
		return f.loadLoose(ctx, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ProjectExtension:
		return f.loadWithFallback(ctx, path, make(map[string]bool))
	case SourceExtension:
		file, err := f.ParseFile(path)
		if err != nil {
			return nil, err
		}
		return &Project{Path: path, Name: util.FileNameWithoutExt(path), Files: []*File{file}, Loose: true}, nil
	}
	return nil, errors.AddContext(errors.New(errors.CodeNotSupported, "not a C# source, project or directory"), errors.CtxPath, path)
}

func findProjectFile(dir string) string {
	matches, _ := filepath.Glob(filepath.Join(dir, "*"+ProjectExtension))
	if len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[0]
}

func (f *FrontEnd) loadWithFallback(ctx context.Context, path string, seen map[string]bool) (*Project, error) {
	project, err := f.loadProjectFile(ctx, path, seen)
	if err == nil {
		return project, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	slog.Warn("project load failed, parsing loose sources", "path", path, "error", err)
	project, looseErr := f.loadLoose(ctx, filepath.Dir(path))
	if looseErr != nil {
		return nil, errors.AddContext(errors.Wrap(looseErr, errors.CodeParseFailed, "project and loose-file parsing failed"), errors.CtxPath, path)
	}
	return project, nil
}

func (f *FrontEnd) loadProjectFile(ctx context.Context, path string, seen map[string]bool) (*Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	seen[abs] = true

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	var model msbuildProject
	if err := xml.Unmarshal(data, &model); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeParseFailed, "invalid project file"), errors.CtxPath, path)
	}

	dir := filepath.Dir(abs)
	project := &Project{Path: abs, Name: util.FileNameWithoutExt(abs)}
	defaultItems := model.Sdk != ""
	var includes, removes []string
	var references []string
	for _, pg := range model.PropertyGroups {
		if pg.RootNamespace != "" {
			project.RootNamespace = pg.RootNamespace
		}
		if pg.AssemblyName != "" {
			project.Name = pg.AssemblyName
		}
		if strings.EqualFold(strings.TrimSpace(pg.EnableDefaultCompileItems), "false") {
			defaultItems = false
		}
	}
	for _, ig := range model.ItemGroups {
		for _, item := range ig.Compile {
			if item.Include != "" {
				includes = append(includes, splitItems(item.Include)...)
			}
			if item.Remove != "" {
				removes = append(removes, splitItems(item.Remove)...)
			}
		}
		for _, ref := range ig.ProjectReference {
			references = append(references, splitItems(ref.Include)...)
		}
	}
	if project.RootNamespace == "" {
		project.RootNamespace = project.Name
	}

	sources, err := f.projectSources(dir, defaultItems, includes, removes)
	if err != nil {
		return nil, err
	}
	project.Files, err = f.ParseFiles(ctx, sources)
	if err != nil {
		return nil, err
	}

	for _, ref := range references {
		refPath := filepath.Join(dir, filepath.FromSlash(ref))
		refAbs, err := filepath.Abs(refPath)
		if err != nil || seen[refAbs] {
			continue
		}
		refProject, err := f.loadWithFallback(ctx, refAbs, seen)
		if err != nil {
			slog.Warn("skipping referenced project", "path", refAbs, "error", err)
			continue
		}
		project.References = append(project.References, refProject)
	}
	return project, nil
}

func splitItems(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ";") {
		if part = util.NormalizePatternPath(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// projectSources applies MSBuild item semantics: the default glob (all
// sources outside excluded dirs) when enabled, explicit includes, then
// removes. Patterns are relative to the project directory.
func (f *FrontEnd) projectSources(dir string, defaultItems bool, includes, removes []string) ([]string, error) {
	candidates, err := f.walkSources(dir)
	if err != nil {
		return nil, err
	}

	includeGlobs, err := compileItemGlobs(includes)
	if err != nil {
		return nil, err
	}
	removeGlobs, err := compileItemGlobs(removes)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, path := range candidates {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if !defaultItems && !matchAny(includeGlobs, rel) {
			continue
		}
		if matchAny(removeGlobs, rel) {
			continue
		}
		out = append(out, path)
	}
	return out, nil
}

func compileItemGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		for _, variant := range itemPatternVariants(pattern) {
			g, err := glob.Compile(variant, '/')
			if err != nil {
				return nil, err
			}
			out = append(out, g)
		}
	}
	return out, nil
}

// itemPatternVariants spells out MSBuild's "**/", which also matches no
// directory at all, for gobwas/glob, where it needs at least one. Each such
// segment is kept in one variant and dropped in another.
func itemPatternVariants(pattern string) []string {
	i := recursiveSegment(pattern)
	if i < 0 {
		return []string{pattern}
	}
	head, tail := pattern[:i], pattern[i+len("**/"):]
	var out []string
	for _, rest := range itemPatternVariants(tail) {
		out = append(out, head+"**/"+rest, head+rest)
	}
	return out
}

// recursiveSegment returns the index of the first "**/" that is a whole
// path segment, or -1.
func recursiveSegment(pattern string) int {
	for from := 0; ; {
		i := strings.Index(pattern[from:], "**/")
		if i < 0 {
			return -1
		}
		i += from
		if i == 0 || pattern[i-1] == '/' {
			return i
		}
		from = i + len("**/")
	}
}

func matchAny(globs []glob.Glob, value string) bool {
	for _, g := range globs {
		if g.Match(value) {
			return true
		}
	}
	return false
}

func (f *FrontEnd) loadLoose(ctx context.Context, dir string) (*Project, error) {
	sources, err := f.walkSources(dir)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeParseFailed, "cannot list sources"), errors.CtxPath, dir)
	}
	files, err := f.ParseFiles(ctx, sources)
	if err != nil {
		return nil, err
	}
	abs, _ := filepath.Abs(dir)
	return &Project{Path: abs, Name: filepath.Base(abs), RootNamespace: filepath.Base(abs), Files: files, Loose: true}, nil
}

// walkSources lists source files under dir in lexical order, skipping
// excluded directories such as build output.
func (f *FrontEnd) walkSources(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && f.filter.SkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if f.filter.SkipFile(path) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	return out, err
}
