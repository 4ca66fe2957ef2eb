// Package diff builds the submit pipeline's diff artifact: raw
// version-control diff text split into per-file sections, stripped of
// lock and generated files, and cut at a file boundary when oversized.
package diff

import (
	"fmt"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultMaxBytes bounds the artifact before truncation kicks in.
const DefaultMaxBytes = 128 * 1024

// DefaultExcludes drops the file sections that drown a reviewer in
// machine-written noise. Config may extend the list, gitignore syntax.
var DefaultExcludes = []string{
	"*.lock",
	"go.sum",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"Cargo.lock",
	"Gemfile.lock",
	"composer.lock",
	"poetry.lock",
	"*.min.js",
	"*.min.css",
	"*.map",
	"*.pb.go",
	"node_modules/",
	"vendor/",
	"dist/",
	"build/",
}

// FileDiff is one file's section of a unified diff.
type FileDiff struct {
	Path    string
	Body    string
	Added   int
	Removed int
}

// Stats summarizes the change volume across file sections.
type Stats struct {
	Files   int
	Added   int
	Removed int
}

// String renders the one-line summary, matching the shape of a
// version-control shortstat line.
func (s Stats) String() string {
	out := fmt.Sprintf("%d file%s changed", s.Files, pluralSuffix(s.Files))
	if s.Added > 0 {
		out += fmt.Sprintf(", %d insertion%s(+)", s.Added, pluralSuffix(s.Added))
	}
	if s.Removed > 0 {
		out += fmt.Sprintf(", %d deletion%s(-)", s.Removed, pluralSuffix(s.Removed))
	}
	return out
}

func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// Artifact is the filtered, possibly truncated diff ready to persist.
type Artifact struct {
	// Text holds the kept sections, plus a marker line when truncated.
	Text string
	// Files are the sections present in Text, in input order.
	Files []FileDiff
	// Stats covers every kept section, including ones truncation
	// dropped from Text, so summaries stay accurate for big changes.
	Stats Stats
	// Excluded lists paths removed by the ignore rules.
	Excluded []string
	// Truncated reports that Text stops before the last kept section.
	Truncated bool
	// Omitted counts kept sections missing from Text.
	Omitted int
}

// Empty reports whether the artifact carries no change at all.
func (a Artifact) Empty() bool { return a.Stats.Files == 0 }

// Option configures Build.
type Option func(*config)

type config struct {
	maxBytes int
	extra    []string
}

// WithMaxBytes overrides the truncation threshold.
func WithMaxBytes(n int) Option {
	return func(c *config) { c.maxBytes = n }
}

// WithExcludes appends ignore patterns to the defaults.
func WithExcludes(patterns ...string) Option {
	return func(c *config) { c.extra = append(c.extra, patterns...) }
}

// Build filters and truncates raw diff text into an Artifact.
func Build(text string, opts ...Option) Artifact {
	cfg := config{maxBytes: DefaultMaxBytes}
	for _, opt := range opts {
		opt(&cfg)
	}

	rules := append(append([]string{}, DefaultExcludes...), cfg.extra...)
	matcher := ignore.CompileIgnoreLines(rules...)

	var art Artifact
	var kept []FileDiff
	for _, f := range Split(text) {
		if matcher.MatchesPath(f.Path) {
			art.Excluded = append(art.Excluded, f.Path)
			continue
		}
		kept = append(kept, f)
	}
	art.Stats = Tally(kept)

	var b strings.Builder
	for i, f := range kept {
		if b.Len()+len(f.Body) > cfg.maxBytes {
			art.Truncated = true
			art.Omitted = len(kept) - i
			break
		}
		b.WriteString(f.Body)
		art.Files = append(art.Files, f)
	}
	if art.Truncated {
		fmt.Fprintf(&b, "# diff truncated: %d of %d file section%s omitted\n",
			art.Omitted, len(kept), pluralSuffix(art.Omitted))
	}
	art.Text = b.String()
	return art
}

// Split cuts unified diff text into per-file sections. Concatenating
// the section bodies reproduces the input from its first header on;
// anything before the first header is dropped.
func Split(text string) []FileDiff {
	var files []FileDiff
	var bodies []*strings.Builder
	cur := -1

	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "diff --git ") {
			files = append(files, FileDiff{Path: headerPath(line)})
			bodies = append(bodies, &strings.Builder{})
			cur = len(files) - 1
		}
		if cur < 0 {
			continue
		}
		bodies[cur].WriteString(line)
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			files[cur].Added++
		case strings.HasPrefix(line, "-"):
			files[cur].Removed++
		}
	}

	for i := range files {
		files[i].Body = bodies[i].String()
	}
	return files
}

// Tally sums section stats.
func Tally(files []FileDiff) Stats {
	var s Stats
	s.Files = len(files)
	for _, f := range files {
		s.Added += f.Added
		s.Removed += f.Removed
	}
	return s
}

// headerPath pulls the repo-relative path from a "diff --git a/X b/X"
// header, preferring the post-change name.
func headerPath(line string) string {
	parts := strings.Fields(line)
	if len(parts) < 4 {
		return ""
	}
	return strings.TrimPrefix(parts[3], "b/")
}
