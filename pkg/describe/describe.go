// Package describe turns a branch's commits, its diff artifact, and any
// linked plan into the title and body of a pull request.
package describe

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/drovertool/drover/pkg/diff"
)

// planExcerptLimit caps how much of a plan body is quoted.
const planExcerptLimit = 400

// footerText marks a body as written by this tool. Appending it twice
// would stack separators on every resubmit, so WithFooter checks first.
const footerText = "Submitted with [drover](https://github.com/drovertool/drover)"

// Input carries everything description generation may draw on.
type Input struct {
	Branch     string
	Commits    []string
	DiffFiles  []diff.FileDiff
	Stats      diff.Stats
	PlanNumber int
	PlanTitle  string
	PlanBody   string
}

// Title picks the request title: the head commit's subject when the
// branch carries exactly one commit, otherwise a humanized branch name.
func Title(in Input) string {
	if len(in.Commits) == 1 && strings.TrimSpace(in.Commits[0]) != "" {
		return strings.TrimSpace(in.Commits[0])
	}
	return humanizeBranch(in.Branch)
}

// Body assembles the markdown body: plan linkage and excerpt, commit
// list, change summary. Sections without content are left out.
func Body(in Input) string {
	var sections []string

	if in.PlanNumber > 0 {
		sections = append(sections, fmt.Sprintf("Closes #%d", in.PlanNumber))

		var plan strings.Builder
		plan.WriteString("## Plan\n")
		if title := strings.TrimSpace(in.PlanTitle); title != "" {
			fmt.Fprintf(&plan, "\n**%s**\n", title)
		}
		if quote := excerpt(in.PlanBody, planExcerptLimit); quote != "" {
			fmt.Fprintf(&plan, "\n%s\n", quote)
		}
		sections = append(sections, strings.TrimRight(plan.String(), "\n"))
	}

	if len(in.Commits) > 0 {
		var commits strings.Builder
		commits.WriteString("## Commits\n\n")
		for _, subject := range in.Commits {
			fmt.Fprintf(&commits, "- %s\n", subject)
		}
		sections = append(sections, strings.TrimRight(commits.String(), "\n"))
	}

	if in.Stats.Files > 0 {
		var changes strings.Builder
		changes.WriteString("## Changes\n\n")
		changes.WriteString(in.Stats.String())
		changes.WriteString("\n")
		for _, f := range in.DiffFiles {
			fmt.Fprintf(&changes, "\n- `%s` (+%d -%d)", f.Path, f.Added, f.Removed)
		}
		sections = append(sections, changes.String())
	}

	return strings.Join(sections, "\n\n")
}

// WithFooter appends the tool footer unless the body already ends in
// one.
func WithFooter(body string) string {
	if strings.Contains(body, footerText) {
		return body
	}
	trimmed := strings.TrimRight(body, "\n")
	if trimmed == "" {
		return footerText
	}
	return trimmed + "\n\n---\n" + footerText
}

// PreviewBodyChange renders a line diff between the current and the
// proposed body, "-" for dropped lines and "+" for added ones. Equal
// lines are not shown. An empty result means the bodies match.
func PreviewBodyChange(current, proposed string) string {
	if current == proposed {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(current, proposed)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		var sign string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sign = "-"
		case diffmatchpatch.DiffInsert:
			sign = "+"
		default:
			continue
		}
		text := strings.TrimRight(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			fmt.Fprintf(&out, "%s %s\n", sign, line)
		}
	}
	return out.String()
}

// leadingNumber matches an issue-number prefix in a branch segment
// (123-fix-crash). The number is linkage, not title text.
var leadingNumber = regexp.MustCompile(`^\d{1,6}(?:[-_]+|$)`)

// humanizeBranch turns a branch name like feat/add-oauth-flow into
// "Add oauth flow". Only the segment after the last slash counts, so
// owner prefixes drop away.
func humanizeBranch(branch string) string {
	name := branch
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = leadingNumber.ReplaceAllString(name, "")
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "Update"
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// excerpt keeps the first paragraph, cut at a word break under limit.
func excerpt(body string, limit int) string {
	text := strings.TrimSpace(body)
	if text == "" {
		return ""
	}
	if i := strings.Index(text, "\n\n"); i >= 0 {
		text = text[:i]
	}
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= limit {
		return text
	}
	cut := strings.LastIndex(text[:limit], " ")
	if cut <= 0 {
		cut = limit
	}
	return text[:cut] + "..."
}
