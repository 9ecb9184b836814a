package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/vestige-dev/vestige/pkg/analyzer/unused"
	"github.com/vestige-dev/vestige/pkg/hooks"
)

// ReportView renders an unused-method report.
type ReportView struct {
	Report *unused.Report
}

func (v *ReportView) RenderData() any {
	return v.Report
}

func (v *ReportView) RenderText(w io.Writer, colored bool) error {
	r := v.Report
	if len(r.Findings) == 0 {
		fmt.Fprintf(w, "No unused methods in %d files.\n", r.Files)
		return nil
	}

	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	dim := color.New(color.Faint)

	for _, f := range r.Findings {
		loc := fmt.Sprintf("%s:%d:%d", f.File, f.Line, f.Column)
		switch f.Variant {
		case unused.VariantCommand:
			if colored {
				cyan.Fprintf(w, "%s  %s", loc, f.Signature)
			} else {
				fmt.Fprintf(w, "%s  %s", loc, f.Signature)
			}
			fmt.Fprintln(w, "  unused; name suggests a command handler that was never registered")
		case unused.VariantHookSuggestion:
			if colored {
				yellow.Fprintf(w, "%s  %s", loc, f.Signature)
			} else {
				fmt.Fprintf(w, "%s  %s", loc, f.Signature)
			}
			fmt.Fprintln(w, "  unused; did you mean one of these hooks?")
			for _, c := range f.Suggestions {
				line := fmt.Sprintf("    %s (%s, %.2f)", c.Display(), c.Origin, c.Score)
				if colored {
					dim.Fprintln(w, line)
				} else {
					fmt.Fprintln(w, line)
				}
			}
		default:
			if colored {
				red.Fprintf(w, "%s  %s", loc, f.Signature)
			} else {
				fmt.Fprintf(w, "%s  %s", loc, f.Signature)
			}
			fmt.Fprintln(w, "  unused")
		}
	}

	s := r.Summary
	fmt.Fprintf(w, "\n%d findings in %d files (%d methods: %d used, %d exempt)\n",
		s.TotalFindings, r.Files, s.MethodsTotal, s.MethodsUsed, s.MethodsSkipped)
	return nil
}

func (v *ReportView) RenderMarkdown(w io.Writer) error {
	r := v.Report
	fmt.Fprintf(w, "# Unused Methods\n\n")
	if len(r.Findings) == 0 {
		fmt.Fprintf(w, "No unused methods in %d files.\n", r.Files)
		return nil
	}

	rows := make([][]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		suggestions := make([]string, 0, len(f.Suggestions))
		for _, c := range f.Suggestions {
			suggestions = append(suggestions, fmt.Sprintf("%s (%.2f)", c.Name, c.Score))
		}
		rows = append(rows, []string{
			fmt.Sprintf("%s:%d", f.File, f.Line),
			f.Signature,
			string(f.Variant),
			strings.Join(suggestions, ", "),
		})
	}

	table := NewTable("", []string{"Location", "Method", "Variant", "Suggestions"}, rows, nil, r)
	if err := table.RenderMarkdown(w); err != nil {
		return err
	}

	s := r.Summary
	fmt.Fprintf(w, "%d findings in %d files (%d methods: %d used, %d exempt)\n",
		s.TotalFindings, r.Files, s.MethodsTotal, s.MethodsUsed, s.MethodsSkipped)
	return nil
}

// RegistryView renders the contents of one or more hook registries.
type RegistryView struct {
	Registries []*hooks.Registry
}

func (v *RegistryView) RenderData() any {
	entries := make([]hooks.Signature, 0)
	for _, r := range v.Registries {
		entries = append(entries, r.Entries()...)
	}
	return entries
}

func (v *RegistryView) table() *Table {
	rows := make([][]string, 0)
	for _, r := range v.Registries {
		for _, e := range r.Entries() {
			rows = append(rows, []string{e.Display(), e.Origin.String(), e.OriginName})
		}
	}
	return NewTable("Known Hooks", []string{"Signature", "Origin", "Owner"}, rows, nil, v.RenderData())
}

func (v *RegistryView) RenderText(w io.Writer, colored bool) error {
	return v.table().RenderText(w, colored)
}

func (v *RegistryView) RenderMarkdown(w io.Writer) error {
	return v.table().RenderMarkdown(w)
}

// CandidateView renders ranked hook similarity candidates for one query.
type CandidateView struct {
	Query      string
	Candidates []hooks.Candidate
}

func (v *CandidateView) RenderData() any {
	return v.Candidates
}

func (v *CandidateView) table() *Table {
	rows := make([][]string, 0, len(v.Candidates))
	for _, c := range v.Candidates {
		rows = append(rows, []string{
			c.Display(),
			c.Origin.String(),
			fmt.Sprintf("%.3f", c.Score),
		})
	}
	title := fmt.Sprintf("Hooks similar to %s", v.Query)
	return NewTable(title, []string{"Signature", "Origin", "Score"}, rows, nil, v.Candidates)
}

func (v *CandidateView) RenderText(w io.Writer, colored bool) error {
	if len(v.Candidates) == 0 {
		fmt.Fprintf(w, "No hooks similar to %s.\n", v.Query)
		return nil
	}
	return v.table().RenderText(w, colored)
}

func (v *CandidateView) RenderMarkdown(w io.Writer) error {
	return v.table().RenderMarkdown(w)
}
