package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/alfredjeanlab/glossary/internal/model"
	"github.com/alfredjeanlab/glossary/internal/ui"
)

// termOutput is the json/yaml shape of `glossary show`.
type termOutput struct {
	Name      string           `json:"name" yaml:"name"`
	Text      string           `json:"text" yaml:"text"`
	Links     []linkOutput     `json:"links" yaml:"links"`
	Relations []relationOutput `json:"relations" yaml:"relations"`
	Incoming  []incomingOutput `json:"incoming" yaml:"incoming"`
}

type linkOutput struct {
	URL   string `json:"url" yaml:"url"`
	Title string `json:"title" yaml:"title"`
}

type relationOutput struct {
	Type   string `json:"type" yaml:"type"`
	Target string `json:"target" yaml:"target"`
}

type incomingOutput struct {
	Type   string `json:"type" yaml:"type"`
	Source string `json:"source" yaml:"source"`
}

func newTermOutput(t *model.Term, incoming []model.GraphEdge) termOutput {
	out := termOutput{
		Name:      t.Name,
		Text:      t.Definition.Text,
		Links:     []linkOutput{},
		Relations: []relationOutput{},
		Incoming:  []incomingOutput{},
	}
	for _, l := range t.Definition.Links {
		out.Links = append(out.Links, linkOutput{URL: l.URL, Title: l.Title})
	}
	for _, r := range t.Relations {
		out.Relations = append(out.Relations, relationOutput{Type: r.RelationType, Target: r.ToTerm})
	}
	for _, e := range incoming {
		out.Incoming = append(out.Incoming, incomingOutput{Type: e.Type, Source: e.From})
	}
	return out
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

func printTermText(w io.Writer, t termOutput) {
	fmt.Fprintln(w, ui.RenderTerm(t.Name))
	fmt.Fprintln(w)
	fmt.Fprintln(w, t.Text)

	if len(t.Links) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ui.RenderMuted("Links"))
		for _, l := range t.Links {
			fmt.Fprintf(w, "  %s  %s\n", l.Title, ui.RenderMuted(l.URL))
		}
	}

	if len(t.Relations) > 0 || len(t.Incoming) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ui.RenderMuted("Relations"))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, r := range t.Relations {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", "→", ui.RenderAccent(r.Type), r.Target)
		}
		for _, r := range t.Incoming {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", "←", ui.RenderAccent(r.Type), r.Source)
		}
		tw.Flush()
	}
}

// splitPair splits "key=value" at the first or last '='.
func splitPair(s string, last bool) (string, string, bool) {
	i := strings.Index(s, "=")
	if last {
		i = strings.LastIndex(s, "=")
	}
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}
