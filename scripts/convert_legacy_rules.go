// +build ignore

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// legacyRule is one rule in the old JSON rules format. Keyword rules in
// that format matched on word boundaries, so they convert with
// whole_word set.
type legacyRule struct {
	Name       string   `json:"name"`
	TargetPath string   `json:"target_path"`
	Priority   int      `json:"priority"`
	Regex      string   `json:"regex"`
	Keywords   []string `json:"keywords"`
}

type legacyFile struct {
	Rules []legacyRule `json:"rules"`
}

type rule struct {
	Name      string   `yaml:"name"`
	Priority  int      `yaml:"priority"`
	Target    string   `yaml:"target"`
	Keywords  []string `yaml:"keywords,omitempty"`
	WholeWord bool     `yaml:"whole_word,omitempty"`
	Pattern   string   `yaml:"pattern,omitempty"`
}

type rulesFile struct {
	Rules []rule `yaml:"rules"`
}

func main() {
	in := flag.String("in", "rules.json", "Legacy JSON rules file to convert")
	out := flag.String("out", "rules.yaml", "Converted rules file to write")
	dryRun := flag.Bool("dry-run", false, "Preview conversion without writing")
	flag.Parse()

	data, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", *in, err)
		os.Exit(1)
	}

	var legacy legacyFile
	if err := json.Unmarshal(data, &legacy); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", *in, err)
		os.Exit(1)
	}

	if len(legacy.Rules) == 0 {
		fmt.Println("No rules found to convert")
		return
	}

	converted := convert(legacy.Rules)

	fmt.Printf("Found %d rule(s), converting %d:\n\n", len(legacy.Rules), len(converted.Rules))
	for _, r := range converted.Rules {
		matcher := fmt.Sprintf("pattern /%s/", r.Pattern)
		if len(r.Keywords) > 0 {
			matcher = fmt.Sprintf("%d keyword(s), whole word", len(r.Keywords))
		}
		fmt.Printf("  %s: %s -> %s [priority %d]\n", r.Name, matcher, r.Target, r.Priority)
	}
	fmt.Println()

	if *dryRun {
		fmt.Println("=== DRY RUN - No changes made ===")
		return
	}

	encoded, err := yaml.Marshal(converted)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding rules: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, encoded, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *out, err)
		os.Exit(1)
	}

	fmt.Printf("✓ Wrote %d rule(s) to %s\n", len(converted.Rules), *out)
	fmt.Println()
	fmt.Println("Validate before installing:")
	fmt.Printf("  curator rules lint %s\n", *out)
	fmt.Printf("  curator rules load %s\n", *out)
}

func convert(legacy []legacyRule) rulesFile {
	var out rulesFile
	for _, lr := range legacy {
		if lr.Regex == "" && len(lr.Keywords) == 0 {
			fmt.Printf("  skipping %q: no matcher\n", lr.Name)
			continue
		}

		name := lr.Name
		if name == "" {
			name = "Custom Rule"
		}

		r := rule{
			Name:     name,
			Priority: lr.Priority,
			Target:   lr.TargetPath,
		}
		if lr.Regex != "" {
			r.Pattern = lr.Regex
		} else {
			r.Keywords = lr.Keywords
			r.WholeWord = true
		}
		out.Rules = append(out.Rules, r)
	}
	return out
}
