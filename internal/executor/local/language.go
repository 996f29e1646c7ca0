package local

import (
	"fmt"
	"sort"
	"strings"
)

// Profile describes how one supported language is materialized and launched.
// The table below is read-only after init; it is the only state shared
// between concurrent executions.
type Profile struct {
	// Extension includes the leading dot (".py").
	Extension string
	// FileName overrides the default "snippet<Extension>" where the runtime
	// mandates a specific name (Java requires the file to match the class).
	FileName string
	// Command builds the launch argument vector from the absolute source path.
	// Compiled and transpiled languages return a single shell pipeline that
	// compiles and runs in one supervised step.
	Command func(sourcePath string) []string
}

var profiles = map[string]Profile{
	"python": {
		Extension: ".py",
		Command:   func(src string) []string { return []string{"python3", src} },
	},
	"javascript": {
		Extension: ".js",
		Command:   func(src string) []string { return []string{"node", src} },
	},
	"js": {
		Extension: ".js",
		Command:   func(src string) []string { return []string{"node", src} },
	},
	"java": {
		Extension: ".java",
		FileName:  "Solution.java",
		Command:   func(src string) []string { return []string{"java", src} },
	},
	"go": {
		Extension: ".go",
		Command:   func(src string) []string { return []string{"go", "run", src} },
	},
	"typescript": {Extension: ".ts", Command: typescriptCommand},
	"ts":         {Extension: ".ts", Command: typescriptCommand},
}

// typescriptCommand transpiles then runs in a single shell pipeline.
func typescriptCommand(src string) []string {
	compiled := strings.TrimSuffix(src, ".ts") + ".js"
	return []string{"sh", "-c", fmt.Sprintf("tsc %s && node %s", src, compiled)}
}

// SourceFileName returns the file name the snippet is written to.
func (p Profile) SourceFileName() string {
	if p.FileName != "" {
		return p.FileName
	}
	return "snippet" + p.Extension
}

// lookupProfile resolves a language identifier case-insensitively.
func lookupProfile(language string) (Profile, bool) {
	p, ok := profiles[strings.ToLower(strings.TrimSpace(language))]
	return p, ok
}

// SupportedLanguages returns the supported identifiers, sorted, including aliases.
func SupportedLanguages() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
