// Package funding reads a FUNDING.yml descriptor and resolves each entry to a link.
package funding

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
)

var (
	// ErrFundingMissing signals that the funding descriptor does not exist.
	ErrFundingMissing = errors.ComponentError("funding descriptor not found").
				WithHelp("create .github/FUNDING.yml or set components.funding.yml_path").
				Build()

	// ErrPreferredNotFound signals a preferred platform absent from the descriptor.
	ErrPreferredNotFound = errors.ComponentError("preferred funding platform not listed in funding descriptor").Build()
)

// Entry is one funding link.
type Entry struct {
	Platform string
	Name     string
	Handle   string
	URL      string
}

// Funding is the parsed funding descriptor.
type Funding struct {
	Entries   []Entry
	Preferred *Entry
}

var platformURLs = map[string]string{
	"github":           "https://github.com/sponsors/%s",
	"patreon":          "https://www.patreon.com/%s",
	"open_collective":  "https://opencollective.com/%s",
	"ko_fi":            "https://ko-fi.com/%s",
	"tidelift":         "https://tidelift.com/funding/github/%s",
	"community_bridge": "https://funding.communitybridge.org/projects/%s",
	"liberapay":        "https://liberapay.com/%s",
	"issuehunt":        "https://issuehunt.io/r/%s",
	"lfx_crowdfunding": "https://crowdfunding.lfx.linuxfoundation.org/projects/%s",
	"polar":            "https://polar.sh/%s",
	"buy_me_a_coffee":  "https://buymeacoffee.com/%s",
	"thanks_dev":       "https://thanks.dev/%s",
	"custom":           "%s",
}

var displayOverrides = map[string]string{
	"github":           "GitHub Sponsors",
	"ko_fi":            "Ko-fi",
	"issuehunt":        "IssueHunt",
	"lfx_crowdfunding": "LFX Crowdfunding",
	"custom":           "Website",
}

// DisplayName returns the human-readable name of a platform key.
func DisplayName(platform string) string {
	if name, ok := displayOverrides[platform]; ok {
		return name
	}
	return cases.Title(language.English).String(strings.ReplaceAll(platform, "_", " "))
}

// Load reads and parses the descriptor at path. A missing file is ErrFundingMissing.
func Load(path string) (*Funding, error) {
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, ErrFundingMissing.WithContext("path", path)
	}
	if err != nil {
		return nil, errors.StructuralIOError("failed to read funding descriptor").
			WithCause(err).WithContext("path", path).Build()
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.ComponentError("failed to parse funding descriptor").
			WithCause(err).WithContext("path", path).Build()
	}
	return f, nil
}

// Parse decodes descriptor content, preserving entry order. Values may be a single
// handle or a list; empty values are skipped, as are unknown platforms.
func Parse(data []byte) (*Funding, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	f := &Funding{}
	if len(doc.Content) == 0 {
		return f, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of platform to handle, got %s", kindName(root.Kind))
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		platform := strings.ToLower(root.Content[i].Value)
		pattern, ok := platformURLs[platform]
		if !ok {
			continue
		}
		for _, handle := range handles(root.Content[i+1]) {
			f.Entries = append(f.Entries, Entry{
				Platform: platform,
				Name:     DisplayName(platform),
				Handle:   handle,
				URL:      fmt.Sprintf(pattern, handle),
			})
		}
	}
	return f, nil
}

func handles(n *yaml.Node) []string {
	switch n.Kind {
	case yaml.ScalarNode:
		if v := strings.TrimSpace(n.Value); v != "" && n.Tag != "!!null" {
			return []string{v}
		}
	case yaml.SequenceNode:
		var out []string
		for _, c := range n.Content {
			out = append(out, handles(c)...)
		}
		return out
	}
	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "a list"
	case yaml.ScalarNode:
		return "a scalar"
	default:
		return "an unsupported document"
	}
}

// Prefer marks the first entry of platform as preferred and moves it to the front.
// A platform not present is ErrPreferredNotFound; the order is left untouched.
func (f *Funding) Prefer(platform string) error {
	if platform == "" {
		return nil
	}
	platform = strings.ToLower(platform)
	for i, e := range f.Entries {
		if e.Platform != platform {
			continue
		}
		preferred := e
		f.Preferred = &preferred
		f.Entries = append([]Entry{e}, append(f.Entries[:i:i], f.Entries[i+1:]...)...)
		return nil
	}
	return ErrPreferredNotFound.WithContext("platform", platform)
}
