package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/cosync/internal/syncequiv"
)

// Scenario defines a conformance scenario: one equivalence class and the
// expected outcome of checking it.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name" json:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description" json:"description"`

	// Domain selects the reference timeline: "ledger" or "length".
	Domain string `yaml:"domain" json:"domain"`

	// Capability is the declared class capability:
	// "sync", "cosync", "bisync" or "none".
	Capability string `yaml:"capability" json:"capability"`

	// Core is the index of the core in Items.
	// If nil, the first item produced is the core.
	Core *int `yaml:"core,omitempty" json:"core,omitempty"`

	// Items are the members of the class, in production order.
	Items []ItemSpec `yaml:"items" json:"items"`

	// Expect is the expected outcome of the core-equivalence check.
	Expect Expect `yaml:"expect" json:"expect"`

	// Members are individual membership checks against the core.
	Members []MemberCheck `yaml:"members,omitempty" json:"members,omitempty"`

	// Laws also evaluates the implementer laws over Items.
	Laws bool `yaml:"laws,omitempty" json:"laws,omitempty"`
}

// ItemSpec describes one item of either domain.
// Ledger items use Seq, Balance and Rate; length items use Unit and Value.
// A ledger item without Seq is stamped by the scenario's clock, after any
// explicit Seq that precedes it.
type ItemSpec struct {
	Seq     *int64 `yaml:"seq,omitempty" json:"seq,omitempty"`
	Balance int64  `yaml:"balance,omitempty" json:"balance,omitempty"`
	Rate    int64  `yaml:"rate,omitempty" json:"rate,omitempty"`
	Unit    string `yaml:"unit,omitempty" json:"unit,omitempty"`
	Value   int64  `yaml:"value,omitempty" json:"value,omitempty"`
}

// Expect specifies the expected check outcome.
type Expect struct {
	// Check is the expected result of CoreEquiv.Check.
	Check bool `yaml:"check" json:"check"`

	// FailingIndex is the expected index of the first failing item.
	// Only validated when set.
	FailingIndex *int `yaml:"failing_index,omitempty" json:"failing_index,omitempty"`

	// Code is the expected syncequiv.CheckErrorCode. Only validated when set.
	Code string `yaml:"code,omitempty" json:"code,omitempty"`
}

// MemberCheck is an expected result of CoreEquiv.Member.
type MemberCheck struct {
	Item   ItemSpec              `yaml:"item" json:"item"`
	Expect syncequiv.Equivalence `yaml:"expect" json:"expect"`
}

// Domain names.
const (
	DomainLedger = "ledger"
	DomainLength = "length"
)

// Capability names.
const (
	CapabilitySync   = "sync"
	CapabilityCosync = "cosync"
	CapabilityBisync = "bisync"
	CapabilityNone   = "none"
)

var (
	validDomains      = []string{DomainLedger, DomainLength}
	validCapabilities = []string{CapabilitySync, CapabilityCosync, CapabilityBisync, CapabilityNone}
	validCodes        = []syncequiv.CheckErrorCode{
		syncequiv.ErrCodeNoCapability,
		syncequiv.ErrCodeUnsynchronizable,
		syncequiv.ErrCodeMismatch,
	}
)

// ScenarioExtensions lists the file extensions LoadScenario accepts.
var ScenarioExtensions = []string{".yaml", ".yml", ".cue"}

// LoadScenario reads and parses a scenario file.
// The format is chosen by extension. Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario *Scenario
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		scenario, err = ParseYAML(data)
	case ".cue":
		scenario, err = ParseCUE(path, data)
	default:
		return nil, fmt.Errorf("unsupported scenario extension %q: must be one of %v", ext, ScenarioExtensions)
	}
	if err != nil {
		return nil, err
	}

	return scenario, nil
}

// ParseYAML parses and validates a YAML scenario.
func ParseYAML(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// ParseCUE evaluates a CUE scenario and validates it.
// The CUE value must be concrete; it is exported to JSON and decoded into
// the same Scenario as YAML files.
func ParseCUE(filename string, data []byte) (*Scenario, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile CUE: %w", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("CUE scenario is not concrete: %w", err)
	}

	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to export CUE: %w", err)
	}

	var scenario Scenario
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to decode CUE scenario: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns scenario files under dir, sorted by path.
func FindScenarios(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if slices.Contains(ScenarioExtensions, strings.ToLower(filepath.Ext(path))) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if !slices.Contains(validDomains, s.Domain) {
		return fmt.Errorf("domain %q must be one of %v", s.Domain, validDomains)
	}

	if !slices.Contains(validCapabilities, s.Capability) {
		return fmt.Errorf("capability %q must be one of %v", s.Capability, validCapabilities)
	}

	if len(s.Items) == 0 {
		return fmt.Errorf("items list is required and must be non-empty")
	}

	if s.Core != nil && (*s.Core < 0 || *s.Core >= len(s.Items)) {
		return fmt.Errorf("core index %d out of range [0, %d)", *s.Core, len(s.Items))
	}

	if s.Expect.Code != "" && !slices.Contains(validCodes, syncequiv.CheckErrorCode(s.Expect.Code)) {
		return fmt.Errorf("expect.code %q must be one of %v", s.Expect.Code, validCodes)
	}

	if s.Expect.Check && (s.Expect.Code != "" || s.Expect.FailingIndex != nil) {
		return fmt.Errorf("expect.code and expect.failing_index only apply when expect.check is false")
	}

	return nil
}
