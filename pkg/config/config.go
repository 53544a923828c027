// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/rename"
	"github.com/walteh/patchrc/pkg/rewrite"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Parser is the interface for pass config parsers
type Parser interface {
	// 📝 Parse parses the pass config from bytes
	Parse(ctx context.Context, data []byte) (*Pass, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 Rule is one literal or regex substitution in a pass
type Rule struct {
	Name      string `json:"name,omitempty" yaml:"name,omitempty" hcl:"name,label"`
	Pattern   string `json:"pattern" yaml:"pattern" hcl:"pattern"`
	Replace   string `json:"replace" yaml:"replace" hcl:"replace,optional"`
	Regex     bool   `json:"regex,omitempty" yaml:"regex,omitempty" hcl:"regex,optional"`
	MultiLine bool   `json:"multiline,omitempty" yaml:"multiline,omitempty" hcl:"multiline,optional"`
}

// 🏷️ ExtraArg is an ordered discriminator argument on a rename entry
type ExtraArg struct {
	Name  string `json:"name" yaml:"name" hcl:"name,label"`
	Value string `json:"value" yaml:"value" hcl:"value"`
}

// 🔀 Rename is one grouped tool-rename table entry
type Rename struct {
	OldName     string     `json:"old_name" yaml:"old_name" hcl:"old_name,label"`
	OldRegistry string     `json:"old_registry" yaml:"old_registry" hcl:"old_registry"`
	NewRegistry string     `json:"new_registry,omitempty" yaml:"new_registry,omitempty" hcl:"new_registry,optional"`
	NewName     string     `json:"new_name" yaml:"new_name" hcl:"new_name"`
	Action      string     `json:"action,omitempty" yaml:"action,omitempty" hcl:"action,optional"`
	Extra       []ExtraArg `json:"extra,omitempty" yaml:"extra,omitempty" hcl:"extra,block"`
}

// 📚 Pass represents one rename pass: the files it rewrites, the markers
// those files must contain, the substitutions to apply, and the legacy
// names that must be gone afterwards
type Pass struct {
	Name      string   `json:"name" yaml:"name" hcl:"name"`
	Targets   []string `json:"targets" yaml:"targets" hcl:"targets"`
	Markers   []string `json:"markers,omitempty" yaml:"markers,omitempty" hcl:"markers,optional"`
	Forbidden []string `json:"forbidden,omitempty" yaml:"forbidden,omitempty" hcl:"forbidden,optional"`
	Renames   []Rename `json:"renames,omitempty" yaml:"renames,omitempty" hcl:"rename,block"`
	Rules     []Rule   `json:"rules,omitempty" yaml:"rules,omitempty" hcl:"rule,block"`
}

// 🎯 Load loads a pass configuration from a file
func Load(ctx context.Context, path string) (*Pass, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading pass configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	pass, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	return pass, nil
}

// 🔍 Validate checks if the pass configuration is valid
func (p *Pass) Validate() error {
	if p.Name == "" {
		return errors.Errorf("name is required")
	}
	if len(p.Targets) == 0 {
		return errors.Errorf("at least one target is required")
	}
	for i, r := range p.Renames {
		if err := r.toToolRename().Validate(); err != nil {
			return errors.Errorf("rename %d: %w", i, err)
		}
	}
	for i, r := range p.Rules {
		if r.Pattern == "" {
			return errors.Errorf("rule %d: pattern is required", i)
		}
	}
	return nil
}

// 📝 String returns a string representation of the pass
func (p *Pass) String() string {
	return fmt.Sprintf("%s (%d renames, %d rules) -> %s",
		p.Name, len(p.Renames), len(p.Rules), strings.Join(p.Targets, ", "))
}

// 🛠️ CompiledRules expands the pass into the ordered rewrite rule list:
// the rename table first, then the literal/regex rules
func (p *Pass) CompiledRules() []rewrite.Rule {
	table := make([]rename.ToolRename, 0, len(p.Renames))
	for _, r := range p.Renames {
		table = append(table, r.toToolRename())
	}

	rules := rename.TableRules(table)
	for _, r := range p.Rules {
		rules = append(rules, rewrite.Rule{
			Name:      r.Name,
			Pattern:   r.Pattern,
			Replace:   r.Replace,
			Regex:     r.Regex,
			MultiLine: r.MultiLine,
		})
	}
	return rules
}

func (r Rename) toToolRename() rename.ToolRename {
	extra := make([]rename.Arg, 0, len(r.Extra))
	for _, a := range r.Extra {
		extra = append(extra, rename.Arg{Name: a.Name, Value: a.Value})
	}
	return rename.ToolRename{
		OldRegistry: r.OldRegistry,
		OldName:     r.OldName,
		NewRegistry: r.NewRegistry,
		NewName:     r.NewName,
		Action:      r.Action,
		Extra:       extra,
	}
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Pass, error) {
	var pass Pass
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&pass); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	if err := pass.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return &pass, nil
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

func init() {
	Register(&HCLParser{})
}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Pass, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var pass Pass
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &pass)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	if err := pass.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return &pass, nil
}
