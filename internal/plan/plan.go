// Package plan loads session plans: HCL files describing the exercise
// configurations of a session.
package plan

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"example.com/balancetrainer/internal/domain"
)

// ErrInvalidPlan is returned for plans that parse but cannot be used.
var ErrInvalidPlan = errors.New("invalid session plan")

type planFile struct {
	Exercises []*exerciseBlock `hcl:"exercise,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

type exerciseBlock struct {
	ID             string       `hcl:"id,label"`
	Name           string       `hcl:"name,attr"`
	LegsUsed       string       `hcl:"legs_used,attr"`
	Intro          int          `hcl:"intro,attr"`
	Demo           int          `hcl:"demo,attr"`
	PreparationCop int          `hcl:"preparation_cop,attr"`
	TimingCop      int          `hcl:"timing_cop,attr"`
	Release        int          `hcl:"release,attr"`
	Switch         int          `hcl:"switch,attr"`
	Sets           *int         `hcl:"sets,optional"`
	Zones          []*zoneBlock `hcl:"zone,block"`
}

type zoneBlock struct {
	Duration int       `hcl:"duration,attr"`
	GreenX   []float64 `hcl:"green_x,attr"`
	GreenY   []float64 `hcl:"green_y,attr"`
	RedX     []float64 `hcl:"red_x,attr"`
	RedY     []float64 `hcl:"red_y,attr"`
}

// LoadFile parses the plan at path.
func LoadFile(path string) ([]domain.ExerciseConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse plan %s: %w", path, diags)
	}
	return decode(file, path)
}

// Parse parses plan source; filename is used in diagnostics only.
func Parse(src []byte, filename string) ([]domain.ExerciseConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse plan %s: %w", filename, diags)
	}
	return decode(file, filename)
}

func decode(file *hcl.File, filename string) ([]domain.ExerciseConfig, error) {
	var root planFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode plan %s: %w", filename, diags)
	}
	if len(root.Exercises) == 0 {
		return nil, fmt.Errorf("%w: %s declares no exercise blocks", ErrInvalidPlan, filename)
	}

	configs := make([]domain.ExerciseConfig, 0, len(root.Exercises))
	seen := make(map[int]struct{}, len(root.Exercises))
	for _, block := range root.Exercises {
		cfg, err := block.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: exercise %q: %w", filename, block.ID, err)
		}
		if _, dup := seen[cfg.ID]; dup {
			return nil, fmt.Errorf("%w: %s: exercise %d declared twice", ErrInvalidPlan, filename, cfg.ID)
		}
		seen[cfg.ID] = struct{}{}
		configs = append(configs, cfg)
	}
	return configs, nil
}

func (b *exerciseBlock) toDomain() (domain.ExerciseConfig, error) {
	id, err := strconv.Atoi(b.ID)
	if err != nil {
		return domain.ExerciseConfig{}, fmt.Errorf("%w: label must be an integer id", ErrInvalidPlan)
	}
	sets := 1
	if b.Sets != nil {
		sets = *b.Sets
	}

	cfg := domain.ExerciseConfig{
		ID:             id,
		Name:           b.Name,
		LegsUsed:       string(domain.ParseLeg(b.LegsUsed)),
		Intro:          b.Intro,
		Demo:           b.Demo,
		PreparationCop: b.PreparationCop,
		TimingCop:      b.TimingCop,
		Release:        b.Release,
		Switch:         b.Switch,
		Sets:           sets,
	}
	for i, z := range b.Zones {
		item := domain.ZoneSequenceItem{Duration: z.Duration}
		ranges := []struct {
			name   string
			values []float64
			target *domain.Range
		}{
			{"green_x", z.GreenX, &item.GreenZoneX},
			{"green_y", z.GreenY, &item.GreenZoneY},
			{"red_x", z.RedX, &item.RedZoneX},
			{"red_y", z.RedY, &item.RedZoneY},
		}
		for _, r := range ranges {
			if len(r.values) != 2 {
				return domain.ExerciseConfig{}, fmt.Errorf("%w: zone %d %s must have two values", ErrInvalidPlan, i, r.name)
			}
			*r.target = domain.Range{Min: r.values[0], Max: r.values[1]}
		}
		cfg.ZoneSequence = append(cfg.ZoneSequence, item)
	}
	if err := cfg.Validate(); err != nil {
		return domain.ExerciseConfig{}, err
	}
	return cfg, nil
}
