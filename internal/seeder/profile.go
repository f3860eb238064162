package seeder

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile controls the shape of generated telemetry.
type Profile struct {
	Source       string  `yaml:"source"`
	Agents       int     `yaml:"agents"`
	Tasks        int     `yaml:"tasks"`
	ErrorRatio   float64 `yaml:"error_ratio"`
	TrafficRatio float64 `yaml:"traffic_ratio"`
	TaskRatio    float64 `yaml:"task_ratio"`
	ToolRatio    float64 `yaml:"tool_ratio"`
	AgentRatio   float64 `yaml:"agent_ratio"`
}

func (p *Profile) defaults() {
	if p.Source == "" {
		p.Source = "seeder"
	}
	if p.Agents <= 0 {
		p.Agents = 3
	}
	if p.Tasks <= 0 {
		p.Tasks = 5
	}
	if p.ErrorRatio <= 0 {
		p.ErrorRatio = 0.1
	}
	if p.TrafficRatio+p.TaskRatio+p.ToolRatio+p.AgentRatio <= 0 {
		p.TrafficRatio = 0.35
		p.TaskRatio = 0.25
		p.ToolRatio = 0.20
		p.AgentRatio = 0.15
	}
}

// LoadProfile reads a YAML profile file. A missing path returns the
// default profile.
func LoadProfile(path string) (Profile, error) {
	var p Profile
	if path == "" {
		p.defaults()
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse profile: %w", err)
	}
	p.defaults()
	return p, nil
}
