package trajectory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TrajectoryFileName is the expected file name when loading from a directory.
const TrajectoryFileName = "trajectory.json"

// Load reads a trajectory from disk. Path may point at a trajectory JSON file
// directly or at a directory containing trajectory.json.
func Load(path string) (*Trajectory, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat trajectory path: %w", err)
	}

	file := path
	if info.IsDir() {
		file = filepath.Join(path, TrajectoryFileName)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read trajectory file: %w", err)
	}

	var t Trajectory
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse trajectory file %s: %w", file, err)
	}

	if t.Name == "" {
		t.Name = filepath.Base(path)
	}
	return &t, nil
}
