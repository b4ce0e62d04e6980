package discovery

import "time"

// Project represents a directory that meets an entry of the scan policy
type Project struct {
	// Basename of the directory
	Name string `json:"name" yaml:"name" toml:"name"`
	// Path as reached by the walk
	Path string `json:"path" yaml:"path" toml:"path"`
	// Name of the policy entry that matched
	MatchedBy string `json:"matched_by" yaml:"matched_by" toml:"matched_by"`
	Reason    string `json:"reason" yaml:"reason" toml:"reason"`
}

// Result represents the result of a discovery scan
type Result struct {
	Projects []Project `json:"projects" yaml:"projects" toml:"projects"`
	// Number of directories scanned
	Scanned int `json:"scanned" yaml:"scanned" toml:"scanned"`
	// Time taken to scan
	Duration time.Duration `json:"duration" yaml:"duration" toml:"duration"`
}
