package urlpolicy

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadFile reads a policy override from a YAML, JSON or TOML file.
// Keys missing from the file keep their DefaultPolicy values:
//
//	scheme: https
//	primary_hosts: [github.com]
//	dependency_hosts: [github.com, maven.scijava.org, repo1.maven.org]
func LoadFile(path string) (Policy, error) {
	defaults := DefaultPolicy()

	v := viper.New()
	v.SetDefault("scheme", defaults.Scheme)
	v.SetDefault("primary_hosts", defaults.PrimaryHosts)
	v.SetDefault("dependency_hosts", defaults.DependencyHosts)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Policy{}, fmt.Errorf("read url policy %s: %w", path, err)
	}

	var p Policy
	if err := v.Unmarshal(&p); err != nil {
		return Policy{}, fmt.Errorf("decode url policy %s: %w", path, err)
	}
	if err := p.Check(); err != nil {
		return Policy{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
