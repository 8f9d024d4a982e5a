package manifest

// Workfile represents the structure of the otto.work.yaml workspace manifest.
type Workfile struct {
	Version string `yaml:"version"`
}

// Packfile represents the structure of the otto.yaml package manifest.
type Packfile struct {
	Name      string   `yaml:"name"`
	Target    string   `yaml:"target"`
	DependsOn []string `yaml:"dependsOn"`
	NoServer  bool     `yaml:"noServer"`
}
