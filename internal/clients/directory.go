package clients

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Directory is a read-only set of profiles loaded from a YAML file, for
// deployments without Postgres.
//
//	clients:
//	  - phone_number_id: "1234567890"
//	    name: Cabinet Exemple
//	    access_token: EAAG...
//	    instructions: |
//	      Tu es l'assistante du cabinet...
//	    active: true
type Directory struct {
	byEndpoint map[string]*Profile
}

type directoryFile struct {
	Clients []Profile `yaml:"clients"`
}

// LoadDirectory reads the YAML file at path.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading client directory: %w", err)
	}
	return ParseDirectory(data)
}

// ParseDirectory builds a directory from YAML. Later active entries for the
// same number replace earlier ones.
func ParseDirectory(data []byte) (*Directory, error) {
	profiles, err := ParseProfiles(data)
	if err != nil {
		return nil, err
	}

	d := &Directory{byEndpoint: make(map[string]*Profile, len(profiles))}
	for i := range profiles {
		if !profiles[i].Active {
			continue
		}
		d.byEndpoint[profiles[i].EndpointID] = &profiles[i]
	}
	return d, nil
}

// ParseProfiles decodes every entry of a directory file, inactive ones
// included.
func ParseProfiles(data []byte) ([]Profile, error) {
	var f directoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing client directory: %w", err)
	}
	for i := range f.Clients {
		f.Clients[i].EndpointID = strings.TrimSpace(f.Clients[i].EndpointID)
		if f.Clients[i].EndpointID == "" {
			return nil, fmt.Errorf("client directory entry %d: phone_number_id is required", i)
		}
	}
	return f.Clients, nil
}

func (d *Directory) FindActive(_ context.Context, endpointID string) (*Profile, error) {
	p, ok := d.byEndpoint[endpointID]
	if !ok {
		return nil, ErrNoProfile
	}
	cp := *p
	return &cp, nil
}

func (d *Directory) Len() int {
	return len(d.byEndpoint)
}

// LoadInstructions reads the shared default instruction text. The file may be
// plain text or YAML with a top-level "instructions" key. An empty path
// yields an empty string.
func LoadInstructions(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading default instructions: %w", err)
	}

	var doc struct {
		Instructions string `yaml:"instructions"`
	}
	if err := yaml.Unmarshal(data, &doc); err == nil && doc.Instructions != "" {
		return strings.TrimSpace(doc.Instructions), nil
	}
	return strings.TrimSpace(string(data)), nil
}
