package core

import (
	"github.com/google/uuid"
)

const (
	// ManifestFilename is the descriptor at the root of every pack
	ManifestFilename = "manifest.json"
	// ManifestFormatVersion is the only manifest format texwiz writes
	ManifestFormatVersion = 2
	// ModuleTypeResources is the module type of a resource pack
	ModuleTypeResources = "resources"
)

// Manifest is the manifest.json file of a pack
type Manifest struct {
	FormatVersion int              `json:"format_version"`
	Header        ManifestHeader   `json:"header"`
	Modules       []ManifestModule `json:"modules"`
}

// ManifestHeader describes the pack itself. Its UUID is distinct from the pack ID.
type ManifestHeader struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	UUID             string `json:"uuid"`
	Version          SemVer `json:"version"`
	MinEngineVersion SemVer `json:"min_engine_version"`
}

// ManifestModule is one module entry; resource packs have a single "resources" module
type ManifestModule struct {
	Type    string `json:"type"`
	UUID    string `json:"uuid"`
	Version SemVer `json:"version"`
}

// ManifestUpdate holds the manifest fields that may change after creation.
// A nil MinEngineVersion leaves the current value in place.
type ManifestUpdate struct {
	Name             string
	Description      string
	Version          SemVer
	MinEngineVersion *SemVer
}

// Validate checks the update the same way CreatePack checks its input
func (u ManifestUpdate) Validate() error {
	if err := validateName(u.Name); err != nil {
		return err
	}
	if err := u.Version.Validate(); err != nil {
		return err
	}
	if u.MinEngineVersion != nil {
		return u.MinEngineVersion.Validate()
	}
	return nil
}

// NewManifest builds the manifest of a fresh pack, generating the header and module UUIDs
func NewManifest(name, description string) Manifest {
	return Manifest{
		FormatVersion: ManifestFormatVersion,
		Header: ManifestHeader{
			Name:             name,
			Description:      description,
			UUID:             uuid.NewString(),
			Version:          DefaultPackVersion,
			MinEngineVersion: DefaultMinEngineVersion,
		},
		Modules: []ManifestModule{{
			Type:    ModuleTypeResources,
			UUID:    uuid.NewString(),
			Version: DefaultPackVersion,
		}},
	}
}

// LoadManifest reads a manifest file, filling in defaults for fields older files omit
func LoadManifest(path string) (Manifest, error) {
	var m Manifest
	if err := readJSONFile(path, &m); err != nil {
		return Manifest{}, err
	}
	if m.FormatVersion == 0 {
		m.FormatVersion = ManifestFormatVersion
	}
	for i := range m.Modules {
		if len(m.Modules[i].Type) == 0 {
			m.Modules[i].Type = ModuleTypeResources
		}
	}
	return m, nil
}

// Apply overwrites the mutable header fields. UUIDs and modules are never touched.
func (m *Manifest) Apply(u ManifestUpdate) {
	m.Header.Name = u.Name
	m.Header.Description = u.Description
	m.Header.Version = u.Version
	if u.MinEngineVersion != nil {
		m.Header.MinEngineVersion = *u.MinEngineVersion
	}
}

// Write saves the manifest atomically
func (m Manifest) Write(path string) error {
	if m.Modules == nil {
		m.Modules = []ManifestModule{}
	}
	return writeJSONFile(path, m)
}
