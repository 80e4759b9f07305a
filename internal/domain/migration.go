package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultJournalFile is where the resolve phase writes selected migrations
const DefaultJournalFile = "migrations.json"

// MigrationKind tells how a migration module is executed
type MigrationKind string

const (
	// MigrationImplementation runs directly against the devkit tree
	MigrationImplementation MigrationKind = "implementation"
	// MigrationFactory runs against the schematic-compatible host
	MigrationFactory MigrationKind = "factory"
)

// MigrationEntry is one generator in a migrations manifest or in fetched
// migration metadata.
type MigrationEntry struct {
	Name           string `json:"-"`
	Version        string `json:"version"`
	Description    string `json:"description,omitempty"`
	CLI            string `json:"cli,omitempty"`
	Factory        string `json:"factory,omitempty"`
	Implementation string `json:"implementation,omitempty"`
}

// Module returns the module reference and how it must be executed
func (e MigrationEntry) Module() (string, MigrationKind) {
	if e.Implementation != "" {
		return e.Implementation, MigrationImplementation
	}
	return e.Factory, MigrationFactory
}

// MigrationEntries is a JSON object of name -> entry that keeps key order
type MigrationEntries []MigrationEntry

func (m *MigrationEntries) UnmarshalJSON(data []byte) error {
	var entries MigrationEntries
	err := decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var e MigrationEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return fmt.Errorf("invalid migration %q: %w", key, err)
		}
		e.Name = key
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return err
	}
	*m = entries
	return nil
}

func (m MigrationEntries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Find looks up an entry by name
func (m MigrationEntries) Find(name string) (MigrationEntry, bool) {
	for _, e := range m {
		if e.Name == name {
			return e, true
		}
	}
	return MigrationEntry{}, false
}

// MigrationsManifest is the file a package points to from "nx-migrations"
type MigrationsManifest struct {
	Generators         MigrationEntries             `json:"generators,omitempty"`
	Schematics         MigrationEntries             `json:"schematics,omitempty"`
	PackageJSONUpdates map[string]PackageJSONUpdate `json:"packageJsonUpdates,omitempty"`
}

// Find looks an entry up in generators first, then schematics
func (m *MigrationsManifest) Find(name string) (MigrationEntry, bool) {
	if e, ok := m.Generators.Find(name); ok {
		return e, true
	}
	return m.Schematics.Find(name)
}

// All returns generators followed by schematics
func (m *MigrationsManifest) All() MigrationEntries {
	all := make(MigrationEntries, 0, len(m.Generators)+len(m.Schematics))
	all = append(all, m.Generators...)
	return append(all, m.Schematics...)
}

// PackageUpdate is a dependency bump requested by a packageJsonUpdates rule
type PackageUpdate struct {
	Version                string `json:"version"`
	AlwaysAddToPackageJSON bool   `json:"alwaysAddToPackageJson,omitempty"`
	IfPackageInstalled     string `json:"ifPackageInstalled,omitempty"`
}

// PackageJSONUpdate groups dependency bumps that apply from a given version
type PackageJSONUpdate struct {
	Version  string                   `json:"version"`
	Packages map[string]PackageUpdate `json:"packages"`
}

// MigrationMetadata is what a fetcher returns for a package at a version
type MigrationMetadata struct {
	Version            string                       `json:"version"`
	Generators         MigrationEntries             `json:"generators,omitempty"`
	PackageJSONUpdates map[string]PackageJSONUpdate `json:"packageJsonUpdates,omitempty"`
	PackageGroup       []string                     `json:"packageGroup,omitempty"`
}

// MigrationRecord is one line of the migrations journal
type MigrationRecord struct {
	Package     string `json:"package"`
	Version     string `json:"version"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CLI         string `json:"cli,omitempty"`
}

// MigrationsJournal is the migrations.json document
type MigrationsJournal struct {
	Migrations []MigrationRecord `json:"migrations"`
}

// decodeOrderedObject walks a JSON object calling fn for every key in document order
func decodeOrderedObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
