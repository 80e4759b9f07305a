package installer

import (
	"crypto/sha512"
	"encoding/base64"
	"sort"
)

const lockfileVersion = 3

// lockfile is the package-lock.json document (lockfileVersion 3)
type lockfile struct {
	Name            string                 `json:"name"`
	LockfileVersion int                    `json:"lockfileVersion"`
	Requires        bool                   `json:"requires"`
	Packages        map[string]lockPackage `json:"packages"`
}

type lockPackage struct {
	Name         string            `json:"name,omitempty"`
	Version      string            `json:"version,omitempty"`
	Integrity    string            `json:"integrity,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// installationManifest is .nx/installation/package.json
type installationManifest struct {
	Name         string            `json:"name"`
	Private      bool              `json:"private"`
	Dependencies map[string]string `json:"dependencies"`
}

const installationName = "nx-installation"

func newLockfile(desired map[string]string, installed map[string]lockPackage) *lockfile {
	lock := &lockfile{
		Name:            installationName,
		LockfileVersion: lockfileVersion,
		Requires:        true,
		Packages: map[string]lockPackage{
			"": {Name: installationName, Dependencies: desired},
		},
	}
	names := make([]string, 0, len(installed))
	for name := range installed {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lock.Packages["node_modules/"+name] = installed[name]
	}
	return lock
}

// integrity returns an npm style sha512 subresource integrity string
func integrity(data []byte) string {
	sum := sha512.Sum512(data)
	return "sha512-" + base64.StdEncoding.EncodeToString(sum[:])
}
