package transport

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const discoveryFileName = "jgd-discovery.json"

type discoveryDoc struct {
	SocketPath string `json:"socketPath"`
}

// discoveryDirs returns the search order for the discovery file: the
// usual temp-directory environment variables, falling back to /tmp.
func discoveryDirs() []string {
	var dirs []string
	for _, env := range []string{"TMPDIR", "TMP", "TEMP", "USERPROFILE"} {
		if v := os.Getenv(env); v != "" {
			dirs = append(dirs, v)
		}
	}
	dirs = append(dirs, "/tmp")
	return dirs
}

// findDiscoveryFile returns the socket path from the first readable
// discovery file, in search order. Only the first readable file is
// consulted, even if its contents turn out to be unusable.
//
// A race between two recorder instances starting at the same time,
// each reading the file while the frontend is mid-write, is not
// resolved here.
func findDiscoveryFile() (string, error) {
	for _, dir := range discoveryDirs() {
		path := filepath.Join(dir, discoveryFileName)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var doc discoveryDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return "", errors.New("transport: discovery file " + path + " is not valid JSON: " + err.Error())
		}
		if doc.SocketPath == "" {
			return "", errors.New("transport: discovery file " + path + " has no socketPath")
		}
		return doc.SocketPath, nil
	}
	return "", errors.New("transport: no usable discovery file found")
}

// Resolve determines the address to connect to, in priority order:
// an explicit address, JGD_SOCKET, a host-supplied option, then the
// discovery file. If explicit is non-empty it is returned unconditionally
// and the discovery file is never consulted, even if connecting to it
// later fails — that retry decision belongs to the caller, not here.
func Resolve(explicit, hostOption string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if v := os.Getenv("JGD_SOCKET"); v != "" {
		return v, nil
	}
	if hostOption != "" {
		return hostOption, nil
	}
	return findDiscoveryFile()
}
