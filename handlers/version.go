package handlers

import (
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
)

// Version may be set with -ldflags "-X .../handlers.Version=1.2.3". When
// empty it is read from version.txt.
var Version string

var versionOnce sync.Once

type VersionHandler struct{}

type VersionResponse struct {
	Version   string `json:"version"`
	GoVersion string `json:"goVersion"`
}

func NewVersionHandler() *VersionHandler {
	return &VersionHandler{}
}

// BuildVersion returns the linked version, else the first version.txt found,
// else "dev".
func BuildVersion() string {
	versionOnce.Do(func() {
		if Version != "" {
			return
		}
		for _, path := range []string{"version.txt", "/app/version.txt"} {
			if data, err := os.ReadFile(path); err == nil {
				if v := strings.TrimSpace(string(data)); v != "" {
					Version = v
					return
				}
			}
		}
		Version = "dev"
	})
	return Version
}

func (h *VersionHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Version:   BuildVersion(),
		GoVersion: runtime.Version(),
	})
}
