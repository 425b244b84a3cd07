package static

import (
	"encoding/json"
	"log"
	"os"
)

// IsStale reports whether the module behind manifestPath must be
// regenerated: the manifest is missing or unreadable, it was written by
// another generator version, an output it records is gone, or the source
// checksum changed.
func IsStale(manifestPath, sourceChecksum string) bool {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		// File doesn't exist or can't be read
		return true
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		log.Printf("Warning: corrupt manifest %s: %v", manifestPath, err)
		return true
	}

	if manifest.GeneratorVersion != GeneratorVersion {
		log.Printf("Generator version changed (%q -> %q)", manifest.GeneratorVersion, GeneratorVersion)
		return true
	}

	for _, out := range []string{manifest.OutputPath, manifest.GTFSPath} {
		if out == "" {
			continue
		}
		if _, err := os.Stat(out); err != nil {
			log.Printf("Output %s is missing, regenerating", out)
			return true
		}
	}

	return manifest.SourceChecksum == "" || manifest.SourceChecksum != sourceChecksum
}
