package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Index    int        `json:"index"`
	Time     float32    `json:"time"`
	Position [3]float32 `json:"camera_position"`
	Image    string     `json:"image"`
}

// WriteManifest writes the entries of successfully encoded frames to path.
func WriteManifest(path string, frames []Frame, results []Result) error {
	entries := make([]ManifestEntry, 0, len(frames))
	for i, fr := range frames {
		if i < len(results) && !results[i].Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Index:    fr.Index,
			Time:     fr.Time,
			Position: fr.Position,
			Image:    FileName(fr.Index),
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
