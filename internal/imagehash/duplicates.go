package imagehash

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go-firestore-hampter/internal/utils"

	"github.com/rs/zerolog/log"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
}

type File struct {
	Name string
	Size int64
}

// ExactGroup is a set of files with identical content.
type ExactGroup struct {
	ContentHash string
	Files       []File
}

type SimilarPair struct {
	First    string
	Second   string
	Distance int
}

func (p SimilarPair) Similarity() float64 {
	return Similarity(p.Distance)
}

type Report struct {
	Scanned int
	Exact   []ExactGroup
	Similar []SimilarPair
}

type scanned struct {
	file      File
	hash      Hash
	decodable bool
}

// FindDuplicates scans the images directly inside dir. Files that cannot be
// decoded still take part in the exact comparison.
func FindDuplicates(dir string) (Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Report{}, fmt.Errorf("find duplicates: %w, dir: %s", err, dir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	groups := orderedmap.New[string, *ExactGroup]()
	files := make([]scanned, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return Report{}, fmt.Errorf("find duplicates: %w, file: %s", err, name)
		}

		f := File{Name: name, Size: int64(len(data))}
		contentHash := utils.Hash(data)
		group, ok := groups.Get(contentHash)
		if !ok {
			group = &ExactGroup{ContentHash: contentHash}
			groups.Set(contentHash, group)
		}
		group.Files = append(group.Files, f)

		s := scanned{file: f}
		if h, err := Decode(bytes.NewReader(data)); err != nil {
			log.Warn().Err(err).Msgf("skipping perceptual hash of %s", name)
		} else {
			s.hash, s.decodable = h, true
		}
		files = append(files, s)
	}

	report := Report{Scanned: len(files)}
	for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
		if len(pair.Value.Files) > 1 {
			report.Exact = append(report.Exact, *pair.Value)
		}
	}

	for i := 0; i < len(files); i++ {
		for j := i + 1; j < len(files); j++ {
			if !files[i].decodable || !files[j].decodable {
				continue
			}
			if d := Distance(files[i].hash, files[j].hash); d <= SimilarDistance {
				report.Similar = append(report.Similar, SimilarPair{
					First:    files[i].file.Name,
					Second:   files[j].file.Name,
					Distance: d,
				})
			}
		}
	}

	return report, nil
}
