package sticker

import (
	_ "embed"
	"fmt"
	"math/rand"
	"sync"

	"go-firestore-hampter/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYaml []byte

type Catalog struct {
	Stickers []model.Sticker `yaml:"stickers"`
}

var defaultCatalog = sync.OnceValue(func() Catalog {
	c, err := Parse(catalogYaml)
	if err != nil {
		panic(err)
	}
	return c
})

// Default returns the catalog bundled with the binary.
func Default() Catalog {
	return defaultCatalog()
}

func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse sticker catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(c.Stickers))
	for _, s := range c.Stickers {
		if s.Id == "" || s.Url == "" {
			return Catalog{}, fmt.Errorf("parse sticker catalog: sticker without id or url: %+v", s)
		}
		if _, ok := seen[s.Id]; ok {
			return Catalog{}, fmt.Errorf("parse sticker catalog: duplicate id: %s", s.Id)
		}
		seen[s.Id] = struct{}{}
	}
	return c, nil
}

func (c Catalog) All() []model.Sticker {
	return append([]model.Sticker(nil), c.Stickers...)
}

func (c Catalog) Lookup(id string) (model.Sticker, bool) {
	for _, s := range c.Stickers {
		if s.Id == id {
			return s, true
		}
	}
	return model.Sticker{}, false
}

// RandomUrl picks the profile image given to users that have none yet.
func (c Catalog) RandomUrl() string {
	if len(c.Stickers) == 0 {
		return ""
	}
	return c.Stickers[rand.Intn(len(c.Stickers))].Url
}
