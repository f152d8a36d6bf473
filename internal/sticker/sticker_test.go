package sticker

import (
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	if len(c.All()) == 0 {
		t.Fatal("empty catalog")
	}

	for _, s := range c.All() {
		got, ok := c.Lookup(s.Id)
		if !ok || got != s {
			t.Errorf("Lookup(%s) = %+v, %v", s.Id, got, ok)
		}
	}

	if _, ok := c.Lookup("nope"); ok {
		t.Error("found unknown sticker")
	}
}

func TestRandomUrl(t *testing.T) {
	c := Default()
	urls := map[string]struct{}{}
	for _, s := range c.All() {
		urls[s.Url] = struct{}{}
	}

	for i := 0; i < 50; i++ {
		if _, ok := urls[c.RandomUrl()]; !ok {
			t.Fatal("random url is not part of the catalog")
		}
	}

	if got := (Catalog{}).RandomUrl(); got != "" {
		t.Errorf("empty catalog gave %q", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "ok", data: "stickers:\n  - id: a\n    url: /a.webp\n"},
		{name: "missing url", data: "stickers:\n  - id: a\n", wantErr: true},
		{name: "duplicate", data: "stickers:\n  - id: a\n    url: /a.webp\n  - id: a\n    url: /b.webp\n", wantErr: true},
		{name: "not yaml", data: "stickers: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
