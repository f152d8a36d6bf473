package model

type Sticker struct {
	Id   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Url  string `yaml:"url" json:"url"`
}
