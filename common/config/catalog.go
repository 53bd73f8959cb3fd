package config

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var defaultCatalogYAML []byte

// 参考图输入类型
const (
	InputProductImage    = "productImage"
	InputModelImage      = "modelImage"
	InputBackgroundImage = "backgroundImage"
	InputOutfitBatch     = "outfitBatch"
	InputRealEstateBatch = "realEstateBatch"
	InputLocationImage   = "locationImage"
)

type ContentStyle struct {
	Id            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name" json:"name"`
	Description   string   `yaml:"description" json:"description"`
	Inputs        []string `yaml:"inputs" json:"inputs"`
	AudioStrategy string   `yaml:"audio_strategy" json:"audio_strategy"`
	Mapping       string   `yaml:"mapping" json:"mapping"`
	StoryFlow     []string `yaml:"story_flow" json:"story_flow,omitempty"`
}

type Option struct {
	Id   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

type Catalog struct {
	Styles       []ContentStyle `yaml:"styles" json:"styles"`
	Languages    []Option       `yaml:"languages" json:"languages"`
	ScriptStyles []Option       `yaml:"script_styles" json:"script_styles"`
	Voices       []Option       `yaml:"voices" json:"voices"`

	byId map[string]*ContentStyle
}

var catalog *Catalog
var catalogLock sync.RWMutex

func init() {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded style catalog: %s", err.Error()))
	}
	catalog = c
}

func ParseCatalog(data []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	if len(c.Styles) == 0 {
		return nil, fmt.Errorf("catalog has no styles")
	}
	c.byId = make(map[string]*ContentStyle, len(c.Styles))
	for i := range c.Styles {
		s := &c.Styles[i]
		if s.Id == "" {
			return nil, fmt.Errorf("style #%d has no id", i)
		}
		if s.AudioStrategy == "" {
			s.AudioStrategy = "dubbing"
		}
		if s.Mapping == "" {
			s.Mapping = "direct"
		}
		c.byId[s.Id] = s
	}
	return c, nil
}

// LoadCatalogFile 用外部文件替换内置风格目录
func LoadCatalogFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return err
	}
	catalogLock.Lock()
	catalog = c
	catalogLock.Unlock()
	return nil
}

func GetCatalog() *Catalog {
	catalogLock.RLock()
	defer catalogLock.RUnlock()
	return catalog
}

func GetStyle(id string) (*ContentStyle, bool) {
	c := GetCatalog()
	s, ok := c.byId[id]
	return s, ok
}

func (c *Catalog) HasVoice(id string) bool {
	for _, v := range c.Voices {
		if v.Id == id {
			return true
		}
	}
	return false
}

func (s *ContentStyle) RequiresInput(input string) bool {
	for _, in := range s.Inputs {
		if in == input {
			return true
		}
	}
	return false
}

// DefaultAudioType selectable 风格默认 dubbing，其余沿用风格自身策略
func (s *ContentStyle) DefaultAudioType() string {
	if s.AudioStrategy == "selectable" {
		return "dubbing"
	}
	return s.AudioStrategy
}

// FlowLabel returns the storyboard label of a shot, e.g. "SHOT 1".
func (s *ContentStyle) FlowLabel(index int) string {
	if index >= 0 && index < len(s.StoryFlow) {
		label := s.StoryFlow[index]
		for i := 0; i < len(label); i++ {
			if label[i] == ':' {
				return label[:i]
			}
		}
		return label
	}
	return fmt.Sprintf("Shot %d", index+1)
}
