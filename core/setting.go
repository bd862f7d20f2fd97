package core

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/common"
	"go.uber.org/zap"
)

// Setting holds the component sections of the TOML setting file. Each
// component decodes its own section into its own typed struct, so a missing
// section keeps the component defaults.
type Setting struct {
	md         toml.MetaData
	components map[string]toml.Primitive
}

func NewSetting() *Setting {
	return &Setting{
		components: make(map[string]toml.Primitive),
	}
}

func ParseSettingFromPath(settingsPath string) (*Setting, error) {
	tomlString, err := common.ReadSettingsFile(settingsPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read setting file/reason:%s", err))
		return nil, err
	}
	return ParseSetting(tomlString)
}

func ParseSetting(tomlString string) (*Setting, error) {
	s := NewSetting()
	md, err := toml.Decode(tomlString, &s.components)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse setting/reason:%s", err))
		return nil, err
	}
	s.md = md
	zap.L().Debug(fmt.Sprintf("Setting has sections %v", s.Sections()))
	return s, nil
}

func (s *Setting) Sections() []string {
	names := make([]string, 0, len(s.components))
	for k := range s.components {
		names = append(names, k)
	}
	return names
}

func (s *Setting) Has(name string) bool {
	_, ok := s.components[name]
	return ok
}

// DecodeComponentSetting decodes the section called name into v. v keeps its
// current (default) values when the section is absent.
func (s *Setting) DecodeComponentSetting(name string, v interface{}) error {
	p, ok := s.components[name]
	if !ok {
		zap.L().Debug(fmt.Sprintf("setting %s is not set, using defaults", name))
		return nil
	}
	if err := s.md.PrimitiveDecode(p, v); err != nil {
		zap.L().Error(fmt.Sprintf("failed to decode setting %s/reason:%s", name, err))
		return err
	}
	return nil
}
