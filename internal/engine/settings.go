package engine

import (
	"fmt"
)

// Settings categories and subcategories used by the recorder.
const (
	CategoryVideo  = "Video"
	CategoryOutput = "Output"

	SubCategoryUntitled  = "Untitled"
	SubCategoryRecording = "Recording"
	SubCategoryAudio     = "Audio"
)

// Parameter is one leaf of the engine settings tree. CurrentValue is
// loosely typed; Values holds the admissible values when the engine
// constrains the parameter to a list. Each entry is either a plain
// value or a single-pair map of display label to value.
type Parameter struct {
	Name         string        `json:"name"`
	CurrentValue interface{}   `json:"currentValue"`
	Values       []interface{} `json:"values,omitempty"`
}

// SubCategory groups the parameters of one settings page section.
type SubCategory struct {
	Name       string       `json:"name"`
	Parameters []*Parameter `json:"parameters"`
}

// SettingsCollection is the engine's settings tree for one category.
type SettingsCollection struct {
	Data []*SubCategory `json:"data"`
}

// SettingsStore is the slice of the engine surface the typed settings
// accessors operate on.
type SettingsStore interface {
	GetSettings(category string) (*SettingsCollection, error)
	SaveSettings(category string, col *SettingsCollection) error
}

func (c *SettingsCollection) subCategory(name string) *SubCategory {
	for _, sub := range c.Data {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

func (s *SubCategory) parameter(name string) *Parameter {
	for _, param := range s.Parameters {
		if param.Name == name {
			return param
		}
	}
	return nil
}

// GetSetting reads one parameter's current value from the engine
// settings store.
func GetSetting(eng SettingsStore, category, subcategory, name string) (interface{}, error) {
	col, err := eng.GetSettings(category)
	if err != nil {
		return nil, fmt.Errorf("get %s settings: %w", category, err)
	}
	sub := col.subCategory(subcategory)
	if sub == nil {
		return nil, fmt.Errorf("settings %s/%s: no such subcategory", category, subcategory)
	}
	param := sub.parameter(name)
	if param == nil {
		return nil, fmt.Errorf("settings %s/%s/%s: no such parameter", category, subcategory, name)
	}
	return param.CurrentValue, nil
}

// SetSetting writes one parameter and saves the whole category back.
// Missing subcategory or parameter nodes are created; the engine
// ignores nodes it does not recognize. The save is skipped when the
// value is already current.
func SetSetting(eng SettingsStore, category, subcategory, name string, value interface{}) error {
	col, err := eng.GetSettings(category)
	if err != nil {
		return fmt.Errorf("get %s settings: %w", category, err)
	}
	sub := col.subCategory(subcategory)
	if sub == nil {
		sub = &SubCategory{Name: subcategory}
		col.Data = append(col.Data, sub)
	}
	param := sub.parameter(name)
	if param == nil {
		param = &Parameter{Name: name}
		sub.Parameters = append(sub.Parameters, param)
	}
	if param.CurrentValue == value {
		return nil
	}
	param.CurrentValue = value
	if err := eng.SaveSettings(category, col); err != nil {
		return fmt.Errorf("save %s settings: %w", category, err)
	}
	return nil
}

// AvailableValues lists the admissible values of one parameter, with
// label/value map entries flattened to their values.
func AvailableValues(eng SettingsStore, category, subcategory, name string) ([]string, error) {
	col, err := eng.GetSettings(category)
	if err != nil {
		return nil, fmt.Errorf("get %s settings: %w", category, err)
	}
	sub := col.subCategory(subcategory)
	if sub == nil {
		return nil, fmt.Errorf("settings %s/%s: no such subcategory", category, subcategory)
	}
	param := sub.parameter(name)
	if param == nil {
		return nil, fmt.Errorf("settings %s/%s/%s: no such parameter", category, subcategory, name)
	}
	values := make([]string, 0, len(param.Values))
	for _, entry := range param.Values {
		switch v := entry.(type) {
		case map[string]interface{}:
			for _, mapped := range v {
				values = append(values, fmt.Sprint(mapped))
				break
			}
		default:
			values = append(values, fmt.Sprint(v))
		}
	}
	return values, nil
}
