package engine

import (
	"fmt"
	"testing"
)

// fakeStore is an in-memory SettingsStore recording saves.
type fakeStore struct {
	categories map[string]*SettingsCollection
	saves      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{categories: map[string]*SettingsCollection{
		CategoryOutput: {
			Data: []*SubCategory{
				{
					Name: SubCategoryRecording,
					Parameters: []*Parameter{
						{Name: "RecFormat", CurrentValue: "mkv"},
						{
							Name:         "RecEncoder",
							CurrentValue: "obs_x264",
							Values: []interface{}{
								map[string]interface{}{"Software (x264)": "obs_x264"},
								map[string]interface{}{"Hardware (NVENC)": "jim_nvenc"},
							},
						},
					},
				},
			},
		},
		CategoryVideo: {
			Data: []*SubCategory{
				{
					Name: SubCategoryUntitled,
					Parameters: []*Parameter{
						{
							Name:         "Base",
							CurrentValue: "1920x1080",
							Values:       []interface{}{"1920x1080", "2560x1440"},
						},
					},
				},
			},
		},
	}}
}

func (f *fakeStore) GetSettings(category string) (*SettingsCollection, error) {
	col, ok := f.categories[category]
	if !ok {
		return nil, fmt.Errorf("no such category %q", category)
	}
	return col, nil
}

func (f *fakeStore) SaveSettings(category string, col *SettingsCollection) error {
	f.categories[category] = col
	f.saves++
	return nil
}

// TestGetSetting verifies lookups through the category tree.
func TestGetSetting(t *testing.T) {
	store := newFakeStore()

	value, err := GetSetting(store, CategoryOutput, SubCategoryRecording, "RecFormat")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if value != "mkv" {
		t.Errorf("Expected mkv, got %v", value)
	}

	if _, err := GetSetting(store, CategoryOutput, "Streaming", "RecFormat"); err == nil {
		t.Error("Expected error for missing subcategory")
	}
	if _, err := GetSetting(store, CategoryOutput, SubCategoryRecording, "Nope"); err == nil {
		t.Error("Expected error for missing parameter")
	}
}

// TestSetSetting verifies the mutate-and-save-category round trip.
func TestSetSetting(t *testing.T) {
	store := newFakeStore()

	if err := SetSetting(store, CategoryOutput, SubCategoryRecording, "RecFormat", "mp4"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if store.saves != 1 {
		t.Errorf("Expected 1 save, got %d", store.saves)
	}
	value, err := GetSetting(store, CategoryOutput, SubCategoryRecording, "RecFormat")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if value != "mp4" {
		t.Errorf("Expected mp4, got %v", value)
	}
}

// TestSetSettingUnchangedSkipsSave verifies writing the current value
// does not save the category again.
func TestSetSettingUnchangedSkipsSave(t *testing.T) {
	store := newFakeStore()

	if err := SetSetting(store, CategoryOutput, SubCategoryRecording, "RecFormat", "mkv"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if store.saves != 0 {
		t.Errorf("Expected no save for unchanged value, got %d", store.saves)
	}
}

// TestSetSettingCreatesMissingNodes verifies unknown subcategories and
// parameters are created rather than rejected.
func TestSetSettingCreatesMissingNodes(t *testing.T) {
	store := newFakeStore()

	if err := SetSetting(store, CategoryOutput, SubCategoryAudio, "Track2Name", "Microphone"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	value, err := GetSetting(store, CategoryOutput, SubCategoryAudio, "Track2Name")
	if err != nil {
		t.Fatalf("GetSetting after create failed: %v", err)
	}
	if value != "Microphone" {
		t.Errorf("Expected Microphone, got %v", value)
	}
}

// TestAvailableValues verifies label/value map entries and plain
// entries both flatten to their values.
func TestAvailableValues(t *testing.T) {
	store := newFakeStore()

	encoders, err := AvailableValues(store, CategoryOutput, SubCategoryRecording, "RecEncoder")
	if err != nil {
		t.Fatalf("AvailableValues failed: %v", err)
	}
	if len(encoders) != 2 {
		t.Fatalf("Expected 2 encoders, got %d: %v", len(encoders), encoders)
	}
	if encoders[0] != "obs_x264" || encoders[1] != "jim_nvenc" {
		t.Errorf("Unexpected encoder values: %v", encoders)
	}

	resolutions, err := AvailableValues(store, CategoryVideo, SubCategoryUntitled, "Base")
	if err != nil {
		t.Fatalf("AvailableValues failed: %v", err)
	}
	if len(resolutions) != 2 || resolutions[0] != "1920x1080" {
		t.Errorf("Unexpected resolutions: %v", resolutions)
	}
}
