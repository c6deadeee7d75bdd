package core

import "time"

// ModuleProgress tracks one learning module for one user. The entry is
// replaced wholesale on every section completion.
//
// Completed is written but never transitioned to true anywhere in the
// service; overall module completion has no defined trigger. Kept as-is
// rather than inventing one.
type ModuleProgress struct {
	ModuleID          string    `json:"moduleId" firestore:"moduleId"`
	Completed         bool      `json:"completed" firestore:"completed"`
	LastAccessed      time.Time `json:"lastAccessed" firestore:"lastAccessed"`
	SectionsCompleted []string  `json:"sectionsCompleted" firestore:"sectionsCompleted"`
	Score             float64   `json:"score,omitempty" firestore:"score,omitempty"`
}

// LearningProgress is a user's learning document: the selected path, the
// per-module progress map and the module list unlocked by the path.
type LearningProgress struct {
	SelectedPath    string                    `json:"selectedPath" firestore:"selectedPath"`
	CurrentModule   string                    `json:"currentModule" firestore:"currentModule"`
	Progress        map[string]ModuleProgress `json:"progress" firestore:"progress"`
	Recommendations []string                  `json:"recommendations" firestore:"recommendations"`
	LastUpdated     time.Time                 `json:"lastUpdated" firestore:"lastUpdated"`
}

// NewLearningProgress returns the empty document created on first access.
func NewLearningProgress() LearningProgress {
	return LearningProgress{
		Progress:        map[string]ModuleProgress{},
		Recommendations: []string{},
		LastUpdated:     time.Now().UTC(),
	}
}

// IsModuleUnlocked reports whether a module is open for interaction: true
// when no path is selected, otherwise only when the module is in the
// selected path's recommendation list.
func (p LearningProgress) IsModuleUnlocked(moduleID string) bool {
	if p.SelectedPath == "" {
		return true
	}
	for _, id := range p.Recommendations {
		if id == moduleID {
			return true
		}
	}
	return false
}
