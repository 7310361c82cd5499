package models

import (
	"reflect"
	"strings"
	"testing"
)

func TestUserAchievementSingleGrantIndex(t *testing.T) {
	typ := reflect.TypeOf(UserAchievement{})

	for _, name := range []string{"UserID", "AchievementID"} {
		field, ok := typ.FieldByName(name)
		if !ok {
			t.Fatalf("UserAchievement is missing the %s field", name)
		}
		if !strings.Contains(field.Tag.Get("gorm"), "uniqueIndex:idx_user_achievement") {
			t.Errorf("%s must be part of the idx_user_achievement unique index; a racing evaluation could otherwise grant twice", name)
		}
	}
}

func TestAchievementCatalogIDsUnique(t *testing.T) {
	seen := make(map[string]bool, len(AchievementCatalog))
	for _, a := range AchievementCatalog {
		if seen[a.ID] {
			t.Errorf("duplicate catalog id %q", a.ID)
		}
		seen[a.ID] = true
	}
}
