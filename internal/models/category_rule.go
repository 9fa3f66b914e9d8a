package models

import (
	"errors"
	"strings"

	"github.com/ryanuber/go-glob"
	"gorm.io/gorm"
)

// CategoryRule automatically assigns a category to appended transactions
// that do not carry one. The rule with the lowest priority value whose
// match glob fits the transaction note wins.
type CategoryRule struct {
	DefaultModel
	Priority uint     `json:"priority" example:"1"`
	Match    string   `json:"match" gorm:"uniqueIndex:category_rule_match" example:"Supermarket*"`
	Category Category `json:"category" example:"expense"`
}

var (
	ErrRuleMatchNotUnique = errors.New("the category rule match must be unique")
)

// BeforeSave trims whitespace from the match.
func (r *CategoryRule) BeforeSave(_ *gorm.DB) error {
	r.Match = strings.TrimSpace(r.Match)

	return nil
}

func (r *CategoryRule) AfterSave(_ *gorm.DB) error {
	if !r.Category.Valid() {
		return ErrCategoryInvalid
	}

	return nil
}

// Matches reports whether the rule's glob matches the note.
func (r CategoryRule) Matches(note string) bool {
	return glob.Glob(r.Match, note)
}
