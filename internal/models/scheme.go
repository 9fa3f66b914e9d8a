package models

import (
	"errors"
	"sort"
	"strings"

	"github.com/desweal/backend/internal/distribution"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DistributionScheme is a stored, user defined percentage policy for
// splitting income into buckets. The built-in presets are not stored,
// they live in the distribution package.
type DistributionScheme struct {
	DefaultModel
	Name    string         `json:"name" gorm:"uniqueIndex:scheme_name" example:"Aggressive saving"`
	Note    string         `json:"note" example:"For the months after the bonus payment"`
	Buckets []SchemeBucket `json:"buckets" gorm:"foreignKey:SchemeID"`
}

// SchemeBucket is a single named share of a DistributionScheme.
type SchemeBucket struct {
	DefaultModel
	SchemeID   uuid.UUID       `json:"schemeId" gorm:"uniqueIndex:scheme_bucket_name"`
	Name       string          `json:"name" gorm:"uniqueIndex:scheme_bucket_name" example:"needs"`
	Percentage decimal.Decimal `json:"percentage" gorm:"type:DECIMAL(20,8)" example:"50"`
	Position   uint            `json:"position" example:"0"` // Order of the bucket within the scheme, the rounding residual goes to the last one
}

var (
	ErrSchemeNameNotUnique       = errors.New("the distribution scheme name must be unique")
	ErrSchemeBucketNameNotUnique = errors.New("the bucket name must be unique for the distribution scheme")
)

// BeforeSave trims whitespace from all strings.
func (s *DistributionScheme) BeforeSave(_ *gorm.DB) error {
	s.Name = strings.TrimSpace(s.Name)
	s.Note = strings.TrimSpace(s.Note)

	return nil
}

// AfterSave verifies that the buckets saved with the scheme form a valid
// distribution. Schemes loaded or saved without their buckets are not
// checked here, the distribution engine validates again on allocation.
func (s *DistributionScheme) AfterSave(_ *gorm.DB) error {
	if len(s.Buckets) == 0 {
		return nil
	}

	return s.Distribution().Validate()
}

// BeforeSave trims whitespace from the bucket name.
func (b *SchemeBucket) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)

	return nil
}

// Distribution returns the scheme in the representation the distribution
// engine works on, with buckets in position order.
func (s DistributionScheme) Distribution() distribution.Scheme {
	buckets := make([]SchemeBucket, len(s.Buckets))
	copy(buckets, s.Buckets)
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].Position < buckets[j].Position })

	scheme := distribution.Scheme{Name: s.Name}
	for _, bucket := range buckets {
		scheme.Buckets = append(scheme.Buckets, distribution.Bucket{
			Name:       bucket.Name,
			Percentage: bucket.Percentage,
		})
	}

	return scheme
}
