package permrec

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shschool-data/internal/store"
	"shschool-data/internal/util"
)

type TagConfigService struct {
	*store.Facade[TagConfig, *TagConfig]
}

func NewTagConfigService(db *gorm.DB, log *zap.Logger) *TagConfigService {
	return &TagConfigService{Facade: store.NewFacade[TagConfig](db, log)}
}

func (s *TagConfigService) SelectByCategory(ctx context.Context, category TagCategory) ([]TagConfig, error) {
	return s.Where(ctx, "category = ?", category)
}

func (s *TagConfigService) SelectByCategoryAndPrefix(ctx context.Context, category TagCategory, prefix string) ([]TagConfig, error) {
	return s.Where(ctx, "category = ? AND prefix = ?", category, prefix)
}

// Linker is the pointer side of a tag link record.
type Linker[T any] interface {
	store.Record[T]
	EntityID() string
	TagID() string
}

// TagEntry is a tag link with its tag resolved.
type TagEntry struct {
	ID       string      `json:"id"`
	EntityID string      `json:"ref_entity_id"`
	TagID    string      `json:"ref_tag_id"`
	Category TagCategory `json:"category"`
	Prefix   string      `json:"prefix"`
	Name     string      `json:"name"`
	FullName string      `json:"full_name"`
}

// TagService serves one of the tag_<entity> link tables.
type TagService[T any, P Linker[T]] struct {
	*store.Facade[T, P]
	Configs *TagConfigService
}

type (
	StudentTagService = TagService[StudentTag, *StudentTag]
	ClassTagService   = TagService[ClassTag, *ClassTag]
	TeacherTagService = TagService[TeacherTag, *TeacherTag]
	CourseTagService  = TagService[CourseTag, *CourseTag]
)

func NewTagService[T any, P Linker[T]](db *gorm.DB, configs *TagConfigService, log *zap.Logger) *TagService[T, P] {
	return &TagService[T, P]{Facade: store.NewFacade[T, P](db, log), Configs: configs}
}

func (s *TagService[T, P]) SelectByEntityID(ctx context.Context, entityID string) ([]T, error) {
	return s.SelectByEntityIDs(ctx, entityID)
}

func (s *TagService[T, P]) SelectByEntityIDs(ctx context.Context, entityIDs ...string) ([]T, error) {
	entityIDs = util.CompactIDs(entityIDs)
	if len(entityIDs) == 0 {
		return []T{}, nil
	}
	return s.Where(ctx, "ref_entity_id IN ?", entityIDs)
}

// FullNames returns the full names of every tag on one entity.
func (s *TagService[T, P]) FullNames(ctx context.Context, entityID string) ([]string, error) {
	if entityID == "" {
		return nil, nil
	}
	var tags []TagConfig
	err := s.DB.WithContext(ctx).
		Table("tag").
		Select("tag.*").
		Joins("JOIN "+s.Table()+" l ON l.ref_tag_id = tag.id").
		Where("l.ref_entity_id = ?", entityID).
		Order("l.id").
		Find(&tags).Error
	if err != nil {
		return nil, errors.Wrapf(err, "tags of %s", entityID)
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.FullName())
	}
	return out, nil
}

// Describe resolves the tag of every link with one tag lookup. Links to
// tags that no longer exist keep empty names.
func (s *TagService[T, P]) Describe(ctx context.Context, links []T) ([]TagEntry, error) {
	tagIDs := make([]string, 0, len(links))
	for i := range links {
		tagIDs = append(tagIDs, P(&links[i]).TagID())
	}
	tags, err := s.Configs.SelectByIDs(ctx, tagIDs...)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]TagConfig, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}

	out := make([]TagEntry, 0, len(links))
	for i := range links {
		p := P(&links[i])
		e := TagEntry{ID: p.GetID(), EntityID: p.EntityID(), TagID: p.TagID()}
		if t, ok := byID[e.TagID]; ok {
			e.Category = t.Category
			e.Prefix = t.Prefix
			e.Name = t.Name
			e.FullName = t.FullName()
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *TagService[T, P]) SelectAllDetail(ctx context.Context) ([]TagEntry, error) {
	links, err := s.SelectAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.Describe(ctx, links)
}
