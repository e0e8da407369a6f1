package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"catalog/indexer/internal/categorizer"
	"catalog/indexer/internal/client"
	"catalog/indexer/internal/domain"
	"catalog/indexer/internal/queue"
	"catalog/indexer/internal/repository"
	"catalog/indexer/internal/state"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// maxReindexRetries is how many times a failed source is retried before it is dropped
const maxReindexRetries = 5

type Service struct {
	repository   repository.IndexRepository
	client       client.CatalogClient
	queue        queue.Queue
	stateManager state.StateManager
	groupName    string
	minIdleTime  time.Duration
	now          func() time.Time
}

func NewService(
	repository repository.IndexRepository,
	client client.CatalogClient,
	queue queue.Queue,
	stateManager state.StateManager,
	groupName string,
	minIdleTime int,
) *Service {
	if minIdleTime <= 0 {
		minIdleTime = 120
	}

	return &Service{
		repository:   repository,
		client:       client,
		queue:        queue,
		stateManager: stateManager,
		groupName:    groupName,
		minIdleTime:  time.Duration(minIdleTime) * time.Second,
		now:          time.Now,
	}
}

// Reindex fetches the items and category tree of a source, categorizes them and stores the
// result. Unless force is set, a source whose inputs did not change since the last run is
// skipped and its stored index returned. The boolean reports whether a new index was written.
func (s *Service) Reindex(ctx context.Context, source string, force bool) (*domain.CatalogIndex, bool, error) {
	var (
		items      []domain.Item
		categories []domain.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.client.GetItems(gctx, source)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.client.GetCategories(gctx, source)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	fp, err := fingerprint(items, categories)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fingerprint %s: %w", source, err)
	}

	if !force {
		stored, err := s.unchangedIndex(ctx, source, fp)
		if err != nil {
			return nil, false, err
		}
		if stored != nil {
			log.Infof("⏭️ %s unchanged since last run, skipping", source)
			return stored, false, nil
		}
	}

	if dups := categorizer.DuplicateIDs(categories); len(dups) > 0 {
		log.Warnf("⚠️ Category tree of %s has duplicate ids %v, first match wins", source, dups)
	}

	index := &domain.CatalogIndex{
		Source:      source,
		Fingerprint: fp,
		Categories:  categorizer.Categorize(items, categories),
		ItemCount:   len(items),
		UpdatedAt:   s.now().UTC(),
	}

	if err := s.repository.SaveIndex(ctx, index); err != nil {
		return nil, false, err
	}

	if err := s.stateManager.SetFingerprint(ctx, source, fp); err != nil {
		return nil, false, err
	}

	log.Infof("✅ Indexed %s: %d items, %d buckets, %d uncategorized",
		source, index.ItemCount, len(index.Categories), len(index.Categories.Bucket(domain.OtherCategory)))

	return index, true, nil
}

// unchangedIndex returns the stored index of source when it was built from inputs with
// fingerprint fp, nil when the source has to be categorized again
func (s *Service) unchangedIndex(ctx context.Context, source, fp string) (*domain.CatalogIndex, error) {
	last, err := s.stateManager.GetFingerprint(ctx, source)
	if err != nil {
		log.Warnf("⚠️ Could not read fingerprint for %s, reindexing: %v", source, err)
		return nil, nil
	}
	if last != fp {
		return nil, nil
	}

	stored, err := s.repository.GetIndex(ctx, source)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.Fingerprint != fp {
		log.Warnf("⚠️ Stored index of %s does not match its fingerprint, reindexing", source)
		return nil, nil
	}

	return stored, nil
}

// Navigate resolves the active category of a source and everything needed to highlight it
func (s *Service) Navigate(ctx context.Context, source, activeID string) (*domain.Navigation, error) {
	categories, err := s.client.GetCategories(ctx, source)
	if err != nil {
		return nil, err
	}

	nav := &domain.Navigation{
		Source:   source,
		ActiveID: activeID,
		Tabs:     make([]domain.Tab, 0, len(categories)),
	}

	bucketID := activeID
	switch activeID {
	case "", domain.NoGrouping, domain.AllCategory:
		bucketID = domain.AllCategory
		nav.Found = true
	case domain.OtherCategory:
		nav.Found = true
	default:
		nav.Active, nav.Found = categorizer.FindActiveCategory(activeID, categories)
	}

	nav.Breadcrumbs = breadcrumbs(source, activeID, categorizer.PathTo(activeID, categories))

	for i := range categories {
		category := &categories[i]
		nav.Tabs = append(nav.Tabs, domain.Tab{
			CategoryID:       category.ID,
			Name:             category.DisplayName(),
			Selected:         category.ID == activeID,
			HasActiveTab:     categorizer.IsActiveTab(activeID, category),
			ActiveDescendant: categorizer.HasActiveDescendant(activeID, category),
		})
	}

	nav.ItemIDs = []string{}
	if nav.Found {
		nav.ItemIDs, err = s.repository.GetBucket(ctx, source, bucketID)
		if err != nil {
			return nil, err
		}
	} else {
		log.Debugf("Category %s not found in %s", activeID, source)
	}

	return nav, nil
}

// breadcrumbs turns a root-to-node path into crumbs, prefixed by the catalog root.
// The other bucket has no tree node and gets a crumb of its own.
func breadcrumbs(source, activeID string, path []*domain.Category) []domain.Breadcrumb {
	root := "/catalog/" + url.PathEscape(source)
	crumbs := []domain.Breadcrumb{{Name: "All items", Path: root}}

	if activeID == domain.OtherCategory && len(path) == 0 {
		crumbs = append(crumbs, domain.Breadcrumb{
			Name: "Other",
			Path: root + "?category=" + domain.OtherCategory,
		})
	}

	for _, node := range path {
		crumbs = append(crumbs, domain.Breadcrumb{
			Name: node.DisplayName(),
			Path: root + "?category=" + url.QueryEscape(node.ID),
		})
	}

	crumbs[len(crumbs)-1].IsActive = true
	return crumbs
}

// ApplicationsInfo reports whether the namespace already has applications
func (s *Service) ApplicationsInfo(ctx context.Context, namespace string) (*domain.ApplicationsInfo, error) {
	return s.client.GetApplicationsInfo(ctx, strings.TrimSpace(namespace))
}
