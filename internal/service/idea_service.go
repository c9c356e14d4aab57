package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ideaboard-api/internal/models"
	appErrors "github.com/noah-isme/ideaboard-api/pkg/errors"
)

type ideaStore interface {
	Load(ctx context.Context) (models.IdeaTable, error)
	Save(ctx context.Context, table models.IdeaTable) error
}

type savedIdeaStore interface {
	Load(ctx context.Context) ([]models.SavedIdea, error)
	Save(ctx context.Context, saved []models.SavedIdea) error
}

// FallbackCategories are offered after the categories already present in the data.
var FallbackCategories = []string{"TRANSPORT", "HEALTH", "ENERGY", "AI", "Business", "Technology", "Social"}

// Dashboard cache keys are derived from this prefix; every idea mutation drops them.
const ideaCachePattern = "dash:ideas:*"

const (
	documentPrefixDraft    = "DRAFT"
	documentPrefixProforma = "PROFORMA"
)

// IdeaServiceConfig tunes the idea workflow.
type IdeaServiceConfig struct {
	AutoAccept      bool
	WindowMinDays   int
	WindowMaxDays   int
	DefaultPageSize int
}

// IdeaService owns the idea lifecycle: creation, edits, review transitions and deletion.
type IdeaService struct {
	store     ideaStore
	saved     *SavedIdeaTable
	access    *AccessFilter
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       IdeaServiceConfig

	now    func() time.Time
	intn   func(n int) int
	mu     sync.Mutex
	randMu sync.Mutex
}

// IdeaServiceParams groups constructor dependencies.
type IdeaServiceParams struct {
	Store     ideaStore
	Saved     *SavedIdeaTable
	Access    *AccessFilter
	Cache     *CacheService
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	Config    IdeaServiceConfig
}

// NewIdeaService constructs an IdeaService.
func NewIdeaService(params IdeaServiceParams) *IdeaService {
	cfg := params.Config
	if cfg.WindowMinDays <= 0 {
		cfg.WindowMinDays = 30
	}
	if cfg.WindowMaxDays < cfg.WindowMinDays {
		cfg.WindowMaxDays = cfg.WindowMinDays
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 10
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	access := params.Access
	if access == nil {
		access = NewAccessFilter(AccessFilterConfig{ShowPrivateToAuthenticated: true})
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &IdeaService{
		store:     params.Store,
		saved:     params.Saved,
		access:    access,
		cache:     params.Cache,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
		intn:      rng.Intn,
	}
}

// List returns one page of the viewer's ideas for the scope after applying the filter.
func (s *IdeaService) List(ctx context.Context, viewer models.Viewer, scope models.IdeaScope, filter models.IdeaFilter) ([]models.Idea, *models.Pagination, error) {
	ideas, err := s.Visible(ctx, viewer, scope, filter)
	if err != nil {
		return nil, nil, err
	}
	page, pagination := Paginate(ideas, filter.Page, filter.PageSize, s.cfg.DefaultPageSize)
	return page, pagination, nil
}

// Visible returns every idea of the scope matching the filter, newest first.
func (s *IdeaService) Visible(ctx context.Context, viewer models.Viewer, scope models.IdeaScope, filter models.IdeaFilter) ([]models.Idea, error) {
	if scope == models.IdeaScopeMine && !viewer.Authenticated {
		return nil, appErrors.ErrUnauthorized
	}
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	var saved map[int64]struct{}
	if scope == models.IdeaScopeMine && viewer.Role == models.RoleInvestor {
		if saved, err = s.savedIDs(ctx, viewer.Identity); err != nil {
			return nil, err
		}
	}
	visible := s.access.VisibleSet(table.Ideas, viewer, scope, saved)
	return s.access.Apply(visible, filter), nil
}

// Get returns one idea. Ideas the viewer may not see are reported as missing.
func (s *IdeaService) Get(ctx context.Context, viewer models.Viewer, id int64) (*models.Idea, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := table.Index(id)
	if idx < 0 || !s.access.CanView(table.Ideas[idx], viewer) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "idea not found")
	}
	idea := table.Ideas[idx]
	return &idea, nil
}

// Categories returns the categories present in the data followed by the fallback set.
func (s *IdeaService) Categories(ctx context.Context) ([]string, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var fromData []string
	for _, idea := range table.Ideas {
		category := strings.TrimSpace(idea.Category)
		if category == "" {
			continue
		}
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		fromData = append(fromData, category)
	}
	sort.Strings(fromData)
	for _, category := range FallbackCategories {
		if _, ok := seen[category]; !ok {
			seen[category] = struct{}{}
			fromData = append(fromData, category)
		}
	}
	return fromData, nil
}

// Create stores a new idea owned by the viewer. Drafts only need a title; a submission
// needs every required field and accepted terms, otherwise nothing is written.
func (s *IdeaService) Create(ctx context.Context, viewer models.Viewer, fields models.IdeaFields, asDraft bool) (idea *models.Idea, err error) {
	defer func() { s.observe("create", err) }()

	if err := s.authorizeAuthor(viewer); err != nil {
		return nil, err
	}
	fields = normaliseFields(fields)
	if err := s.validateFields(fields, asDraft); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	id := table.NextID()
	toDate := now.AddDate(0, 0, s.windowDays())
	created := models.Idea{
		ID:       id,
		Status:   models.IdeaStatusDraft,
		FromDate: &now,
		ToDate:   &toDate,
		Owner:    viewer.Identity,
	}
	applyFields(&created, fields)
	if created.Visibility == "" {
		created.Visibility = models.VisibilityPublic
	}
	if asDraft {
		created.DocumentName = documentName(documentPrefixDraft, id, created.Category)
	} else {
		s.submit(&created, now)
	}

	table.Ideas = append([]models.Idea{created}, table.Ideas...)
	table.LastID = id
	if err := s.persist(ctx, table); err != nil {
		return nil, err
	}
	s.logger.Info("idea created", zap.Int64("id", id), zap.String("owner", viewer.Identity), zap.String("status", string(created.Status)))
	return &created, nil
}

// Update edits an idea and moves it to target, which must be Draft or On Review.
// An empty target keeps drafts as drafts and resubmits everything else.
func (s *IdeaService) Update(ctx context.Context, viewer models.Viewer, id int64, fields models.IdeaFields, target models.IdeaStatus) (idea *models.Idea, err error) {
	defer func() { s.observe("update", err) }()

	if target != "" && target != models.IdeaStatusDraft && target != models.IdeaStatusOnReview {
		return nil, appErrors.Validation("status must be Draft or On Review", "status")
	}
	fields = normaliseFields(fields)

	s.mu.Lock()
	defer s.mu.Unlock()

	table, idx, err := s.loadOwned(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	current := table.Ideas[idx]
	if !current.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("idea has unrecognised status %q", current.Status))
	}
	if target == "" {
		target = models.IdeaStatusOnReview
		if current.Status == models.IdeaStatusDraft {
			target = models.IdeaStatusDraft
		}
	}
	if target == models.IdeaStatusDraft && current.Status != models.IdeaStatusDraft {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("an idea in %s cannot return to Draft", current.Status))
	}
	if err := s.validateFields(fields, target == models.IdeaStatusDraft); err != nil {
		return nil, err
	}

	updated := current
	applyFields(&updated, fields)
	if target == models.IdeaStatusDraft {
		updated.DocumentName = documentName(documentPrefixDraft, id, updated.Category)
	} else {
		s.submit(&updated, s.timestamp())
	}

	table.Ideas[idx] = updated
	if err := s.persist(ctx, table); err != nil {
		return nil, err
	}
	s.logger.Info("idea updated", zap.Int64("id", id), zap.String("actor", viewer.Identity),
		zap.String("from", string(current.Status)), zap.String("to", string(updated.Status)))
	return &updated, nil
}

// Delete removes an idea. Only the owner or an admin may delete.
func (s *IdeaService) Delete(ctx context.Context, viewer models.Viewer, id int64) (err error) {
	defer func() { s.observe("delete", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	table, idx, err := s.loadOwned(ctx, viewer, id)
	if err != nil {
		return err
	}
	if id > table.LastID {
		table.LastID = id
	}
	table.Ideas = append(table.Ideas[:idx], table.Ideas[idx+1:]...)
	if err := s.persist(ctx, table); err != nil {
		return err
	}
	s.dropBookmarks(ctx, id)
	s.logger.Info("idea deleted", zap.Int64("id", id), zap.String("actor", viewer.Identity))
	return nil
}

// Publish accepts an idea that is on review. Accepted ideas are returned unchanged.
func (s *IdeaService) Publish(ctx context.Context, viewer models.Viewer, id int64) (idea *models.Idea, err error) {
	defer func() { s.observe("publish", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	table, idx, err := s.loadOwned(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	return s.review(ctx, table, idx, models.IdeaStatusAccepted)
}

// Reject closes an idea that is on review. Admin only.
func (s *IdeaService) Reject(ctx context.Context, viewer models.Viewer, id int64) (idea *models.Idea, err error) {
	defer func() { s.observe("reject", err) }()

	if !viewer.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins can reject ideas")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table, idx, err := s.loadOwned(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	return s.review(ctx, table, idx, models.IdeaStatusRejected)
}

func (s *IdeaService) review(ctx context.Context, table models.IdeaTable, idx int, decision models.IdeaStatus) (*models.Idea, error) {
	idea := table.Ideas[idx]
	if idea.Status == decision {
		return &idea, nil
	}
	if idea.Status != models.IdeaStatusOnReview {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("only ideas on review can become %s", decision))
	}
	idea.Status = decision
	if idea.DatePublished == nil {
		now := s.timestamp()
		idea.DatePublished = &now
		extendWindow(&idea)
	}
	table.Ideas[idx] = idea
	if err := s.persist(ctx, table); err != nil {
		return nil, err
	}
	s.logger.Info("idea reviewed", zap.Int64("id", idea.ID), zap.String("status", string(decision)))
	return &idea, nil
}

// submit moves an idea out of Draft and stamps the publication fields.
func (s *IdeaService) submit(idea *models.Idea, now time.Time) {
	idea.Status = models.IdeaStatusOnReview
	if s.cfg.AutoAccept {
		idea.Status = models.IdeaStatusAccepted
	}
	idea.DocumentName = documentName(documentPrefixProforma, idea.ID, idea.Category)
	if idea.IssueNumber == "" {
		idea.IssueNumber = fmt.Sprintf("%d.00/%dPLN", idea.ID, 100+s.randomInt(900))
	}
	idea.DatePublished = &now
	extendWindow(idea)
}

func (s *IdeaService) authorizeAuthor(viewer models.Viewer) error {
	if !viewer.Authenticated {
		return appErrors.ErrUnauthorized
	}
	if !CapabilitiesFor(viewer).Create {
		return appErrors.Clone(appErrors.ErrForbidden, "your role cannot author ideas")
	}
	return nil
}

// loadOwned loads the table and locates an idea the viewer may modify.
func (s *IdeaService) loadOwned(ctx context.Context, viewer models.Viewer, id int64) (models.IdeaTable, int, error) {
	if err := s.authorizeAuthor(viewer); err != nil {
		return models.IdeaTable{}, -1, err
	}
	table, err := s.load(ctx)
	if err != nil {
		return models.IdeaTable{}, -1, err
	}
	idx := table.Index(id)
	if idx < 0 || !s.access.CanView(table.Ideas[idx], viewer) {
		return models.IdeaTable{}, -1, appErrors.Clone(appErrors.ErrNotFound, "idea not found")
	}
	if !viewer.IsAdmin() && table.Ideas[idx].Owner != viewer.Identity {
		return models.IdeaTable{}, -1, appErrors.Clone(appErrors.ErrForbidden, "only the owner or an admin can change this idea")
	}
	return table, idx, nil
}

func (s *IdeaService) validateFields(fields models.IdeaFields, draft bool) error {
	if err := s.validator.Struct(fields); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid idea payload")
	}
	missing := missingFields(fields, draft)
	if len(missing) > 0 {
		return appErrors.Validation("fill the compulsory fields: "+strings.Join(missing, ", "), missing...)
	}
	return nil
}

// missingFields names every empty required field. Drafts only need a title.
func missingFields(fields models.IdeaFields, draft bool) []string {
	var missing []string
	if fields.Name == "" {
		missing = append(missing, "name")
	}
	if draft {
		return missing
	}
	if fields.Category == "" {
		missing = append(missing, "category")
	}
	if fields.Description == "" {
		missing = append(missing, "description")
	}
	if fields.DetailedDescription == "" {
		missing = append(missing, "detailed_description")
	}
	if fields.EstimatedImpact == "" {
		missing = append(missing, "estimated_impact")
	}
	if !fields.TermsAccepted {
		missing = append(missing, "terms_accepted")
	}
	return missing
}

func normaliseFields(fields models.IdeaFields) models.IdeaFields {
	fields.Name = strings.TrimSpace(fields.Name)
	fields.Category = strings.TrimSpace(fields.Category)
	fields.Description = truncate(strings.TrimSpace(fields.Description), models.DescriptionMaxLength)
	fields.DetailedDescription = strings.TrimSpace(fields.DetailedDescription)
	fields.EstimatedImpact = strings.TrimSpace(fields.EstimatedImpact)
	return fields
}

func applyFields(idea *models.Idea, fields models.IdeaFields) {
	idea.Name = fields.Name
	idea.Category = fields.Category
	idea.Description = fields.Description
	idea.DetailedDescription = fields.DetailedDescription
	idea.EstimatedImpact = fields.EstimatedImpact
	if fields.Visibility != "" {
		idea.Visibility = fields.Visibility
	}
}

// extendWindow keeps date_published inside the open window.
func extendWindow(idea *models.Idea) {
	if idea.DatePublished == nil {
		return
	}
	if idea.FromDate == nil || idea.FromDate.After(*idea.DatePublished) {
		from := *idea.DatePublished
		idea.FromDate = &from
	}
	if idea.ToDate == nil || idea.ToDate.Before(*idea.DatePublished) {
		to := *idea.DatePublished
		idea.ToDate = &to
	}
}

func documentName(prefix string, id int64, category string) string {
	return fmt.Sprintf("%s/%d/%s", prefix, id, strings.ToUpper(truncate(category, 3)))
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}

func (s *IdeaService) windowDays() int {
	span := s.cfg.WindowMaxDays - s.cfg.WindowMinDays
	return s.cfg.WindowMinDays + s.randomInt(span+1)
}

func (s *IdeaService) randomInt(n int) int {
	if n <= 1 {
		return 0
	}
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.intn(n)
}

// timestamp is second-precision UTC so stored dates survive a CSV round trip unchanged.
func (s *IdeaService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func (s *IdeaService) load(ctx context.Context) (models.IdeaTable, error) {
	start := time.Now()
	table, err := s.store.Load(ctx)
	s.metrics.ObserveStore("load", time.Since(start))
	if err != nil {
		return models.IdeaTable{}, appErrors.Storage(err, "failed to load ideas")
	}
	return table, nil
}

func (s *IdeaService) persist(ctx context.Context, table models.IdeaTable) error {
	start := time.Now()
	err := s.store.Save(ctx, table)
	s.metrics.ObserveStore("save", time.Since(start))
	if err != nil {
		s.logger.Error("failed to save ideas", zap.Error(err))
		return appErrors.Storage(err, "failed to save ideas")
	}
	s.cache.Invalidate(ctx, ideaCachePattern)
	return nil
}

func (s *IdeaService) savedIDs(ctx context.Context, username string) (map[int64]struct{}, error) {
	ids := make(map[int64]struct{})
	if s.saved == nil {
		return ids, nil
	}
	entries, err := s.saved.Load(ctx)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to load saved ideas")
	}
	for _, entry := range entries {
		if entry.Username == username {
			ids[entry.IdeaID] = struct{}{}
		}
	}
	return ids, nil
}

// dropBookmarks removes saved-idea rows pointing at a deleted idea.
func (s *IdeaService) dropBookmarks(ctx context.Context, id int64) {
	if s.saved == nil {
		return
	}
	err := s.saved.Update(ctx, nil, func(entries []models.SavedIdea) ([]models.SavedIdea, bool) {
		kept := make([]models.SavedIdea, 0, len(entries))
		for _, entry := range entries {
			if entry.IdeaID != id {
				kept = append(kept, entry)
			}
		}
		return kept, len(kept) != len(entries)
	})
	if err != nil {
		s.logger.Warn("failed to drop bookmarks of deleted idea", zap.Int64("id", id), zap.Error(err))
	}
}

func (s *IdeaService) observe(operation string, err error) {
	outcome := "ok"
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			outcome = appErr.Code
		} else {
			outcome = "error"
		}
	}
	s.metrics.ObserveIdeaOperation(operation, outcome)
}
