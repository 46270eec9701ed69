package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/array/applications-console/internal/cache"
	"github.com/array/applications-console/internal/integrations/accountapi"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoResults          = errors.New("no results found")
	ErrInvalidSearchKind  = errors.New("unknown search kind")
	ErrEmptySearchValue   = errors.New("search value is required")
	ErrInvalidApplication = errors.New("application id must be positive")
)

const (
	cacheKeyAll     = "applications:all"
	cacheKeyCount   = "applications:count"
	cachePattern    = "applications:*"
	recentDashboard = 5
)

// ApplicationsAPI is the part of the account application client the console depends on
type ApplicationsAPI interface {
	GetStatus(ctx context.Context) (*accountapi.APIStatus, error)
	ListAll(ctx context.Context) ([]accountapi.AccountApplication, error)
	ListPage(ctx context.Context, offset, limit int) ([]accountapi.AccountApplication, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int) (*accountapi.AccountApplication, error)
	Create(ctx context.Context, payload accountapi.ApplicationPayload) (*accountapi.AccountApplication, error)
	Update(ctx context.Context, id int, payload accountapi.ApplicationPayload) (*accountapi.AccountApplication, error)
	Delete(ctx context.Context, id int) error
	SearchByCNIC(ctx context.Context, cnic string) (*accountapi.AccountApplication, error)
	SearchByAccountNumber(ctx context.Context, accountNo string) (*accountapi.AccountApplication, error)
	SearchByIBAN(ctx context.Context, iban string) (*accountapi.AccountApplication, error)
	SearchByCity(ctx context.Context, city string) ([]accountapi.AccountApplication, error)
	SearchByAccountType(ctx context.Context, accountType accountapi.AccountType) ([]accountapi.AccountApplication, error)
}

// PageMeta describes one page of the application list
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ApplicationPage is one page of applications with its position
type ApplicationPage struct {
	Items []accountapi.AccountApplication `json:"items"`
	Meta  PageMeta                        `json:"meta"`
}

// Dashboard is the landing view: backend health, volume and latest submissions
type Dashboard struct {
	Online        bool                            `json:"online"`
	StatusMessage string                          `json:"status_message,omitempty"`
	Version       string                          `json:"version,omitempty"`
	Total         int                             `json:"total"`
	Recent        []accountapi.AccountApplication `json:"recent"`
}

// ApplicationService fronts the account application API with a short-lived read cache
type ApplicationService struct {
	client   ApplicationsAPI
	cache    *cache.Client
	pageSize int
	logger   *slog.Logger
}

// NewApplicationService creates a new application service. cache may be nil.
func NewApplicationService(client ApplicationsAPI, c *cache.Client, pageSize int, logger *slog.Logger) *ApplicationService {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return &ApplicationService{
		client:   client,
		cache:    c,
		pageSize: pageSize,
		logger:   logger,
	}
}

// PageSize is the default number of applications per page
func (s *ApplicationService) PageSize() int {
	return s.pageSize
}

// Status reports the backend's own health descriptor
func (s *ApplicationService) Status(ctx context.Context) (*accountapi.APIStatus, error) {
	return s.client.GetStatus(ctx)
}

// ListAll returns every application
func (s *ApplicationService) ListAll(ctx context.Context) ([]accountapi.AccountApplication, error) {
	var apps []accountapi.AccountApplication
	if s.cache.GetJSON(ctx, cacheKeyAll, &apps) {
		return apps, nil
	}
	apps, err := s.client.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	s.cache.SetJSON(ctx, cacheKeyAll, apps)
	return apps, nil
}

// Count returns the total number of applications
func (s *ApplicationService) Count(ctx context.Context) (int, error) {
	var total int
	if s.cache.GetJSON(ctx, cacheKeyCount, &total) {
		return total, nil
	}
	total, err := s.client.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	s.cache.SetJSON(ctx, cacheKeyCount, total)
	return total, nil
}

// Page returns the 1-based page of applications. pageSize 0 uses the configured default.
func (s *ApplicationService) Page(ctx context.Context, page, pageSize int) (*ApplicationPage, error) {
	if pageSize == 0 {
		pageSize = s.pageSize
	}
	if page < 1 || pageSize < 1 {
		return nil, accountapi.ErrInvalidPage
	}

	key := fmt.Sprintf("applications:page:%d:%d", page, pageSize)
	var cached ApplicationPage
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	var (
		items []accountapi.AccountApplication
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.client.ListPage(gctx, (page-1)*pageSize, pageSize)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load application page %d: %w", page, err)
	}

	result := &ApplicationPage{
		Items: items,
		Meta: PageMeta{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: accountapi.PageCount(total, pageSize),
		},
	}
	s.cache.SetJSON(ctx, key, result)
	return result, nil
}

// Get returns one application
func (s *ApplicationService) Get(ctx context.Context, id int) (*accountapi.AccountApplication, error) {
	if id < 1 {
		return nil, ErrInvalidApplication
	}
	key := fmt.Sprintf("applications:id:%d", id)
	var cached accountapi.AccountApplication
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}
	app, err := s.client.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, app)
	return app, nil
}

// Create submits a new application and returns the stored record with its account number and IBAN
func (s *ApplicationService) Create(ctx context.Context, payload accountapi.ApplicationPayload) (*accountapi.AccountApplication, error) {
	app, err := s.client.Create(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("Application created", "application_id", app.ID, "account_no", app.AccountNo)
	return app, nil
}

// Update replaces an application
func (s *ApplicationService) Update(ctx context.Context, id int, payload accountapi.ApplicationPayload) (*accountapi.AccountApplication, error) {
	if id < 1 {
		return nil, ErrInvalidApplication
	}
	app, err := s.client.Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("Application updated", "application_id", id)
	return app, nil
}

// Patch applies field-level edits on top of the current record and submits the result.
// Keys are the JSON field names of the payload.
func (s *ApplicationService) Patch(ctx context.Context, id int, changes map[string]any) (*accountapi.AccountApplication, error) {
	if id < 1 {
		return nil, ErrInvalidApplication
	}
	current, err := s.client.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	payload := accountapi.PayloadFromApplication(*current)
	for _, k := range keys {
		payload, err = accountapi.WithField(payload, k, changes[k])
		if err != nil {
			return nil, err
		}
	}
	return s.Update(ctx, id, payload)
}

// Delete removes an application
func (s *ApplicationService) Delete(ctx context.Context, id int) error {
	if id < 1 {
		return ErrInvalidApplication
	}
	if err := s.client.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("Application deleted", "application_id", id)
	return nil
}

// Search looks applications up by one criterion. Unique criteria yield at most one result.
// A miss is reported as ErrNoResults so it stays distinct from a transport failure.
func (s *ApplicationService) Search(ctx context.Context, kind accountapi.SearchKind, value string) ([]accountapi.AccountApplication, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSearchKind, kind)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrEmptySearchValue
	}

	var (
		one  *accountapi.AccountApplication
		many []accountapi.AccountApplication
		err  error
	)
	switch kind {
	case accountapi.SearchKindCNIC:
		one, err = s.client.SearchByCNIC(ctx, value)
	case accountapi.SearchKindAccountNumber:
		one, err = s.client.SearchByAccountNumber(ctx, value)
	case accountapi.SearchKindIBAN:
		one, err = s.client.SearchByIBAN(ctx, value)
	case accountapi.SearchKindCity:
		many, err = s.client.SearchByCity(ctx, value)
	case accountapi.SearchKindAccountType:
		many, err = s.client.SearchByAccountType(ctx, accountapi.AccountType(value))
	}

	if err != nil {
		if errors.Is(err, accountapi.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %q", ErrNoResults, kind, value)
		}
		return nil, err
	}
	if kind.Single() {
		if one == nil {
			return nil, fmt.Errorf("%w: %s %q", ErrNoResults, kind, value)
		}
		return []accountapi.AccountApplication{*one}, nil
	}
	if len(many) == 0 {
		return nil, fmt.Errorf("%w: %s %q", ErrNoResults, kind, value)
	}
	return many, nil
}

// Dashboard collects the landing view. An unreachable status endpoint marks the
// backend offline instead of failing the whole view.
func (s *ApplicationService) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		status, err := s.client.GetStatus(gctx)
		if err != nil {
			s.logger.Warn("Backend status check failed", "error", err)
			return nil
		}
		d.Online = status.Online()
		d.StatusMessage = status.Message
		d.Version = status.Version
		return nil
	})
	g.Go(func() error {
		total, err := s.Count(gctx)
		d.Total = total
		return err
	})
	g.Go(func() error {
		recent, err := s.client.ListPage(gctx, 0, recentDashboard)
		d.Recent = recent
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return d, nil
}

func (s *ApplicationService) invalidate(ctx context.Context) {
	s.cache.DeletePattern(ctx, cachePattern)
}
