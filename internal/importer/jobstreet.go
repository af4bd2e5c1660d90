package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"worklinkph/internal/domain/job"

	"github.com/gocolly/colly/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	SourceJobStreet = "jobstreet"

	DefaultBaseURL = "https://ph.jobstreet.com"
	userAgent      = "WorkLinkPHImporter/1.0"

	maxDescriptionRunes = 8000
)

// JobImporter stores one crawled job; false means it already existed.
type JobImporter interface {
	ImportJob(ctx context.Context, j job.Job) (bool, error)
}

type Config struct {
	BaseURL string
	// Query is turned into the board's "<slug>-jobs" search path.
	Query             string
	Pages             int
	Workers           int
	RequestsPerSecond float64
}

type Stats struct {
	Found    int
	Imported int
	Skipped  int
	Failed   int
}

type JobStreet struct {
	cfg         Config
	allowedHost string
	jobs        JobImporter
	limiter     *rate.Limiter
	logger      *log.Logger

	imported atomic.Int64
	skipped  atomic.Int64
	failed   atomic.Int64
}

func NewJobStreet(cfg Config, jobs JobImporter, logger *log.Logger) *JobStreet {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Pages <= 0 {
		cfg.Pages = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if logger == nil {
		logger = log.Default()
	}

	s := &JobStreet{
		cfg:         cfg,
		allowedHost: hostFromBaseURL(cfg.BaseURL),
		jobs:        jobs,
		logger:      logger,
	}
	if cfg.RequestsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return s
}

// SearchURL returns the listing page URL for a 1-based page number.
func (s *JobStreet) SearchURL(page int) string {
	path := "/jobs"
	if slug := slugify(s.cfg.Query); slug != "" {
		path = "/" + slug + "-jobs"
	}
	return fmt.Sprintf("%s%s?page=%d", s.cfg.BaseURL, path, page)
}

// Run crawls the configured listing pages and imports every job found.
// Per-item failures are logged and counted; only cancellation aborts the run.
func (s *JobStreet) Run(ctx context.Context) (Stats, error) {
	if s == nil || s.jobs == nil {
		return Stats{}, errors.New("nil importer")
	}

	seen := map[string]struct{}{}
	var cards []listingCard
	for page := 1; page <= s.cfg.Pages; page++ {
		items, err := s.scrapeListingPage(ctx, s.SearchURL(page))
		if err != nil {
			if ctx.Err() != nil {
				return s.stats(len(cards)), ctx.Err()
			}
			s.logger.Printf("importer | list page failed page=%d err=%v", page, err)
			continue
		}
		for _, it := range items {
			if _, ok := seen[it.Link]; ok {
				continue
			}
			seen[it.Link] = struct{}{}
			cards = append(cards, it)
		}
	}
	s.logger.Printf("importer | listing done pages=%d found=%d", s.cfg.Pages, len(cards))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for _, card := range cards {
		g.Go(func() error {
			if err := s.importOne(gctx, card); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.failed.Add(1)
				s.logger.Printf("importer | job failed url=%s err=%v", card.Link, err)
			}
			return nil
		})
	}
	err := g.Wait()
	return s.stats(len(cards)), err
}

func (s *JobStreet) stats(found int) Stats {
	return Stats{
		Found:    found,
		Imported: int(s.imported.Load()),
		Skipped:  int(s.skipped.Load()),
		Failed:   int(s.failed.Load()),
	}
}

func (s *JobStreet) importOne(ctx context.Context, card listingCard) error {
	d, err := s.scrapeDetailPage(ctx, card.Link)
	if err != nil {
		return err
	}

	title := pickNonEmpty(d.title, card.Title)
	company := pickNonEmpty(d.company, card.Company)
	if title == "" || company == "" {
		s.skipped.Add(1)
		return nil
	}

	externalID := ExternalID(card.Link)
	link := card.Link
	tags := InferTags(title, d.workType, d.description)

	created, err := s.jobs.ImportJob(ctx, job.Job{
		Title:       title,
		Company:     company,
		Location:    pickNonEmpty(d.location, card.Location),
		Description: truncateRunes(d.description, maxDescriptionRunes),
		Type:        jobType(d.workType, tags),
		Tags:        tags,
		Source:      SourceJobStreet,
		ExternalID:  &externalID,
		ExternalURL: &link,
	})
	if err != nil {
		return err
	}
	if created {
		s.imported.Add(1)
	} else {
		s.skipped.Add(1)
	}
	return nil
}

type listingCard struct {
	Title    string
	Company  string
	Location string
	Link     string
}

func (s *JobStreet) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.AllowedDomains(s.allowedHost),
		colly.UserAgent(userAgent),
	)
	c.SetRequestTimeout(30 * time.Second)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", "en-PH,en;q=0.9")
	})
	return c
}

func (s *JobStreet) visit(ctx context.Context, c *colly.Collector, target string) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var reqErr error
	c.OnError(func(_ *colly.Response, err error) {
		reqErr = err
	})
	if err := c.Visit(target); err != nil {
		return err
	}
	c.Wait()
	return reqErr
}

func (s *JobStreet) scrapeListingPage(ctx context.Context, listURL string) ([]listingCard, error) {
	c := s.newCollector()

	var mu sync.Mutex
	byLink := map[string]*listingCard{}
	order := []string{}
	add := func(card listingCard) {
		if card.Link == "" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if existing, ok := byLink[card.Link]; ok {
			existing.Title = pickNonEmpty(existing.Title, card.Title)
			existing.Company = pickNonEmpty(existing.Company, card.Company)
			existing.Location = pickNonEmpty(existing.Location, card.Location)
			return
		}
		byLink[card.Link] = &card
		order = append(order, card.Link)
	}

	c.OnHTML("article", func(e *colly.HTMLElement) {
		href := e.ChildAttr(`a[data-automation="jobTitle"]`, "href")
		if href == "" {
			return
		}
		add(listingCard{
			Title:    clean(e.ChildText(`[data-automation="jobTitle"]`)),
			Company:  clean(e.ChildText(`[data-automation="jobCompany"]`)),
			Location: clean(e.ChildText(`[data-automation="jobLocation"]`)),
			Link:     normalizeJobURL(e.Request.AbsoluteURL(href)),
		})
	})

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		href := strings.TrimSpace(e.Attr("href"))
		if !strings.Contains(href, "/job/") {
			return
		}
		add(listingCard{Link: normalizeJobURL(e.Request.AbsoluteURL(href))})
	})

	if err := s.visit(ctx, c, listURL); err != nil {
		return nil, err
	}

	out := make([]listingCard, 0, len(order))
	for _, link := range order {
		out = append(out, *byLink[link])
	}
	return out, nil
}

type jobDetail struct {
	title       string
	company     string
	location    string
	workType    string
	description string
}

func (s *JobStreet) scrapeDetailPage(ctx context.Context, jobURL string) (jobDetail, error) {
	c := s.newCollector()

	var out jobDetail
	c.OnHTML(`[data-automation="job-detail-title"]`, func(e *colly.HTMLElement) {
		out.title = clean(e.Text)
	})
	c.OnHTML("h1", func(e *colly.HTMLElement) {
		if out.title == "" {
			out.title = clean(e.Text)
		}
	})
	c.OnHTML(`[data-automation="advertiser-name"]`, func(e *colly.HTMLElement) {
		out.company = clean(e.Text)
	})
	c.OnHTML(`[data-automation="job-detail-location"]`, func(e *colly.HTMLElement) {
		out.location = clean(e.Text)
	})
	c.OnHTML(`[data-automation="job-detail-work-type"]`, func(e *colly.HTMLElement) {
		out.workType = clean(e.Text)
	})
	c.OnHTML(`[data-automation="jobAdDetails"]`, func(e *colly.HTMLElement) {
		out.description = clean(e.Text)
	})

	if err := s.visit(ctx, c, jobURL); err != nil {
		return jobDetail{}, err
	}
	return out, nil
}

var jobIDPattern = regexp.MustCompile(`/job/([A-Za-z0-9-]+)`)

// ExternalID extracts the board's job id from a detail URL, falling back to
// the last path segment.
func ExternalID(jobURL string) string {
	if m := jobIDPattern.FindStringSubmatch(jobURL); len(m) == 2 {
		return m[1]
	}
	u, err := url.Parse(strings.TrimSpace(jobURL))
	if err != nil {
		return jobURL
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if last := parts[len(parts)-1]; last != "" {
		return last
	}
	return jobURL
}

// normalizeJobURL drops query and fragment so tracking parameters do not
// produce duplicate links.
func normalizeJobURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func hostFromBaseURL(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return "ph.jobstreet.com"
	}
	if h, _, err := net.SplitHostPort(u.Host); err == nil {
		return h
	}
	return u.Host
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	s = nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(s, "-")
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func pickNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
