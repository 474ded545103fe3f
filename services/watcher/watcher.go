package watcher

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"wgwatcher/config"
	"wgwatcher/internal/scraper"
	"wgwatcher/logger"
	"wgwatcher/services/notify"
	"wgwatcher/services/publisher"
	"wgwatcher/services/store"

	apperrors "wgwatcher/pkg/errors"
)

// Result summarizes a single watch run
type Result struct {
	Found  int
	New    int
	Sent   int
	Failed int
}

// listingEvent is the payload published to the event stream for each new
// listing. The detail fields are flattened alongside the id.
type listingEvent struct {
	ID string `json:"id"`
	scraper.ListingDetails
}

// Watcher runs the fetch, diff and notify cycle
type Watcher struct {
	cfg       *config.Config
	fetcher   scraper.Fetcher
	store     store.Store
	notifier  notify.Notifier
	publisher publisher.Publisher
	log       *logger.Logger
}

// New creates a watcher. notifier and pub may be nil: a nil notifier runs
// the cycle in dry-run mode, a nil publisher skips event publishing.
func New(
	cfg *config.Config,
	fetcher scraper.Fetcher,
	st store.Store,
	notifier notify.Notifier,
	pub publisher.Publisher,
	log *logger.Logger,
) *Watcher {
	return &Watcher{
		cfg:       cfg,
		fetcher:   fetcher,
		store:     st,
		notifier:  notifier,
		publisher: pub,
		log:       log,
	}
}

// Run executes one watch cycle: load the seen-set, fetch and extract the
// search page, notify for every unseen listing and persist the grown set.
// Every new listing is marked seen once its notification was attempted, so
// a failed send is not retried on the next run.
func (w *Watcher) Run() (Result, error) {
	var res Result

	seen, err := w.store.Load()
	if err != nil {
		return res, err
	}
	w.log.Debug().Int("count", seen.Len()).Msg("Loaded seen listings")

	page, err := w.searchPage()
	if err != nil {
		return res, err
	}

	refs := scraper.ExtractListingRefs(page)
	res.Found = len(refs)
	w.log.Info().Int("count", res.Found).Msg("Extracted listings from search page")

	if res.Found == 0 && w.cfg.DebugDumpHTML {
		w.dumpPage(page)
	}

	var fresh []scraper.ListingRef
	for _, ref := range refs {
		if !seen.Contains(ref.ID) {
			fresh = append(fresh, ref)
		}
	}
	res.New = len(fresh)

	if res.New == 0 {
		w.log.Info().Msg("No new listings detected")
		return res, nil
	}

	ids := make([]string, len(fresh))
	for i, ref := range fresh {
		ids[i] = ref.ID
	}
	w.log.Info().Strs("ids", ids).Msg("New listings detected")

	for _, ref := range fresh {
		details := scraper.FetchDetails(w.fetcher, ref.URL)
		message := notify.BuildMessage(details)

		entry := w.log.WithFields(logger.Fields{
			"listing_id": ref.ID,
			"url":        ref.URL,
		})
		entry.Debug().Str("message", message).Msg("Prepared notification")

		w.publishEvent(ref, details)

		if w.notifier != nil {
			if err := w.notifier.Send(message); err != nil {
				entry.WithError(err).Error().Msg("Failed to send notification")
				res.Failed++
			} else {
				res.Sent++
				time.Sleep(w.cfg.SendDelay)
			}
		}

		seen.Add(ref.ID)
	}

	if err := w.store.Save(seen); err != nil {
		return res, err
	}
	w.log.Info().Int("count", seen.Len()).Msg("Saved seen listings")

	return res, nil
}

// searchPage returns the search page HTML, from the configured local file
// when one is set, otherwise from the live search URL
func (w *Watcher) searchPage() (string, error) {
	if w.cfg.HTMLFile != "" {
		data, err := os.ReadFile(w.cfg.HTMLFile)
		if err != nil {
			return "", apperrors.NewFetch(w.cfg.HTMLFile, "failed to read local page", err)
		}
		w.log.Info().Str("file", w.cfg.HTMLFile).Msg("Parsing local HTML file")
		return string(data), nil
	}
	return w.fetcher.Fetch(w.cfg.SearchURL)
}

// dumpPage writes the fetched page to the debug dump path so extraction
// failures on live markup can be inspected offline
func (w *Watcher) dumpPage(page string) {
	if err := os.MkdirAll(filepath.Dir(w.cfg.DebugDumpPath), 0o755); err != nil {
		w.log.WithError(err).Warn().Msg("Failed to create debug dump directory")
		return
	}
	if err := os.WriteFile(w.cfg.DebugDumpPath, []byte(page), 0o644); err != nil {
		w.log.WithError(err).Warn().Msg("Failed to write debug dump")
		return
	}
	w.log.Warn().Str("path", w.cfg.DebugDumpPath).Msg("No listings extracted, page dumped for inspection")
}

// publishEvent emits the listing to the event stream. Publish failures are
// logged and do not affect notification delivery.
func (w *Watcher) publishEvent(ref scraper.ListingRef, details scraper.ListingDetails) {
	if w.publisher == nil {
		return
	}

	data, err := json.Marshal(listingEvent{ID: ref.ID, ListingDetails: details})
	if err != nil {
		w.log.WithError(err).Warn().Str("listing_id", ref.ID).Msg("Failed to encode listing event")
		return
	}
	if err := w.publisher.Publish(data); err != nil {
		w.log.WithError(err).Warn().Str("listing_id", ref.ID).Msg("Failed to publish listing event")
	}
}
