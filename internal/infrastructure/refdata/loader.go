package refdata

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nutriscope/backend/internal/domain"
)

// aliasColumnSynonyms name the synonym column of an alias table; the
// canonical column reuses keyColumnSynonyms.
var aliasColumnSynonyms = []string{"alias", "synonym", "aka", "also_known_as"}

// builtinAliases seed the alias table before any alias dataset is applied.
// Keys are lowercase normalized phrases; insertion order is load-bearing for
// resolver determinism.
var builtinAliases = []domain.AliasEntry{
	{Alias: "scallion", Canonical: "Green Onion"},
	{Alias: "spring onion", Canonical: "Green Onion"},
	{Alias: "garbanzo bean", Canonical: "Chickpea"},
	{Alias: "garbanzo", Canonical: "Chickpea"},
	{Alias: "cilantro", Canonical: "Coriander"},
	{Alias: "courgette", Canonical: "Zucchini"},
	{Alias: "aubergine", Canonical: "Eggplant"},
	{Alias: "rocket", Canonical: "Arugula"},
	{Alias: "capsicum", Canonical: "Bell Pepper"},
	{Alias: "corn on the cob", Canonical: "Corn"},
	{Alias: "sweetcorn", Canonical: "Corn"},
	{Alias: "porridge oat", Canonical: "Oats"},
	{Alias: "rolled oat", Canonical: "Oats"},
}

// Source describes one reference table the loader assembles a snapshot from
type Source struct {
	Name     string
	URL      string
	Role     string
	Optional bool
}

// Loader builds immutable ReferenceData snapshots from a dataset catalog.
// Parsed tables are shared through the cache; the assembled snapshot is
// owned by the requesting report and never mutated afterwards.
type Loader struct {
	fetcher  domain.TableFetcher
	cache    domain.TableCache
	cacheTTL time.Duration
	sources  []Source
	debug    bool
}

// NewLoader creates a new snapshot loader
func NewLoader(fetcher domain.TableFetcher, cache domain.TableCache, sources []Source, cacheTTL time.Duration) *Loader {
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &Loader{
		fetcher:  fetcher,
		cache:    cache,
		cacheTTL: cacheTTL,
		sources:  sources,
	}
}

// SetDebug enables or disables debug logging
func (l *Loader) SetDebug(debug bool) {
	l.debug = debug
}

// Snapshot fetches, parses and indexes every catalog dataset into one
// immutable ReferenceData value. Required datasets fail the whole snapshot;
// optional datasets degrade to empty with a diagnostic. Stale data from a
// previous snapshot is never substituted for a failed required fetch.
func (l *Loader) Snapshot(ctx context.Context) (*domain.ReferenceData, error) {
	ref := &domain.ReferenceData{
		AliasExact: make(map[string]string),
	}

	var aliasEntries []domain.AliasEntry
	seenIdentity := make(map[string]bool)

	for _, source := range l.sources {
		table, err := l.table(ctx, source)
		if err != nil {
			if !source.Optional {
				return nil, fmt.Errorf("required dataset %q: %w", source.Name, err)
			}
			l.degrade(ref, source, err)
			if source.Role != domain.RoleAlias {
				ref.Datasets = append(ref.Datasets, *EmptyIndex(source.Name, source.Role))
			}
			continue
		}

		if source.Role == domain.RoleAlias {
			entries, err := parseAliasTable(table)
			if err != nil {
				if !source.Optional {
					return nil, fmt.Errorf("required dataset %q: %w", source.Name, err)
				}
				l.degrade(ref, source, err)
				continue
			}
			aliasEntries = append(aliasEntries, entries...)
			continue
		}

		index, err := BuildIndex(source.Name, source.Role, table)
		if err != nil {
			if !source.Optional {
				return nil, err
			}
			l.degrade(ref, source, err)
			ref.Datasets = append(ref.Datasets, *EmptyIndex(source.Name, source.Role))
			continue
		}

		for _, entry := range index.Identities {
			if !seenIdentity[entry.Key] {
				seenIdentity[entry.Key] = true
				ref.Universe = append(ref.Universe, entry)
			}
		}
		if source.Role == domain.RoleDiet {
			ref.DietTags = index.ValueColumns
		}
		ref.Datasets = append(ref.Datasets, *index)
	}

	// Seeded aliases first, dataset aliases after; first entry wins a key.
	for _, entry := range builtinAliases {
		addAlias(ref, entry)
	}
	for _, entry := range aliasEntries {
		addAlias(ref, entry)
	}

	if l.debug {
		log.Printf("[REFDATA] Snapshot: %d identities, %d aliases, %d datasets (%d degraded)",
			len(ref.Universe), len(ref.Aliases), len(ref.Datasets), len(ref.Degraded))
	}

	return ref, nil
}

// table returns a parsed dataset, from cache when fresh
func (l *Loader) table(ctx context.Context, source Source) (*domain.DatasetTable, error) {
	if cached, err := l.cache.Get(ctx, source.URL); err == nil && cached != nil {
		return cached, nil
	}

	table, err := l.fetcher.FetchTable(ctx, source.URL)
	if err != nil {
		return nil, err
	}

	if err := l.cache.Set(ctx, source.URL, table, l.cacheTTL); err != nil && l.debug {
		log.Printf("[REFDATA] Cache set failed for %q: %v", source.Name, err)
	}

	return table, nil
}

func (l *Loader) degrade(ref *domain.ReferenceData, source Source, err error) {
	ref.Degraded = append(ref.Degraded, source.Name)
	if l.debug {
		log.Printf("[REFDATA] Optional dataset %q degraded to empty: %v", source.Name, err)
	}
}

// addAlias appends an alias entry, lowercasing the key and keeping the
// first entry for a duplicate key
func addAlias(ref *domain.ReferenceData, entry domain.AliasEntry) {
	alias := strings.ToLower(strings.TrimSpace(entry.Alias))
	canonical := strings.TrimSpace(entry.Canonical)
	if alias == "" || canonical == "" {
		return
	}
	if _, exists := ref.AliasExact[alias]; exists {
		return
	}
	ref.AliasExact[alias] = canonical
	ref.Aliases = append(ref.Aliases, domain.AliasEntry{Alias: alias, Canonical: canonical})
}

// parseAliasTable reads (alias, canonical identity) pairs from an alias
// dataset, preserving row order.
func parseAliasTable(table *domain.DatasetTable) ([]domain.AliasEntry, error) {
	aliasColumn, ok := findColumn(table.Columns, aliasColumnSynonyms)
	if !ok {
		return nil, fmt.Errorf("%w: alias table has no alias column", domain.ErrNoKeyColumn)
	}
	canonicalColumn, ok := findColumn(table.Columns, keyColumnSynonyms)
	if !ok {
		return nil, fmt.Errorf("%w: alias table has no canonical column", domain.ErrNoKeyColumn)
	}

	entries := make([]domain.AliasEntry, 0, len(table.Records))
	for _, record := range table.Records {
		entries = append(entries, domain.AliasEntry{
			Alias:     record[aliasColumn],
			Canonical: record[canonicalColumn],
		})
	}
	return entries, nil
}
