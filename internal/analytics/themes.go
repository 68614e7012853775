package analytics

import (
	"fmt"
	"sort"

	"brickstats/internal/dataset"
	"brickstats/pkg/contracts/domain"
)

// themeNames returns themes reduced to (theme_id, theme_name)
func themeNames(themes *dataset.Table) (*dataset.Table, error) {
	t, err := themes.Select(ColID, ColName)
	if err != nil {
		return nil, err
	}
	return t.Rename(map[string]string{ColID: ColThemeID, ColName: colThemeName})
}

// TopThemesByUniqueParts attributes every inventory part to the theme of its
// set and ranks themes by distinct part numbers. Parts whose inventory is
// unknown are dropped; parts whose set or theme is unknown are not counted.
func TopThemesByUniqueParts(inventoryParts, inventories, sets, themes *dataset.Table, n int) ([]domain.ThemeParts, error) {
	parts, err := inventoryParts.Select(ColInventoryID, ColPartNum)
	if err != nil {
		return nil, err
	}

	inv, err := inventories.Select(ColID, ColSetNum)
	if err != nil {
		return nil, err
	}
	if inv, err = inv.Rename(map[string]string{ColID: ColInventoryID}); err != nil {
		return nil, err
	}

	setThemes, err := sets.Select(ColSetNum, ColThemeID)
	if err != nil {
		return nil, err
	}

	names, err := themeNames(themes)
	if err != nil {
		return nil, err
	}

	joined, err := dataset.InnerJoin(parts, inv, ColInventoryID, ColInventoryID, "_inventories")
	if err != nil {
		return nil, err
	}
	if joined, err = dataset.LeftJoin(joined, setThemes, ColSetNum, ColSetNum, "_sets"); err != nil {
		return nil, err
	}
	if joined, err = dataset.LeftJoin(joined, names, ColThemeID, ColThemeID, "_themes"); err != nil {
		return nil, err
	}

	distinct := make(map[string]map[string]struct{})
	joined.Each(func(r dataset.Row) {
		theme, part := r.Get(colThemeName), r.Get(ColPartNum)
		if theme == dataset.Missing || part == dataset.Missing {
			return
		}
		if distinct[theme] == nil {
			distinct[theme] = make(map[string]struct{})
		}
		distinct[theme][part] = struct{}{}
	})

	ranked := make([]domain.ThemeParts, 0, len(distinct))
	for theme, set := range distinct {
		ranked = append(ranked, domain.ThemeParts{Theme: theme, UniqueParts: len(set)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].UniqueParts != ranked[j].UniqueParts {
			return ranked[i].UniqueParts > ranked[j].UniqueParts
		}
		return ranked[i].Theme < ranked[j].Theme
	})

	ranked = head(ranked, n)
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

type themeYear struct {
	theme string
	year  int
}

// TopYoYGrowth counts sets per (theme, year), compares each count with the
// theme's previous observed year (0 for the first) and ranks by growth.
// Ties keep theme then year order.
func TopYoYGrowth(sets, themes *dataset.Table, n int) ([]domain.ThemeGrowth, error) {
	setThemes, err := sets.Select(ColYear, ColThemeID)
	if err != nil {
		return nil, err
	}
	names, err := themeNames(themes)
	if err != nil {
		return nil, err
	}
	joined, err := dataset.LeftJoin(setThemes, names, ColThemeID, ColThemeID, "_themes")
	if err != nil {
		return nil, err
	}

	counts := make(map[themeYear]int)
	joined.Each(func(r dataset.Row) {
		theme := r.Get(colThemeName)
		year, ok := r.Int(ColYear)
		if theme == dataset.Missing || !ok {
			return
		}
		counts[themeYear{theme, year}]++
	})

	keys := make([]themeYear, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].theme != keys[j].theme {
			return keys[i].theme < keys[j].theme
		}
		return keys[i].year < keys[j].year
	})

	growth := make([]domain.ThemeGrowth, len(keys))
	for i, k := range keys {
		prev := 0
		if i > 0 && keys[i-1].theme == k.theme {
			prev = counts[keys[i-1]]
		}
		total := counts[k]
		growth[i] = domain.ThemeGrowth{
			Theme:        k.theme,
			Year:         k.year,
			TotalSets:    total,
			PreviousSets: prev,
			Growth:       total - prev,
			Label:        fmt.Sprintf("%s (%d)", k.theme, k.year),
		}
	}

	sort.SliceStable(growth, func(i, j int) bool { return growth[i].Growth > growth[j].Growth })

	growth = head(growth, n)
	for i := range growth {
		growth[i].Rank = i + 1
	}
	return growth, nil
}

func head[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
