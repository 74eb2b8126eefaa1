package store

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// seedData is the shape of the embedded reference catalog. Cross
// references (item category, group members, stage-type rules) are by
// name and resolved to IDs at load time.
type seedData struct {
	Categories []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"categories"`
	Items []struct {
		Name     string `yaml:"name"`
		Category string `yaml:"category"`
		Unit     string `yaml:"unit"`
	} `yaml:"items"`
	Groups []struct {
		Name    string `yaml:"name"`
		Notes   string `yaml:"notes"`
		Members []struct {
			Item      string `yaml:"item"`
			Preferred bool   `yaml:"preferred"`
		} `yaml:"members"`
	} `yaml:"groups"`
	StageTypes []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Required    bool   `yaml:"required"`
		Malolactic  bool   `yaml:"malolactic"`
		Requires    string `yaml:"requires"`
		Excludes    string `yaml:"excludes"`
	} `yaml:"stageTypes"`
}

// Seed loads the embedded reference catalog: categories, a starter set
// of items and substitute groups, and the stage-type rule table.
// Idempotent; existing rows (matched by name) are left untouched, so
// re-running init never clobbers user edits.
func (s *Store) Seed(ctx context.Context) error {
	var data seedData
	if err := yaml.Unmarshal(seedYAML, &data); err != nil {
		return fmt.Errorf("seed: parse embedded data: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	categoryIDs := make(map[string]int64, len(data.Categories))
	for _, c := range data.Categories {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO categories (name, description) VALUES (?, ?)
		`, c.Name, c.Description); err != nil {
			return fmt.Errorf("seed: category %q: %w", c.Name, err)
		}
		var id int64
		if err := tx.QueryRowContext(ctx,
			`SELECT categoryID FROM categories WHERE name = ?`, c.Name).Scan(&id); err != nil {
			return fmt.Errorf("seed: category %q: %w", c.Name, err)
		}
		categoryIDs[c.Name] = id
	}

	itemIDs := make(map[string]int64, len(data.Items))
	for _, it := range data.Items {
		catID, ok := categoryIDs[it.Category]
		if !ok {
			return fmt.Errorf("seed: item %q references unknown category %q", it.Name, it.Category)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO items (categoryID, name, unit) VALUES (?, ?, ?)
		`, catID, it.Name, it.Unit); err != nil {
			return fmt.Errorf("seed: item %q: %w", it.Name, err)
		}
		var id int64
		if err := tx.QueryRowContext(ctx,
			`SELECT itemID FROM items WHERE name = ?`, it.Name).Scan(&id); err != nil {
			return fmt.Errorf("seed: item %q: %w", it.Name, err)
		}
		itemIDs[it.Name] = id
	}

	for _, g := range data.Groups {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO substituteGroups (name, notes) VALUES (?, ?)
		`, g.Name, g.Notes); err != nil {
			return fmt.Errorf("seed: group %q: %w", g.Name, err)
		}
		var groupID int64
		if err := tx.QueryRowContext(ctx,
			`SELECT groupID FROM substituteGroups WHERE name = ?`, g.Name).Scan(&groupID); err != nil {
			return fmt.Errorf("seed: group %q: %w", g.Name, err)
		}
		for _, m := range g.Members {
			itemID, ok := itemIDs[m.Item]
			if !ok {
				return fmt.Errorf("seed: group %q references unknown item %q", g.Name, m.Item)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO substituteGroupMembers (groupID, itemID, isPreferred)
				VALUES (?, ?, ?)
			`, groupID, itemID, boolToInt(m.Preferred)); err != nil {
				return fmt.Errorf("seed: group %q member %q: %w", g.Name, m.Item, err)
			}
		}
	}

	// Stage types in two passes: insert every row first, then resolve
	// the requires/excludes names once all IDs exist.
	stageTypeIDs := make(map[string]int64, len(data.StageTypes))
	for _, st := range data.StageTypes {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO stageTypes (name, description, isRequired, malolactic)
			VALUES (?, ?, ?, ?)
		`, st.Name, st.Description, boolToInt(st.Required), boolToInt(st.Malolactic)); err != nil {
			return fmt.Errorf("seed: stage type %q: %w", st.Name, err)
		}
		var id int64
		if err := tx.QueryRowContext(ctx,
			`SELECT stageTypeID FROM stageTypes WHERE name = ?`, st.Name).Scan(&id); err != nil {
			return fmt.Errorf("seed: stage type %q: %w", st.Name, err)
		}
		stageTypeIDs[st.Name] = id
	}

	for _, st := range data.StageTypes {
		if st.Requires == "" && st.Excludes == "" {
			continue
		}
		var requiresID, excludesID any
		if st.Requires != "" {
			id, ok := stageTypeIDs[st.Requires]
			if !ok {
				return fmt.Errorf("seed: stage type %q requires unknown %q", st.Name, st.Requires)
			}
			requiresID = id
		}
		if st.Excludes != "" {
			id, ok := stageTypeIDs[st.Excludes]
			if !ok {
				return fmt.Errorf("seed: stage type %q excludes unknown %q", st.Name, st.Excludes)
			}
			excludesID = id
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE stageTypes SET requiresStageTypeID = ?, excludesStageTypeID = ?
			WHERE stageTypeID = ?
		`, requiresID, excludesID, stageTypeIDs[st.Name]); err != nil {
			return fmt.Errorf("seed: stage type %q rules: %w", st.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}
	return nil
}
