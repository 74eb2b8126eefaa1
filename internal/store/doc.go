// Package store provides SQLite-backed storage for the brewcode
// catalog and recipe book.
//
// Tables fall into three groups:
//   - Taxonomy: categories, subcategories, items
//   - Reference rules: stageTypes (seeded), substituteGroups
//   - Recipes: recipes, recipeStages, recipeIngredients
//
// Two constraints carry domain semantics into the schema itself:
//   - recipeIngredients CHECK ((itemID IS NULL) <> (substituteGroupID
//     IS NULL)) makes an ingredient line reference exactly one of a
//     specific item or a substitute group
//   - UNIQUE(recipeID, stageOrder) keeps stage positions distinct
//     within a recipe
//
// User data (items, recipes) is soft-deleted via isActive so existing
// recipe references never dangle. Reference data is seeded with
// INSERT OR IGNORE semantics, safe to re-run on every init.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
