package pagination

import (
	"fmt"

	"gorm.io/gorm"
)

// After restricts the query to rows strictly after cursor in
// (sortExpr DESC, idExpr DESC) order. A nil cursor leaves the query as is.
func After[K SortKey](sortExpr, idExpr string, cursor *Cursor[K]) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if cursor == nil {
			return db
		}
		return db.Where(
			fmt.Sprintf("(%s < ? OR (%s = ? AND %s < ?))", sortExpr, sortExpr, idExpr),
			cursor.SortKeyValue, cursor.SortKeyValue, cursor.Id,
		)
	}
}

func Descending(sortExpr, idExpr string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(sortExpr + " DESC").Order(idExpr + " DESC")
	}
}

// Window fetches one row past the page to learn whether another page exists.
func Window(limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(limit + 1)
	}
}

// Keyset combines After, Descending and Window.
func Keyset[K SortKey](sortExpr, idExpr string, cursor *Cursor[K], limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = After(sortExpr, idExpr, cursor)(db)
		db = Descending(sortExpr, idExpr)(db)
		return Window(limit)(db)
	}
}

// Cut trims rows fetched with Window(limit) to a page. NextCursor is set only
// when the extra row was present.
func Cut[T any, K SortKey](rows []T, limit int, keyOf func(T) Cursor[K]) Page[T, K] {
	if rows == nil {
		rows = []T{}
	}
	if len(rows) <= limit {
		return Page[T, K]{Items: rows}
	}
	items := rows[:limit]
	next := keyOf(items[len(items)-1])
	return Page[T, K]{Items: items, NextCursor: &next}
}
