package types

// Lookup tables are seeded from code (internal/seed) and read-only at runtime.

type Area struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Slug         string `db:"slug" json:"slug"`
	DisplayOrder int    `db:"display_order" json:"displayOrder"`
	IsActive     bool   `db:"is_active" json:"isActive"`
}

type Classification struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Slug         string `db:"slug" json:"slug"`
	DisplayOrder int    `db:"display_order" json:"displayOrder"`
	IsActive     bool   `db:"is_active" json:"isActive"`
}

type Room struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Slug         string `db:"slug" json:"slug"`
	Floor        int    `db:"floor" json:"floor"`
	DisplayOrder int    `db:"display_order" json:"displayOrder"`
	IsActive     bool   `db:"is_active" json:"isActive"`
}
