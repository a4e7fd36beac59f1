package models

// Category is the closed set of product categories.
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryMobiles     Category = "Mobiles"
	CategoryClothes     Category = "Clothes"
	CategoryBooks       Category = "Books"
	CategoryHome        Category = "Home"
	CategoryGrocery     Category = "Grocery"
	CategoryHealth      Category = "Health"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryElectronics,
	CategoryMobiles,
	CategoryClothes,
	CategoryBooks,
	CategoryHome,
	CategoryGrocery,
	CategoryHealth,
}

func (c Category) Valid() bool {
	for _, category := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ParseCategory matches s exactly against the closed set.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}
